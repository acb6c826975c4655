// Package storage uploads user assets (avatars, cover images) and returns the
// URL they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/google/uuid"
)

// ErrEmptyAsset is returned for an asset without a body.
var ErrEmptyAsset = errors.New("empty asset")

type Uploader interface {
	Upload(ctx context.Context, folder string, asset models.Asset) (string, error)
}

// RandomStorageKey builds folder/yyyy/m/d/<uuid><ext>.
func RandomStorageKey(folder, fileName string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%d/%d/%d/%v%s", folder, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}
