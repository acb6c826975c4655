// Package auth issues and verifies the signed access and refresh tokens and
// provides the guard that authorizes requests from an access token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// Identity is the set of claims an access token carries. It is enough to
// authorize a request without a store lookup.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	UserName string `json:"username"`
	FullName string `json:"full_name"`
}

// AccessClaims are the claims of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Kind string `json:"typ"`
	Identity
}

// RefreshClaims are the claims of a refresh token. The registered ID (jti) is
// random so that every issued refresh token is distinct.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Kind   string `json:"typ"`
	UserID string `json:"user_id"`
}

// IssuerConfig carries the signing secrets and lifetimes.
// The two secrets are independent: rotating one must not invalidate the other.
type IssuerConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	cfg IssuerConfig
	now func() time.Time
}

func NewIssuer(cfg IssuerConfig) (*Issuer, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// IssueAccessToken signs a short-lived token carrying id.
func (i *Issuer) IssueAccessToken(id Identity) (string, error) {
	now := i.now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.AccessTTL)),
		},
		Kind:     kindAccess,
		Identity: id,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.AccessSecret)
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (i *Issuer) IssueRefreshToken(userID string) (string, error) {
	now := i.now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.RefreshTTL)),
		},
		Kind:   kindRefresh,
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.RefreshSecret)
}

// ParseAccessToken verifies signature, expiry and kind of an access token.
// It returns common.ErrTokenExpired or common.ErrInvalidToken on failure.
func (i *Issuer) ParseAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := i.parse(token, i.cfg.AccessSecret, claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindAccess || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// ParseRefreshToken verifies signature, expiry and kind of a refresh token.
func (i *Issuer) ParseRefreshToken(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := i.parse(token, i.cfg.RefreshSecret, claims); err != nil {
		return nil, err
	}
	if claims.Kind != kindRefresh || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (i *Issuer) parse(token string, secret []byte, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return common.ErrTokenExpired
		}
		return common.ErrInvalidToken
	}
	if !parsed.Valid {
		return common.ErrInvalidToken
	}
	return nil
}

// String hides the secrets when the config is printed.
func (c IssuerConfig) String() string {
	return fmt.Sprintf("IssuerConfig{AccessTTL: %s, RefreshTTL: %s}", c.AccessTTL, c.RefreshTTL)
}
