// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"io"
	"time"
)

// User is the persisted account record.
//
// PasswordHash and RefreshToken never leave the server: use Public to build a
// response payload.
type User struct {
	ID            string
	UserName      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	// RefreshToken holds the single live refresh token; NULL after logout or
	// before the first login.
	RefreshToken sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the sanitized projection of User.
type PublicUser struct {
	ID            string    `json:"id"`
	UserName      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		UserName:      u.UserName,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// UserUpdate is a partial update: nil fields are left untouched.
// RefreshToken with Valid=false clears the stored token.
type UserUpdate struct {
	FullName      *string
	Email         *string
	PasswordHash  *string
	AvatarURL     *string
	CoverImageURL *string
	RefreshToken  *sql.NullString
}

// IsEmpty reports whether the update would change nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.FullName == nil && u.Email == nil && u.PasswordHash == nil &&
		u.AvatarURL == nil && u.CoverImageURL == nil && u.RefreshToken == nil
}

// UpdateCondition restricts an update to rows whose current refresh token
// equals RefreshToken. It turns the update into a compare-and-swap.
type UpdateCondition struct {
	RefreshToken string
}

// Asset is a binary file (avatar, cover image) handed to the uploader.
type Asset struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}
