// Package common defines shared constants and sentinel errors used across
// client and server layers of accountkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level error classes. Every error returned by the user service
	// wraps exactly one of these.
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("already exists")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInfrastructure  = errors.New("service temporarily unavailable")

	// Token errors (malformed, badly signed or of the wrong kind).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
