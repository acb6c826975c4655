package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

type ctxKey struct{}

// Guard authorizes a request from its access token alone. It never consults
// the credential store, so a leaked access token stays valid until it
// expires.
type Guard struct {
	issuer *Issuer
}

func NewGuard(issuer *Issuer) *Guard {
	return &Guard{issuer: issuer}
}

// Authenticate verifies accessToken and returns a context carrying the
// decoded identity. Every failure wraps common.ErrUnauthenticated; an expired
// token additionally wraps common.ErrTokenExpired so clients know to refresh.
func (g *Guard) Authenticate(ctx context.Context, accessToken string) (context.Context, *Identity, error) {
	accessToken = strings.TrimSpace(strings.TrimPrefix(accessToken, "Bearer "))
	if accessToken == "" {
		return ctx, nil, fmt.Errorf("%w: missing access token", common.ErrUnauthenticated)
	}

	claims, err := g.issuer.ParseAccessToken(accessToken)
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	id := claims.Identity
	return WithIdentity(ctx, &id), &id, nil
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity attached by the guard.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}
