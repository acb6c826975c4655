package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	i, err := NewIssuer(IssuerConfig{
		AccessSecret:  []byte("access-secret"),
		AccessTTL:     time.Minute,
		RefreshSecret: []byte("refresh-secret"),
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}
	return i
}

var ada = Identity{UserID: "user-123", Email: "ada@x.com", UserName: "ada", FullName: "Ada L"}

func TestNewIssuer_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewIssuer(IssuerConfig{AccessTTL: time.Minute, RefreshTTL: time.Hour}); err == nil {
		t.Fatal("expected error for empty secrets")
	}
	if _, err := NewIssuer(IssuerConfig{AccessSecret: []byte("a"), RefreshSecret: []byte("r")}); err == nil {
		t.Fatal("expected error for zero lifetimes")
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)

	tok, err := i.IssueAccessToken(ada)
	if err != nil {
		t.Fatalf("IssueAccessToken error: %v", err)
	}

	claims, err := i.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.Identity != ada {
		t.Fatalf("identity mismatch: got %+v want %+v", claims.Identity, ada)
	}
}

func TestRefreshToken_RoundTripAndUnique(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)

	a, err := i.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	b, err := i.IssueRefreshToken("user-123")
	if err != nil {
		t.Fatalf("IssueRefreshToken error: %v", err)
	}
	if a == b {
		t.Fatal("two refresh tokens issued back to back must differ")
	}

	claims, err := i.ParseRefreshToken(a)
	if err != nil {
		t.Fatalf("ParseRefreshToken error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("user id mismatch: %q", claims.UserID)
	}
}

func TestTokens_AreNotInterchangeable(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)

	access, _ := i.IssueAccessToken(ada)
	refresh, _ := i.IssueRefreshToken(ada.UserID)

	if _, err := i.ParseRefreshToken(access); err != common.ErrInvalidToken {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := i.ParseAccessToken(refresh); err != common.ErrInvalidToken {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestTokens_SameSecretStillChecksKind(t *testing.T) {
	t.Parallel()
	i, err := NewIssuer(IssuerConfig{
		AccessSecret:  []byte("shared"),
		AccessTTL:     time.Minute,
		RefreshSecret: []byte("shared"),
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}

	refresh, _ := i.IssueRefreshToken("u1")
	if _, err := i.ParseAccessToken(refresh); err != common.ErrInvalidToken {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)
	i.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	access, _ := i.IssueAccessToken(ada)
	refresh, _ := i.IssueRefreshToken(ada.UserID)

	i.now = time.Now
	if _, err := i.ParseAccessToken(access); err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
	if _, err := i.ParseRefreshToken(refresh); err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)
	other, err := NewIssuer(IssuerConfig{
		AccessSecret:  []byte("other-access"),
		AccessTTL:     time.Minute,
		RefreshSecret: []byte("other-refresh"),
		RefreshTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIssuer error: %v", err)
	}

	tok, _ := other.IssueAccessToken(ada)
	if _, err := i.ParseAccessToken(tok); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for invalid signature, got %v", err)
	}
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()
	i := newTestIssuer(t)

	if _, err := i.ParseAccessToken("not.a.jwt"); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
	if _, err := i.ParseRefreshToken(""); err != common.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}
