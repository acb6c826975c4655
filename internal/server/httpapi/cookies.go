package httpapi

import (
	"net/http"
	"time"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (h *handlers) setSessionCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, h.cookie(accessTokenCookie, access, h.opts.AccessTTL))
	http.SetCookie(w, h.cookie(refreshTokenCookie, refresh, h.opts.RefreshTTL))
}

func (h *handlers) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := h.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}

func (h *handlers) cookie(name, value string, ttl time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
	if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}

// accessTokenFrom reads the access token cookie, falling back to the
// Authorization header.
func accessTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get("Authorization")
}

func refreshTokenCookieValue(r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		return c.Value
	}
	return ""
}
