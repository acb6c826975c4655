package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/password"
	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/dmitrijs2005/accountkeeper/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

type testServer struct {
	srv     *httptest.Server
	metrics *metrics.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	issuer, err := auth.NewIssuer(auth.IssuerConfig{
		AccessSecret:  []byte("access-secret"),
		AccessTTL:     time.Minute,
		RefreshSecret: []byte("refresh-secret"),
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)

	rec := metrics.New()
	us := services.NewUserService(repomanager.NewMemoryRepositoryManager(), hasher, issuer,
		storage.NewMemoryUploader("mem://assets"), services.WithMetrics(rec))

	h := NewRouter(us, auth.NewGuard(issuer), logging.Nop{}, Options{
		SecureCookies: true,
		CORSOrigins:   []string{"https://app.example.com"},
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Metrics:       rec.Handler(),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{srv: srv, metrics: rec}
}

func (ts *testServer) url(path string) string {
	return ts.srv.URL + path
}

func registerForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".png")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func postJSON(t *testing.T, url string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (ts *testServer) register(t *testing.T) {
	t.Helper()
	body, ct := registerForm(t, map[string]string{
		"username": "Ada", "email": "ada@x.com", "fullName": "Ada L", "password": "p@ss1234",
	}, map[string]string{"avatar": "png"})
	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/register"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)

	resp, env := do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
}

func (ts *testServer) login(t *testing.T) (*http.Response, sessionDTO) {
	t.Helper()
	resp, env := do(t, postJSON(t, ts.url("/api/v1/users/login"), loginReq{UserName: "ada", Password: "p@ss1234"}))
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var s sessionDTO
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return resp, s
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister_ReturnsPublicUser(t *testing.T) {
	ts := newTestServer(t)

	body, ct := registerForm(t, map[string]string{
		"username": " Ada ", "email": "ADA@x.com", "fullName": "Ada L", "password": "p@ss1234",
	}, map[string]string{"avatar": "png", "coverImage": "jpg"})
	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/register"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)

	resp, env := do(t, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusCreated, env.StatusCode)

	var u models.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "ada", u.UserName)
	assert.Equal(t, "ada@x.com", u.Email)
	assert.True(t, strings.HasPrefix(u.AvatarURL, "mem://assets/avatars/"))
	assert.NotEmpty(t, u.CoverImageURL)

	raw := string(env.Data)
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "refresh")
}

func TestRegister_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  map[string]string
		want   int
	}{
		{
			name:   "duplicate username",
			fields: map[string]string{"username": "ada", "email": "other@x.com", "fullName": "A", "password": "pw"},
			files:  map[string]string{"avatar": "png"},
			want:   http.StatusConflict,
		},
		{
			name:   "missing avatar",
			fields: map[string]string{"username": "bob", "email": "bob@x.com", "fullName": "B", "password": "pw"},
			want:   http.StatusBadRequest,
		},
		{
			name:   "blank field",
			fields: map[string]string{"username": "  ", "email": "c@x.com", "fullName": "C", "password": "pw"},
			files:  map[string]string{"avatar": "png"},
			want:   http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := registerForm(t, tt.fields, tt.files)
			req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/register"), body)
			require.NoError(t, err)
			req.Header.Set("Content-Type", ct)

			resp, env := do(t, req)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.False(t, env.Success)
		})
	}
}

func TestRegister_NotMultipart(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, postJSON(t, ts.url("/api/v1/users/register"), map[string]string{"username": "ada"}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_SetsCookies(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)

	resp, s := ts.login(t)
	assert.NotEmpty(t, s.AccessToken)
	assert.NotEmpty(t, s.RefreshToken)
	assert.Equal(t, "ada", s.User.UserName)

	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := cookieByName(resp, name)
		require.NotNil(t, c, name)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	}
	assert.Equal(t, s.RefreshToken, cookieByName(resp, refreshTokenCookie).Value)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)

	resp1, env1 := do(t, postJSON(t, ts.url("/api/v1/users/login"), loginReq{UserName: "ada", Password: "wrong"}))
	resp2, env2 := do(t, postJSON(t, ts.url("/api/v1/users/login"), loginReq{UserName: "nobody", Password: "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, resp1.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	assert.Equal(t, env1.Message, env2.Message)
}

func TestLogin_BadJSON(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/login"), strings.NewReader("{"))
	require.NoError(t, err)

	resp, _ := do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRefreshToken_BodyAndCookie(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)
	_, s := ts.login(t)

	resp, env := do(t, postJSON(t, ts.url("/api/v1/users/refresh-token"), refreshReq{RefreshToken: s.RefreshToken}))
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var rotated sessionDTO
	require.NoError(t, json.Unmarshal(env.Data, &rotated))
	assert.NotEqual(t, s.RefreshToken, rotated.RefreshToken)

	// the old token is spent
	resp, _ = do(t, postJSON(t, ts.url("/api/v1/users/refresh-token"), refreshReq{RefreshToken: s.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/refresh-token"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: rotated.RefreshToken})
	resp, env = do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
}

func TestRefreshToken_Missing(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/refresh-token"), nil)
	require.NoError(t, err)

	resp, _ := do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutes_RequireAccessToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodPost, "/api/v1/users/change-password"},
		{http.MethodGet, "/api/v1/users/current-user"},
		{http.MethodPatch, "/api/v1/users/update-account"},
		{http.MethodPatch, "/api/v1/users/avatar"},
		{http.MethodPatch, "/api/v1/users/cover-image"},
	}
	for _, r := range routes {
		t.Run(r.path, func(t *testing.T) {
			req, err := http.NewRequest(r.method, ts.url(r.path), nil)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer not-a-token")

			resp, env := do(t, req)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, env.Message, common.ErrUnauthenticated.Error())
		})
	}
}

func TestCurrentUser_CookieAndBearer(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)
	_, s := ts.login(t)

	req, err := http.NewRequest(http.MethodGet, ts.url("/api/v1/users/current-user"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	resp, env := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var u models.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "ada", u.UserName)

	req, err = http.NewRequest(http.MethodGet, ts.url("/api/v1/users/current-user"), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: s.AccessToken})
	resp, _ = do(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogout_ClearsCookiesAndRevokesRefresh(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)
	_, s := ts.login(t)

	req, err := http.NewRequest(http.MethodPost, ts.url("/api/v1/users/logout"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	resp, env := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	c := cookieByName(resp, refreshTokenCookie)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)

	resp, _ = do(t, postJSON(t, ts.url("/api/v1/users/refresh-token"), refreshReq{RefreshToken: s.RefreshToken}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)
	_, s := ts.login(t)

	change := func(in changePasswordReq) int {
		req := postJSON(t, ts.url("/api/v1/users/change-password"), in)
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
		resp, _ := do(t, req)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, change(changePasswordReq{OldPassword: "p@ss1234", NewPassword: "a", ConfirmPassword: "b"}))
	assert.Equal(t, http.StatusUnauthorized, change(changePasswordReq{OldPassword: "nope", NewPassword: "n3w", ConfirmPassword: "n3w"}))
	assert.Equal(t, http.StatusOK, change(changePasswordReq{OldPassword: "p@ss1234", NewPassword: "n3w", ConfirmPassword: "n3w"}))

	resp, _ := do(t, postJSON(t, ts.url("/api/v1/users/login"), loginReq{UserName: "ada", Password: "n3w"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateAccountAndAvatar(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)
	_, s := ts.login(t)

	b, err := json.Marshal(updateAccountReq{FullName: "Ada Lovelace", Email: "lovelace@x.com"})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPatch, ts.url("/api/v1/users/update-account"), bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	resp, env := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var u models.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &u))
	assert.Equal(t, "Ada Lovelace", u.FullName)
	assert.Equal(t, "lovelace@x.com", u.Email)

	body, ct := registerForm(t, nil, map[string]string{"avatar": "new-png"})
	req, err = http.NewRequest(http.MethodPatch, ts.url("/api/v1/users/avatar"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	resp, env = do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var withAvatar models.PublicUser
	require.NoError(t, json.Unmarshal(env.Data, &withAvatar))
	assert.NotEqual(t, u.AvatarURL, withAvatar.AvatarURL)

	body, ct = registerForm(t, nil, nil)
	req, err = http.NewRequest(http.MethodPatch, ts.url("/api/v1/users/avatar"), body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)
	resp, _ = do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthzAndMetrics(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t)

	resp, err := http.Get(ts.url("/healthz"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.url("/metrics"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), ts.metrics.Count("register", "ok"))
}

func TestCORS_AllowsConfiguredOriginWithCredentials(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.url("/api/v1/users/login"), nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrConflict, http.StatusConflict},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{common.ErrInfrastructure, http.StatusServiceUnavailable},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		writeError(rr, tt.err)
		assert.Equal(t, tt.want, rr.Code, tt.err.Error())
	}
}
