package google

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	auth    *Authenticator
	router  http.Handler
	codes   []string
	cookies []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{}

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		h.codes = append(h.codes, r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token":  "ya29.test",
			"refresh_token": "1//refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(tokenServer.Close)

	a, err := New(&Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/auth/google/callback",
		StateSecret:  "state-secret",
		Development:  true,
		AuthURL:      "https://accounts.example.com/o/oauth2/auth",
		TokenURL:     tokenServer.URL,
	})
	require.NoError(t, err)
	t.Cleanup(a.Stop)

	r := chi.NewRouter()
	r.Use(a.Sessions)
	r.Get("/auth/google", a.Login)
	r.Get("/auth/google/callback", a.Callback)
	r.Get("/logout", a.Logout)
	r.With(a.RequireLogin).Get("/private", func(w http.ResponseWriter, r *http.Request) {
		tok, err := Credentials(r.Context()).Token()
		require.NoError(t, err)
		_, _ = w.Write([]byte(tok.Type() + " " + tok.AccessToken))
	})

	h.auth = a
	h.router = r
	return h
}

// do sends a request with the current session cookie and keeps any new one.
func (h *harness) do(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range h.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	if cs := rec.Result().Cookies(); len(cs) > 0 {
		h.cookies = cs
	}
	return rec
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	rec := h.do("/auth/google")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	rec = h.do("/auth/google/callback?code=auth-code&state=" + url.QueryEscape(loc.Query().Get("state")))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestNew_RequiresStateSecret(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}

func TestSessionCookie(t *testing.T) {
	dev := newSessionManager(nil, 0, true)
	assert.False(t, dev.Cookie.Secure)
	assert.True(t, dev.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, dev.Cookie.SameSite)
	assert.NotEqual(t, "__Host-session", dev.Cookie.Name)

	prod := newSessionManager(nil, 0, false)
	assert.True(t, prod.Cookie.Secure)
	assert.Equal(t, "__Host-session", prod.Cookie.Name)
	assert.Equal(t, "/", prod.Cookie.Path)
}

func TestLogin_RedirectsToConsent(t *testing.T) {
	h := newHarness(t)

	rec := h.do("/auth/google")
	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", loc.Host)

	q := loc.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), analyticsReadonlyScope)
	assert.NotEmpty(t, q.Get("state"))
	assert.NotEmpty(t, h.cookies)
}

func TestCallback_StoresToken(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	assert.Equal(t, []string{"auth-code"}, h.codes)

	rec := h.do("/private")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer ya29.test", rec.Body.String())
}

func TestCallback_InvalidState(t *testing.T) {
	h := newHarness(t)
	h.do("/auth/google")

	rec := h.do("/auth/google/callback?code=auth-code&state=forged")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, h.codes)

	rec = h.do("/private")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallback_StateFromAnotherSession(t *testing.T) {
	h := newHarness(t)

	rec := h.do("/auth/google")
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	h.cookies = nil
	rec = h.do("/auth/google/callback?code=auth-code&state=" + url.QueryEscape(loc.Query().Get("state")))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, h.codes)
}

func TestCallback_ConsentDenied(t *testing.T) {
	h := newHarness(t)
	h.do("/auth/google")

	rec := h.do("/auth/google/callback?error=access_denied")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Empty(t, h.codes)
}

func TestRequireLogin_Unauthenticated(t *testing.T) {
	h := newHarness(t)

	rec := h.do("/private")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Not logged in. Visit /auth/google first."}`, rec.Body.String())
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	signedIn := h.cookies

	rec := h.do("/logout")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	h.cookies = signedIn
	rec = h.do("/private")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
