// Package google signs users in with Google OAuth2 and keeps their GA4
// access token in a server-side session.
package google

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	authjwt "github.com/jekabolt/ga4-dashboard/internal/auth/jwt"
	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	"golang.org/x/oauth2"
	oauthgoogle "golang.org/x/oauth2/google"
)

const analyticsReadonlyScope = "https://www.googleapis.com/auth/analytics.readonly"

// Session keys.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyTokenType    = "token_type"
	keyExpiry       = "expiry"
	keyStateNonce   = "oauth_state_nonce"
)

type Config struct {
	ClientID        string        `mapstructure:"client_id"`
	ClientSecret    string        `mapstructure:"client_secret"`
	RedirectURL     string        `mapstructure:"redirect_url"`
	StateSecret     string        `mapstructure:"state_secret"`
	StateTTL        time.Duration `mapstructure:"state_ttl"`
	SessionLifetime time.Duration `mapstructure:"session_lifetime"`
	Development     bool          `mapstructure:"development"`
	// AuthURL and TokenURL replace Google's endpoint when set.
	AuthURL  string `mapstructure:"auth_url"`
	TokenURL string `mapstructure:"token_url"`
}

// Authenticator runs the OAuth2 authorization code flow and gates API routes
// on a signed-in session.
type Authenticator struct {
	oauth    *oauth2.Config
	sessions *scs.SessionManager
	store    *memstore.MemStore
	state    *jwtauth.JWTAuth
	stateTTL time.Duration
}

// New creates an Authenticator backed by an in-memory session store.
func New(c *Config) (*Authenticator, error) {
	if c.StateSecret == "" {
		return nil, fmt.Errorf("state secret is required")
	}
	if c.StateTTL == 0 {
		c.StateTTL = 10 * time.Minute
	}
	if c.SessionLifetime == 0 {
		c.SessionLifetime = 24 * time.Hour
	}

	endpoint := oauthgoogle.Endpoint
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}

	store := memstore.New()
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email", analyticsReadonlyScope},
		},
		sessions: newSessionManager(store, c.SessionLifetime, c.Development),
		store:    store,
		state:    jwtauth.New("HS256", []byte(c.StateSecret), nil),
		stateTTL: c.StateTTL,
	}, nil
}

func newSessionManager(store scs.Store, lifetime time.Duration, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = store
	sm.Lifetime = lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}
	return sm
}

// Sessions loads and saves the session around next.
func (a *Authenticator) Sessions(next http.Handler) http.Handler {
	return a.sessions.LoadAndSave(next)
}

// Stop stops the session store cleanup goroutine.
func (a *Authenticator) Stop() {
	a.store.StopCleanup()
}

// Login redirects to the Google consent screen.
func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request) {
	nonce := uuid.NewString()
	state, err := authjwt.NewStateToken(a.state, a.stateTTL, nonce)
	if err != nil {
		slog.Default().ErrorContext(r.Context(), "can't sign oauth state",
			slog.String("err", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	a.sessions.Put(r.Context(), keyStateNonce, nonce)

	url := a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback completes the flow and stores the token in the session. Every
// failure sends the user back to the dashboard unauthenticated.
func (a *Authenticator) Callback(w http.ResponseWriter, r *http.Request) {
	if err := a.callback(r); err != nil {
		slog.Default().WarnContext(r.Context(), "oauth callback failed",
			slog.String("err", err.Error()),
		)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Authenticator) callback(r *http.Request) error {
	ctx := r.Context()
	q := r.URL.Query()

	expected := a.sessions.PopString(ctx, keyStateNonce)
	if e := q.Get("error"); e != "" {
		return fmt.Errorf("consent denied: %s", e)
	}

	nonce, err := authjwt.VerifyStateToken(a.state, q.Get("state"))
	if err != nil {
		return fmt.Errorf("%w: %v", gerr.ErrInvalidState, err)
	}
	if expected == "" || nonce != expected {
		return gerr.ErrInvalidState
	}

	code := q.Get("code")
	if code == "" {
		return fmt.Errorf("missing authorization code")
	}
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("can't exchange code: %w", err)
	}

	if err := a.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("can't renew session token: %w", err)
	}
	a.sessions.Put(ctx, keyAccessToken, tok.AccessToken)
	a.sessions.Put(ctx, keyRefreshToken, tok.RefreshToken)
	a.sessions.Put(ctx, keyTokenType, tok.Type())
	if !tok.Expiry.IsZero() {
		a.sessions.Put(ctx, keyExpiry, tok.Expiry.Unix())
	}

	slog.Default().InfoContext(ctx, "user signed in")
	return nil
}

// Logout destroys the session.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context()); err != nil {
		slog.Default().ErrorContext(r.Context(), "can't destroy session",
			slog.String("err", err.Error()),
		)
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Token returns the signed-in user's credentials, or nil when there are none.
func (a *Authenticator) Token(ctx context.Context) oauth2.TokenSource {
	access := a.sessions.GetString(ctx, keyAccessToken)
	if access == "" {
		return nil
	}
	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: a.sessions.GetString(ctx, keyRefreshToken),
		TokenType:    a.sessions.GetString(ctx, keyTokenType),
	}
	if exp := a.sessions.GetInt64(ctx, keyExpiry); exp > 0 {
		tok.Expiry = time.Unix(exp, 0)
	}
	return oauth2.StaticTokenSource(tok)
}

// RequireLogin rejects requests without a signed-in session and puts the
// credentials on the request context.
func (a *Authenticator) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := a.Token(r.Context())
		if ts == nil {
			gerr.Render(w, r, gerr.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCredentials(r.Context(), ts)))
	})
}

type credentialsKey struct{}

// WithCredentials returns a copy of ctx carrying ts.
func WithCredentials(ctx context.Context, ts oauth2.TokenSource) context.Context {
	return context.WithValue(ctx, credentialsKey{}, ts)
}

// Credentials returns the credentials stored by RequireLogin, if any.
func Credentials(ctx context.Context) oauth2.TokenSource {
	ts, _ := ctx.Value(credentialsKey{}).(oauth2.TokenSource)
	return ts
}
