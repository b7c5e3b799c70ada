package httpapi

import (
	"context"
	"embed"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/jekabolt/ga4-dashboard/internal/auth/google"
	"github.com/jekabolt/ga4-dashboard/internal/entity"
	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	clientid "github.com/jekabolt/ga4-dashboard/internal/middleware"
	"github.com/jekabolt/ga4-dashboard/internal/ratelimit"
	"github.com/jekabolt/ga4-dashboard/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

//go:embed static
var fs embed.FS

// Config is the configuration for the http server
type Config struct {
	Port           string        `mapstructure:"port"`
	Address        string        `mapstructure:"address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// Dashboard builds dashboard payloads for a signed-in caller.
type Dashboard interface {
	Dashboard(ctx context.Context, creds oauth2.TokenSource, source string) (*entity.DashboardPayload, error)
	Metadata(ctx context.Context, creds oauth2.TokenSource) (*entity.PropertyMetadata, error)
}

// Authenticator owns sign-in and the session gate.
type Authenticator interface {
	Sessions(next http.Handler) http.Handler
	RequireLogin(next http.Handler) http.Handler
	Login(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

// Server is the http server
type Server struct {
	hs        *http.Server
	c         *Config
	dashboard Dashboard
	auth      Authenticator
	limiter   *ratelimit.Limiter
	done      chan struct{}
}

// New creates a new server
func New(c *Config, d Dashboard, a Authenticator, l *ratelimit.Limiter) *Server {
	return &Server{
		c:         c,
		dashboard: d,
		auth:      a,
		limiter:   l,
		done:      make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(clientid.ClientIP)
	r.Use(log.RequestLogger(slog.Default()))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  s.isOriginAllowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Sessions)

		r.Get("/auth/google", s.auth.Login)
		r.Get("/auth/google/callback", s.auth.Callback)
		r.Get("/logout", s.auth.Logout)

		r.Route("/api/ga4", func(r chi.Router) {
			r.Use(ratelimit.Middleware(s.limiter, clientid.RequestClientIP))
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Use(s.auth.RequireLogin)

			r.Get("/", s.getDashboard)
			r.Get("/metadata", s.getMetadata)
		})
	})

	static, err := iofs.Sub(fs, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static dir: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(static)))

	return r
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	payload, err := s.dashboard.Dashboard(r.Context(), google.Credentials(r.Context()), r.URL.Query().Get("source"))
	if err != nil {
		s.fail(w, r, "can't build dashboard", err)
		return
	}
	render.JSON(w, r, payload)
}

func (s *Server) getMetadata(w http.ResponseWriter, r *http.Request) {
	md, err := s.dashboard.Metadata(r.Context(), google.Credentials(r.Context()))
	if err != nil {
		s.fail(w, r, "can't get property metadata", err)
		return
	}
	render.JSON(w, r, md)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Default().ErrorContext(r.Context(), msg,
		slog.String("err", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	gerr.Render(w, r, err)
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	ln, err := net.Listen("tcp", listenerAddr)
	if err != nil {
		return fmt.Errorf("can't listen on %s: %w", listenerAddr, err)
	}

	s.hs = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.c.ReadTimeout,
		WriteTimeout:      s.c.WriteTimeout,
	}

	go func() {
		slog.Default().InfoContext(ctx, fmt.Sprintf("ga4-dashboard new listener on: http://%v", ln.Addr()))
		err := s.hs.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func (s *Server) isOriginAllowed(_ *http.Request, origin string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowed := range s.c.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
