package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jekabolt/ga4-dashboard/config"
	"github.com/jekabolt/ga4-dashboard/internal/analytics/ga4"
	httpapi "github.com/jekabolt/ga4-dashboard/internal/api/http"
	"github.com/jekabolt/ga4-dashboard/internal/auth/google"
	"github.com/jekabolt/ga4-dashboard/internal/dashboard"
	"github.com/jekabolt/ga4-dashboard/internal/ratelimit"
)

// App is the main application
type App struct {
	hs      *httpapi.Server
	auth    *google.Authenticator
	limiter *ratelimit.Limiter
	c       *config.Config
	done    chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	slog.Default().InfoContext(ctx, "starting ga4 dashboard")

	client, err := ga4.NewClient(ctx, &a.c.GA4)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't create GA4 client", slog.String("err", err.Error()))
		return err
	}
	dash := dashboard.New(client, a.c.GA4.PropertyID, &a.c.Dashboard)

	a.auth, err = google.New(&a.c.Google)
	if err != nil {
		slog.Default().ErrorContext(ctx, "failed create authenticator", slog.String("err", err.Error()))
		return err
	}

	a.limiter = ratelimit.NewLimiter(a.c.RateLimit.Window, a.c.RateLimit.MaxRequests)

	a.hs = httpapi.New(&a.c.HTTP, dash, a.auth, a.limiter)
	if err = a.hs.Start(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("err", err.Error()))
		a.limiter.Stop()
		a.auth.Stop()
		return err
	}

	go func() {
		<-a.hs.Done()
		a.shutdown()
	}()

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.hs.Stop(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "http server shutdown failed", slog.String("err", err.Error()))
	}
	<-a.done
}

func (a *App) shutdown() {
	a.limiter.Stop()
	a.auth.Stop()
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() <-chan struct{} {
	return a.done
}
