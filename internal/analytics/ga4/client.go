package ga4

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	"github.com/jekabolt/ga4-dashboard/internal/entity"
	"github.com/jekabolt/ga4-dashboard/internal/metrics"
	"golang.org/x/oauth2"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Config holds GA4 client configuration.
type Config struct {
	PropertyID string `mapstructure:"property_id"`
	// Endpoint overrides the Data API base URL, e.g. for a local stub.
	Endpoint string `mapstructure:"endpoint"`
	// Timeout bounds a single report exchange. Zero leaves it to the caller's context.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Client wraps the GA4 Data API. The service itself carries no credentials:
// every call is authorized with the delegated token of the caller.
type Client struct {
	service *analyticsdata.Service
}

// NewClient creates a new GA4 client.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GA4 service: %w", err)
	}

	slog.Default().InfoContext(ctx, "GA4 analytics client initialized",
		slog.String("endpoint", service.BasePath))

	return &Client{service: service}, nil
}

// PropertyPath returns the resource name of a numeric property id.
func PropertyPath(propertyID string) string {
	return "properties/" + propertyID
}

// RunReport runs one report for the property on behalf of the token owner.
func (c *Client) RunReport(ctx context.Context, propertyID string, creds oauth2.TokenSource, q entity.ReportQuery) (*entity.Report, error) {
	tok, err := creds.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gerr.ErrUnauthenticated, err)
	}

	slog.Default().DebugContext(ctx, "GA4 request",
		slog.String("property", PropertyPath(propertyID)),
		slog.String("query", q.Name),
		slog.String("start_date", q.DateRange.Start),
		slog.String("end_date", q.DateRange.End))

	call := c.service.Properties.RunReport(PropertyPath(propertyID), toRunReportRequest(q)).Context(ctx)
	setAuthorization(call.Header(), tok)

	start := time.Now()
	resp, err := call.Do()
	metrics.ObserveReport(q.Name, time.Since(start), err)
	if err != nil {
		slog.Default().ErrorContext(ctx, "GA4 REST error",
			slog.String("query", q.Name),
			slog.String("err", err.Error()))
		return nil, classify(err)
	}

	return fromRunReportResponse(resp), nil
}

// Metadata lists the dimensions and metrics available to the property.
func (c *Client) Metadata(ctx context.Context, propertyID string, creds oauth2.TokenSource) (*entity.PropertyMetadata, error) {
	tok, err := creds.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gerr.ErrUnauthenticated, err)
	}

	call := c.service.Properties.GetMetadata(PropertyPath(propertyID) + "/metadata").Context(ctx)
	setAuthorization(call.Header(), tok)

	start := time.Now()
	md, err := call.Do()
	metrics.ObserveReport("metadata", time.Since(start), err)
	if err != nil {
		slog.Default().ErrorContext(ctx, "GA4 metadata error",
			slog.String("err", err.Error()))
		return nil, classify(err)
	}

	return fromMetadata(md), nil
}

func setAuthorization(h http.Header, tok *oauth2.Token) {
	h.Set("Authorization", tok.Type()+" "+tok.AccessToken)
}

// classify maps a Data API client error onto the dashboard error taxonomy.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Body)
		if msg == "" {
			msg = apiErr.Message
		}
		return &gerr.UpstreamError{Status: apiErr.Code, Message: msg}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", gerr.ErrMalformedResponse, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return &gerr.UpstreamError{Message: err.Error()}
}
