// Package dashboard assembles the GA4 dashboard for one authenticated caller.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jekabolt/ga4-dashboard/internal/analytics/report"
	"github.com/jekabolt/ga4-dashboard/internal/dependency"
	"github.com/jekabolt/ga4-dashboard/internal/entity"
	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	"github.com/jekabolt/ga4-dashboard/internal/metrics"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// GA4 API names used by the dashboard queries.
const (
	dimDate      = "date"
	dimChannel   = "sessionDefaultChannelGroup"
	dimPageTitle = "pageTitle"

	metricActiveUsers = "activeUsers"
	metricNewUsers    = "newUsers"
	metricEngagement  = "userEngagementDuration"
	metricSessions    = "sessions"
	metricViews       = "screenPageViews"
)

// DefaultSource is echoed back when the caller sends no source.
const DefaultSource = "all"

// Config holds dashboard query limits.
type Config struct {
	ChannelLimit  int64 `mapstructure:"channel_limit"`
	TopPagesLimit int64 `mapstructure:"top_pages_limit"`
	// PreviousLimit bounds previous-period breakdowns, which only serve lookups.
	PreviousLimit int64 `mapstructure:"previous_limit"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		ChannelLimit:  7,
		TopPagesLimit: 5,
		PreviousLimit: 50,
	}
}

// Service builds dashboards from GA4 reports.
type Service struct {
	source     dependency.ReportSource
	propertyID string
	c          *Config
	now        func() time.Time
}

// New creates a new dashboard service. An empty or invalid property id is
// not fatal here: every request then fails before reaching GA4.
func New(source dependency.ReportSource, rawPropertyID string, c *Config) *Service {
	dc := DefaultConfig()
	if c == nil {
		c = &dc
	}
	if c.ChannelLimit == 0 {
		c.ChannelLimit = dc.ChannelLimit
	}
	if c.TopPagesLimit == 0 {
		c.TopPagesLimit = dc.TopPagesLimit
	}
	if c.PreviousLimit == 0 {
		c.PreviousLimit = dc.PreviousLimit
	}

	propertyID := NormalizePropertyID(rawPropertyID)
	if propertyID == "" {
		slog.Default().Warn("GA4 property id is missing or invalid, dashboard requests will fail",
			slog.String("property_id", rawPropertyID))
	}

	return &Service{
		source:     source,
		propertyID: propertyID,
		c:          c,
		now:        time.Now,
	}
}

var digits = regexp.MustCompile(`\d+`)

// NormalizePropertyID extracts the numeric id from values such as
// "properties/123456" or " 123456 ". It returns "" when there is none.
func NormalizePropertyID(raw string) string {
	return digits.FindString(strings.TrimSpace(raw))
}

// PropertyID returns the normalized property id.
func (s *Service) PropertyID() string {
	return s.propertyID
}

// Dashboard runs every report the dashboard needs and assembles the payload.
// Any failed report fails the whole dashboard.
func (s *Service) Dashboard(ctx context.Context, creds oauth2.TokenSource, source string) (*entity.DashboardPayload, error) {
	payload, err := s.dashboard(ctx, creds, source)
	metrics.ObserveDashboard(err)
	return payload, err
}

func (s *Service) dashboard(ctx context.Context, creds oauth2.TokenSource, source string) (*entity.DashboardPayload, error) {
	if s.propertyID == "" {
		return nil, gerr.ErrPropertyNotConfigured
	}
	if creds == nil {
		return nil, gerr.ErrUnauthenticated
	}
	if source == "" {
		source = DefaultSource
	}

	rangeLabel, err := entity.CurrentWindow.Label(s.now())
	if err != nil {
		return nil, fmt.Errorf("can't resolve current window: %w", err)
	}

	cur, prev := entity.CurrentWindow, entity.PreviousWindow

	var (
		seriesCur, seriesPrev *entity.Report
		totals                *entity.Report
		channelCur            *entity.Report
		channelPrev           *entity.Report
		pagesCur, pagesPrev   *entity.Report
	)

	g, gctx := errgroup.WithContext(ctx)
	run := func(dst **entity.Report, q entity.ReportQuery) {
		g.Go(func() error {
			rep, err := s.source.RunReport(gctx, s.propertyID, creds, q)
			if err != nil {
				return err
			}
			*dst = rep
			return nil
		})
	}

	run(&seriesCur, timeSeriesQuery("timeseries_current", cur))
	run(&seriesPrev, timeSeriesQuery("timeseries_previous", prev))
	run(&totals, entity.NewReportQuery("totals", cur).
		WithMetrics(metricActiveUsers, metricNewUsers, metricEngagement))
	run(&channelCur, breakdownQuery("channel_current", cur, dimChannel, metricSessions, s.c.ChannelLimit))
	run(&channelPrev, breakdownQuery("channel_previous", prev, dimChannel, metricSessions, s.c.PreviousLimit))
	run(&pagesCur, breakdownQuery("pages_current", cur, dimPageTitle, metricViews, s.c.TopPagesLimit))
	run(&pagesPrev, breakdownQuery("pages_previous", prev, dimPageTitle, metricViews, s.c.PreviousLimit))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &entity.DashboardPayload{
		Query:      entity.QueryEcho{Source: source},
		Totals:     report.BuildTotals(report.FirstRow(totals.RowsOrEmpty())),
		Series:     report.ToTimeSeries(seriesCur.RowsOrEmpty()),
		PrevSeries: report.ToTimeSeries(seriesPrev.RowsOrEmpty()),
		ChannelSessions: rankedList(channelCur, channelPrev, dimChannel, metricSessions,
			entity.ChannelSessionsFields),
		TopPages: rankedList(pagesCur, pagesPrev, dimPageTitle, metricViews,
			entity.TopPagesFields),
		TopPagesMeta: entity.TopPagesMeta{
			RangeLabel: "Last 7 days (" + rangeLabel + ")",
		},
	}, nil
}

// Metadata returns the dimensions and metrics available to the property.
func (s *Service) Metadata(ctx context.Context, creds oauth2.TokenSource) (*entity.PropertyMetadata, error) {
	if s.propertyID == "" {
		return nil, gerr.ErrPropertyNotConfigured
	}
	if creds == nil {
		return nil, gerr.ErrUnauthenticated
	}
	return s.source.Metadata(ctx, s.propertyID, creds)
}

func timeSeriesQuery(name string, dr entity.DateRange) entity.ReportQuery {
	return entity.NewReportQuery(name, dr).
		WithDimensions(dimDate).
		WithMetrics(metricActiveUsers).
		OrderByDimension(dimDate, false)
}

func breakdownQuery(name string, dr entity.DateRange, dim, metric string, limit int64) entity.ReportQuery {
	return entity.NewReportQuery(name, dr).
		WithDimensions(dim).
		WithMetrics(metric).
		OrderByMetric(metric, true).
		WithLimit(limit)
}

// rankedList resolves column positions from the current report headers,
// falling back to the first column when headers are absent.
func rankedList(cur, prev *entity.Report, dim, metric string, fields entity.RankedFields) []entity.RankedItem {
	keyIndex := cur.DimensionIndex(dim)
	if keyIndex < 0 {
		keyIndex = 0
	}
	metricIndex := cur.MetricIndex(metric)
	if metricIndex < 0 {
		metricIndex = 0
	}
	return report.BuildRankedList(cur.RowsOrEmpty(), prev.RowsOrEmpty(), keyIndex, metricIndex, fields)
}
