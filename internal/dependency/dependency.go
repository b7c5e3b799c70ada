package dependency

import (
	"context"

	"github.com/jekabolt/ga4-dashboard/internal/entity"
	"golang.org/x/oauth2"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// ReportSource is the GA4 Data API as seen by the dashboard.
	ReportSource interface {
		// RunReport runs one report for the property with the caller's credential.
		RunReport(ctx context.Context, propertyID string, creds oauth2.TokenSource, q entity.ReportQuery) (*entity.Report, error)
		// Metadata lists the dimensions and metrics available to the property.
		Metadata(ctx context.Context, propertyID string, creds oauth2.TokenSource) (*entity.PropertyMetadata, error)
	}
)
