package ga4

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	gerr "github.com/jekabolt/ga4-dashboard/internal/errors"
	"github.com/jekabolt/ga4-dashboard/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testPropertyID = "299206603"

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), &Config{Endpoint: server.URL + "/"})
	require.NoError(t, err)
	return client
}

func testToken() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "ya29.test"})
}

func TestClient_RunReport(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/properties/"+testPropertyID+":runReport", r.URL.Path)
		assert.Equal(t, "Bearer ya29.test", r.Header.Get("Authorization"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(b, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"dimensionHeaders": [{"name": "sessionDefaultChannelGroup"}],
			"metricHeaders": [{"name": "sessions", "type": "TYPE_INTEGER"}],
			"rows": [
				{"dimensionValues": [{"value": "Organic Search"}], "metricValues": [{"value": "120"}]},
				{"dimensionValues": [{"value": "Direct"}], "metricValues": [{"value": "80"}]}
			],
			"rowCount": 2
		}`))
	})

	q := entity.NewReportQuery("channel_current", entity.CurrentWindow).
		WithDimensions("sessionDefaultChannelGroup").
		WithMetrics("sessions").
		OrderByMetric("sessions", true).
		WithLimit(7)

	rep, err := client.RunReport(context.Background(), testPropertyID, testToken(), q)
	require.NoError(t, err)

	assert.Equal(t, []string{"sessionDefaultChannelGroup"}, rep.DimensionHeaders)
	assert.Equal(t, 0, rep.MetricIndex("sessions"))
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, entity.MetricRow{Dimensions: []string{"Organic Search"}, Metrics: []string{"120"}}, rep.Rows[0])

	assert.Equal(t, []any{map[string]any{"startDate": "7daysAgo", "endDate": "yesterday"}}, gotBody["dateRanges"])
	assert.Equal(t, []any{map[string]any{"name": "sessionDefaultChannelGroup"}}, gotBody["dimensions"])
	assert.Equal(t, "7", gotBody["limit"])
	assert.Equal(t, []any{map[string]any{"metric": map[string]any{"metricName": "sessions"}, "desc": true}}, gotBody["orderBys"])
}

func TestClient_RunReport_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"User does not have sufficient permissions","status":"PERMISSION_DENIED"}}`))
	})

	_, err := client.RunReport(context.Background(), testPropertyID, testToken(),
		entity.NewReportQuery("totals", entity.CurrentWindow).WithMetrics("activeUsers"))
	require.Error(t, err)

	var upstream *gerr.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusForbidden, upstream.Status)
	assert.Contains(t, upstream.Message, "sufficient permissions")
	assert.Contains(t, err.Error(), "GA4 REST HTTP 403")
}

func TestClient_RunReport_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.RunReport(context.Background(), testPropertyID, testToken(),
		entity.NewReportQuery("totals", entity.CurrentWindow).WithMetrics("activeUsers"))
	require.Error(t, err)
	assert.ErrorIs(t, err, gerr.ErrMalformedResponse)
}

func TestClient_RunReport_NoRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metricHeaders":[{"name":"activeUsers"}]}`))
	})

	rep, err := client.RunReport(context.Background(), testPropertyID, testToken(),
		entity.NewReportQuery("totals", entity.CurrentWindow).WithMetrics("activeUsers"))
	require.NoError(t, err)
	assert.Empty(t, rep.Rows)
	assert.Equal(t, -1, rep.DimensionIndex("date"))
}

func TestClient_Metadata(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1beta/properties/"+testPropertyID+"/metadata", r.URL.Path)
		assert.Equal(t, "Bearer ya29.test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "properties/299206603/metadata",
			"dimensions": [{"apiName": "date", "uiName": "Date", "category": "Time"}],
			"metrics": [{"apiName": "sessions", "uiName": "Sessions", "type": "TYPE_INTEGER"}]
		}`))
	})

	md, err := client.Metadata(context.Background(), testPropertyID, testToken())
	require.NoError(t, err)
	assert.Equal(t, "properties/299206603/metadata", md.Name)
	require.Len(t, md.Dimensions, 1)
	assert.Equal(t, "date", md.Dimensions[0].APIName)
	require.Len(t, md.Metrics, 1)
	assert.Equal(t, "TYPE_INTEGER", md.Metrics[0].Type)
}

func TestToRunReportRequest_DimensionOrder(t *testing.T) {
	q := entity.NewReportQuery("timeseries_current", entity.CurrentWindow).
		WithDimensions("date").
		WithMetrics("activeUsers").
		OrderByDimension("date", false)

	req := toRunReportRequest(q)
	require.Len(t, req.OrderBys, 1)
	assert.Nil(t, req.OrderBys[0].Metric)
	assert.Equal(t, "date", req.OrderBys[0].Dimension.DimensionName)
	assert.Zero(t, req.Limit)
}
