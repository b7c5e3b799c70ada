package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Indexes(t *testing.T) {
	r := &Report{
		DimensionHeaders: []string{"date", "sessionDefaultChannelGroup"},
		MetricHeaders:    []string{"sessions", "activeUsers"},
	}
	assert.Equal(t, 1, r.DimensionIndex("sessionDefaultChannelGroup"))
	assert.Equal(t, 1, r.MetricIndex("activeUsers"))
	assert.Equal(t, -1, r.MetricIndex("newUsers"))

	var nilReport *Report
	assert.Equal(t, -1, nilReport.DimensionIndex("date"))
	assert.Nil(t, nilReport.RowsOrEmpty())
}

func TestMetricRow_Accessors(t *testing.T) {
	row := MetricRow{Dimensions: []string{"Direct"}, Metrics: []string{"12"}}

	v, ok := row.Dimension(0)
	assert.True(t, ok)
	assert.Equal(t, "Direct", v)

	_, ok = row.Dimension(1)
	assert.False(t, ok)
	_, ok = row.Metric(-1)
	assert.False(t, ok)
}

func TestReportQuery_BuildersCopy(t *testing.T) {
	base := NewReportQuery("channels", CurrentWindow).WithMetrics("sessions")
	a := base.WithDimensions("sessionDefaultChannelGroup").OrderByMetric("sessions", true).WithLimit(7)
	b := base.WithDimensions("pageTitle")

	assert.Empty(t, base.Dimensions)
	assert.Equal(t, []string{"sessionDefaultChannelGroup"}, a.Dimensions)
	assert.Equal(t, []string{"pageTitle"}, b.Dimensions)
	assert.Equal(t, []OrderBy{{Metric: "sessions", Desc: true}}, a.OrderBys)
	assert.Empty(t, b.OrderBys)
	assert.EqualValues(t, 7, a.Limit)
	assert.Equal(t, CurrentWindow, a.DateRange)
}
