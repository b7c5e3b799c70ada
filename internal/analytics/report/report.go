// Package report turns GA4 report rows into dashboard view models.
// Every function here is pure: missing or malformed values degrade to
// zero or placeholder values instead of returning errors.
package report

import (
	"math"
	"strconv"

	"github.com/jekabolt/ga4-dashboard/internal/entity"
	"github.com/shopspring/decimal"
)

// UnknownKey replaces a missing breakdown dimension value.
const UnknownKey = "Unknown"

// Metric positions of the totals query.
const (
	totalsActiveUsers = iota
	totalsNewUsers
	totalsEngagementDuration
)

// FormatDate converts a compact GA4 date (YYYYMMDD) to YYYY-MM-DD.
// Values that are not 8 characters long are returned unchanged.
func FormatDate(yyyymmdd string) string {
	if len(yyyymmdd) != 8 {
		return yyyymmdd
	}
	return yyyymmdd[:4] + "-" + yyyymmdd[4:6] + "-" + yyyymmdd[6:]
}

// ToTimeSeries maps rows of (date, activeUsers) to points in the order given.
func ToTimeSeries(rows []entity.MetricRow) []entity.TimeSeriesPoint {
	points := make([]entity.TimeSeriesPoint, 0, len(rows))
	for _, r := range rows {
		date, _ := r.Dimension(0)
		points = append(points, entity.TimeSeriesPoint{
			Date:        FormatDate(date),
			ActiveUsers: metricCount(r, 0),
		})
	}
	return points
}

// ToKeyedTotals maps the dimension at keyIndex to the metric at metricIndex.
// A repeated key keeps the value of its last row.
func ToKeyedTotals(rows []entity.MetricRow, keyIndex, metricIndex int) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[rowKey(r, keyIndex)] = metricValue(r, metricIndex)
	}
	return out
}

// PercentChange returns (current-previous)/previous*100 rounded to one
// decimal, half away from zero. It is nil without a usable baseline.
func PercentChange(current, previous float64) *float64 {
	if previous == 0 || math.IsNaN(previous) {
		return nil
	}
	pct := (current - previous) / previous * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return nil
	}
	rounded, _ := decimal.NewFromFloat(pct).Round(1).Float64()
	return &rounded
}

// BuildRankedList pairs every current row with the previous period value of
// the same key. The order of curRows is kept.
func BuildRankedList(curRows, prevRows []entity.MetricRow, keyIndex, metricIndex int, fields entity.RankedFields) []entity.RankedItem {
	prev := ToKeyedTotals(prevRows, keyIndex, metricIndex)

	items := make([]entity.RankedItem, 0, len(curRows))
	for _, r := range curRows {
		key := rowKey(r, keyIndex)
		cur := metricValue(r, metricIndex)
		p := prev[key]
		items = append(items, entity.RankedItem{
			Key:       key,
			Current:   cur,
			Previous:  p,
			ChangePct: PercentChange(cur, p),
			Fields:    fields,
		})
	}
	return items
}

// BuildTotals reads a totals row of (activeUsers, newUsers,
// userEngagementDuration).
func BuildTotals(row entity.MetricRow) entity.Totals {
	activeUsers := metricCount(row, totalsActiveUsers)
	duration := metricValue(row, totalsEngagementDuration)

	var avg int64
	if activeUsers > 0 {
		avg = int64(math.Round(duration / float64(activeUsers)))
	}
	return entity.Totals{
		ActiveUsers:          activeUsers,
		NewUsers:             metricCount(row, totalsNewUsers),
		AvgEngagementTimeSec: avg,
	}
}

// FirstRow returns the first row or an empty one.
func FirstRow(rows []entity.MetricRow) entity.MetricRow {
	if len(rows) == 0 {
		return entity.MetricRow{}
	}
	return rows[0]
}

func rowKey(r entity.MetricRow, i int) string {
	if v, ok := r.Dimension(i); ok && v != "" {
		return v
	}
	return UnknownKey
}

func metricValue(r entity.MetricRow, i int) float64 {
	s, ok := r.Metric(i)
	if !ok {
		return 0
	}
	return parseFloat(s)
}

// metricCount reads a metric as a non-negative whole number.
func metricCount(r entity.MetricRow, i int) int64 {
	v := metricValue(r, i)
	if v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
