package entity

// MetricRow is one row of a GA4 report. Dimension and metric values are
// positional: their meaning comes from the report headers.
type MetricRow struct {
	Dimensions []string
	Metrics    []string
}

// Dimension returns the dimension value at i and whether it was present.
func (r MetricRow) Dimension(i int) (string, bool) {
	if i < 0 || i >= len(r.Dimensions) {
		return "", false
	}
	return r.Dimensions[i], true
}

// Metric returns the raw metric value at i and whether it was present.
func (r MetricRow) Metric(i int) (string, bool) {
	if i < 0 || i >= len(r.Metrics) {
		return "", false
	}
	return r.Metrics[i], true
}

// Report is a GA4 report response with its column headers, so callers
// can resolve positions by name instead of hard-coding them.
type Report struct {
	DimensionHeaders []string
	MetricHeaders    []string
	Rows             []MetricRow
}

// DimensionIndex returns the position of the named dimension or -1.
func (r *Report) DimensionIndex(name string) int {
	if r == nil {
		return -1
	}
	return indexOf(r.DimensionHeaders, name)
}

// MetricIndex returns the position of the named metric or -1.
func (r *Report) MetricIndex(name string) int {
	if r == nil {
		return -1
	}
	return indexOf(r.MetricHeaders, name)
}

// RowsOrEmpty returns the report rows, tolerating a nil report.
func (r *Report) RowsOrEmpty() []MetricRow {
	if r == nil {
		return nil
	}
	return r.Rows
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// OrderBy sorts a report by a dimension or a metric.
type OrderBy struct {
	Dimension string
	Metric    string
	Desc      bool
}

// ReportQuery describes a single GA4 runReport call.
type ReportQuery struct {
	// Name labels the query in logs and metrics.
	Name       string
	DateRange  DateRange
	Dimensions []string
	Metrics    []string
	OrderBys   []OrderBy
	Limit      int64
}

// NewReportQuery starts a query over the given window.
func NewReportQuery(name string, dr DateRange) ReportQuery {
	return ReportQuery{Name: name, DateRange: dr}
}

// WithDimensions returns a copy of q with the dimensions appended.
func (q ReportQuery) WithDimensions(names ...string) ReportQuery {
	q.Dimensions = append(append([]string(nil), q.Dimensions...), names...)
	return q
}

// WithMetrics returns a copy of q with the metrics appended.
func (q ReportQuery) WithMetrics(names ...string) ReportQuery {
	q.Metrics = append(append([]string(nil), q.Metrics...), names...)
	return q
}

// OrderByDimension returns a copy of q ordered by a dimension.
func (q ReportQuery) OrderByDimension(name string, desc bool) ReportQuery {
	q.OrderBys = append(append([]OrderBy(nil), q.OrderBys...), OrderBy{Dimension: name, Desc: desc})
	return q
}

// OrderByMetric returns a copy of q ordered by a metric.
func (q ReportQuery) OrderByMetric(name string, desc bool) ReportQuery {
	q.OrderBys = append(append([]OrderBy(nil), q.OrderBys...), OrderBy{Metric: name, Desc: desc})
	return q
}

// WithLimit returns a copy of q limited to n rows. Zero means the API default.
func (q ReportQuery) WithLimit(n int64) ReportQuery {
	q.Limit = n
	return q
}

// FieldMetadata describes one dimension or metric available to a property.
type FieldMetadata struct {
	APIName     string `json:"apiName"`
	UIName      string `json:"uiName"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Type        string `json:"type,omitempty"`
}

// PropertyMetadata lists the dimensions and metrics of a GA4 property.
type PropertyMetadata struct {
	Name       string          `json:"name"`
	Dimensions []FieldMetadata `json:"dimensions"`
	Metrics    []FieldMetadata `json:"metrics"`
}
