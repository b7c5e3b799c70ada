package entity

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TimeSeriesPoint is one day of active users.
type TimeSeriesPoint struct {
	Date        string `json:"date"`
	ActiveUsers int64  `json:"activeUsers"`
}

// Totals are the KPI cards for the current window.
type Totals struct {
	ActiveUsers          int64 `json:"activeUsers"`
	NewUsers             int64 `json:"newUsers"`
	AvgEngagementTimeSec int64 `json:"avgEngagementTimeSec"`
}

// RankedFields names the JSON fields of a ranked list,
// e.g. {Key: "channel", Value: "sessions"}.
type RankedFields struct {
	Key   string
	Value string
}

var (
	ChannelSessionsFields = RankedFields{Key: "channel", Value: "sessions"}
	TopPagesFields        = RankedFields{Key: "page", Value: "views"}
)

// PrevValue is the JSON name of the previous period value, e.g. "prevSessions".
func (f RankedFields) PrevValue() string {
	if f.Value == "" {
		return "prev"
	}
	return "prev" + strings.ToUpper(f.Value[:1]) + f.Value[1:]
}

// RankedItem is one breakdown row compared with the previous period.
// ChangePct is nil when there is no meaningful baseline.
type RankedItem struct {
	Key       string
	Current   float64
	Previous  float64
	ChangePct *float64
	Fields    RankedFields
}

// MarshalJSON writes the item with its configured field names, e.g.
// {"channel":"Referral","sessions":5,"prevSessions":0,"changePct":null}.
func (i RankedItem) MarshalJSON() ([]byte, error) {
	fields := i.Fields
	if fields.Key == "" {
		fields.Key = "key"
	}
	if fields.Value == "" {
		fields.Value = "value"
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	pairs := []struct {
		name  string
		value any
	}{
		{fields.Key, i.Key},
		{fields.Value, i.Current},
		{fields.PrevValue(), i.Previous},
		{"changePct", i.ChangePct},
	}
	for n, p := range pairs {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// QueryEcho echoes the request parameters back to the caller.
type QueryEcho struct {
	Source string `json:"source"`
}

// TopPagesMeta describes the window the top pages were computed over.
type TopPagesMeta struct {
	RangeLabel string `json:"rangeLabel"`
}

// DashboardPayload is the full dashboard response.
type DashboardPayload struct {
	Query           QueryEcho         `json:"query"`
	Totals          Totals            `json:"totals"`
	Series          []TimeSeriesPoint `json:"series"`
	PrevSeries      []TimeSeriesPoint `json:"prevSeries"`
	ChannelSessions []RankedItem      `json:"channelSessions"`
	TopPages        []RankedItem      `json:"topPages"`
	TopPagesMeta    TopPagesMeta      `json:"topPagesMeta"`
}
