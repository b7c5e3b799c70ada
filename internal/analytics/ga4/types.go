package ga4

import (
	"github.com/jekabolt/ga4-dashboard/internal/entity"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

func toRunReportRequest(q entity.ReportQuery) *analyticsdata.RunReportRequest {
	req := &analyticsdata.RunReportRequest{
		DateRanges: []*analyticsdata.DateRange{
			{
				StartDate: q.DateRange.Start,
				EndDate:   q.DateRange.End,
			},
		},
		Limit: q.Limit,
	}

	for _, d := range q.Dimensions {
		req.Dimensions = append(req.Dimensions, &analyticsdata.Dimension{Name: d})
	}
	for _, m := range q.Metrics {
		req.Metrics = append(req.Metrics, &analyticsdata.Metric{Name: m})
	}
	for _, o := range q.OrderBys {
		ob := &analyticsdata.OrderBy{Desc: o.Desc}
		if o.Metric != "" {
			ob.Metric = &analyticsdata.MetricOrderBy{MetricName: o.Metric}
		} else {
			ob.Dimension = &analyticsdata.DimensionOrderBy{DimensionName: o.Dimension}
		}
		req.OrderBys = append(req.OrderBys, ob)
	}

	return req
}

func fromRunReportResponse(resp *analyticsdata.RunReportResponse) *entity.Report {
	rep := &entity.Report{}
	if resp == nil {
		return rep
	}

	for _, h := range resp.DimensionHeaders {
		if h != nil {
			rep.DimensionHeaders = append(rep.DimensionHeaders, h.Name)
		}
	}
	for _, h := range resp.MetricHeaders {
		if h != nil {
			rep.MetricHeaders = append(rep.MetricHeaders, h.Name)
		}
	}

	for _, row := range resp.Rows {
		if row == nil {
			continue
		}
		r := entity.MetricRow{
			Dimensions: make([]string, 0, len(row.DimensionValues)),
			Metrics:    make([]string, 0, len(row.MetricValues)),
		}
		for _, v := range row.DimensionValues {
			if v == nil {
				r.Dimensions = append(r.Dimensions, "")
				continue
			}
			r.Dimensions = append(r.Dimensions, v.Value)
		}
		for _, v := range row.MetricValues {
			if v == nil {
				r.Metrics = append(r.Metrics, "")
				continue
			}
			r.Metrics = append(r.Metrics, v.Value)
		}
		rep.Rows = append(rep.Rows, r)
	}

	return rep
}

func fromMetadata(md *analyticsdata.Metadata) *entity.PropertyMetadata {
	out := &entity.PropertyMetadata{
		Dimensions: []entity.FieldMetadata{},
		Metrics:    []entity.FieldMetadata{},
	}
	if md == nil {
		return out
	}
	out.Name = md.Name

	for _, d := range md.Dimensions {
		if d == nil {
			continue
		}
		out.Dimensions = append(out.Dimensions, entity.FieldMetadata{
			APIName:     d.ApiName,
			UIName:      d.UiName,
			Description: d.Description,
			Category:    d.Category,
		})
	}
	for _, m := range md.Metrics {
		if m == nil {
			continue
		}
		out.Metrics = append(out.Metrics, entity.FieldMetadata{
			APIName:     m.ApiName,
			UIName:      m.UiName,
			Description: m.Description,
			Category:    m.Category,
			Type:        m.Type,
		})
	}

	return out
}
