package forecast

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/loadline/pkg/domain/analytics"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// Status summarizes a resource's medium-term utilization.
type Status string

const (
	StatusOverallocated Status = "overallocated"
	StatusAtRisk        Status = "at-risk"
	StatusBusy          Status = "busy"
	StatusHealthy       Status = "healthy"
	StatusAvailable     Status = "available"
	StatusUnderutilized Status = "underutilized"
)

// ClassifyStatus maps average utilization and trend to a status.
func ClassifyStatus(avgUtilization float64, trend analytics.TrendDirection) Status {
	switch {
	case avgUtilization > 100:
		return StatusOverallocated
	case avgUtilization > 90 && trend == analytics.TrendIncreasing:
		return StatusAtRisk
	case avgUtilization > 90:
		return StatusBusy
	case avgUtilization > 70:
		return StatusHealthy
	case avgUtilization > 40:
		return StatusAvailable
	default:
		return StatusUnderutilized
	}
}

// ResourceForecast is one resource's utilization across the forecast months.
type ResourceForecast struct {
	ResourceID     string                   `json:"resourceId"`
	Name           string                   `json:"name"`
	Role           string                   `json:"role"`
	Skills         []string                 `json:"skills"`
	AvgUtilization float64                  `json:"avgUtilization"`
	TrendDirection analytics.TrendDirection `json:"trendDirection"`
	TrendSlope     float64                  `json:"trendSlope"`
	Status         Status                   `json:"forecastStatus"`
	Note           string                   `json:"note,omitempty"`
	Months         []MonthlyUtilization     `json:"monthlyUtilization"`

	Resource capacity.Resource `json:"-"`
}

// Totals returns the monthly utilization totals in month order.
func (f ResourceForecast) Totals() []float64 {
	out := make([]float64, len(f.Months))
	for i, m := range f.Months {
		out[i] = float64(m.TotalUtilization)
	}
	return out
}

// Month returns the entry for the given month, if present.
func (f ResourceForecast) Month(ym capacity.YearMonth) (MonthlyUtilization, bool) {
	for _, m := range f.Months {
		if m.Month.YearMonth() == ym {
			return m, true
		}
	}
	return MonthlyUtilization{}, false
}

// PeakUtilization returns the highest monthly total.
func (f ResourceForecast) PeakUtilization() int {
	peak := 0
	for _, m := range f.Months {
		if m.TotalUtilization > peak {
			peak = m.TotalUtilization
		}
	}
	return peak
}

// BuildResource computes the forecast of a single resource. allocations may
// include other resources' records; only the resource's own are counted.
func BuildResource(res capacity.Resource, allocations []capacity.Allocation, months []capacity.Month, ix CapacityIndex) ResourceForecast {
	own := make([]capacity.Allocation, 0, len(allocations))
	for _, a := range allocations {
		if a.ResourceID == res.ID {
			own = append(own, a)
		}
	}

	monthly := make([]MonthlyUtilization, len(months))
	for i, m := range months {
		monthly[i] = ResolveMonth(res.ID, m, own, ix)
	}

	skills := res.Skills
	if skills == nil {
		skills = []string{}
	}

	f := ResourceForecast{
		ResourceID: res.ID,
		Name:       res.Name,
		Role:       res.Role,
		Skills:     skills,
		Months:     monthly,
		Resource:   res,
	}
	totals := f.Totals()
	trend := analytics.AnalyzeTrend(totals)
	f.AvgUtilization = analytics.Mean(totals)
	f.TrendDirection = trend.Direction
	f.TrendSlope = trend.Slope
	f.Status = ClassifyStatus(f.AvgUtilization, trend.Direction)
	return f
}

// Options tunes Build.
type Options struct {
	// Workers bounds concurrent per-resource builds; 0 means unbounded.
	Workers int
}

// Result is the full forecast of one invocation.
type Result struct {
	Months    []capacity.Month   `json:"-"`
	Resources []ResourceForecast `json:"resources"`
	Team      TeamForecast       `json:"team"`
}

// Build computes every resource forecast in parallel, then rolls them up
// into the team forecast. Cancellation is honored until all resource
// forecasts are joined; the team rollup always runs to completion.
func Build(ctx context.Context, snap capacity.Snapshot, months []capacity.Month, opts Options) (*Result, error) {
	byResource := snap.AllocationsByResource()
	ix := NewCapacityIndex(snap.Capacity)

	forecasts := make([]ResourceForecast, len(snap.Resources))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, res := range snap.Resources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			forecasts[i] = BuildResource(res, byResource[res.ID], months, ix)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Months:    months,
		Resources: forecasts,
		Team:      BuildTeam(months, forecasts),
	}, nil
}
