package forecast

import (
	"github.com/felixgeelhaar/loadline/pkg/domain/analytics"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// Category buckets the team's average utilization rate.
type Category string

const (
	CategoryCritical Category = "critical"
	CategoryHigh     Category = "high"
	CategoryBalanced Category = "balanced"
	CategoryModerate Category = "moderate"
	CategoryLow      Category = "low"
)

// BottleneckRate is the monthly team rate above which a month is a bottleneck month.
const BottleneckRate = 90

// Categorize maps an average team utilization rate to a category.
func Categorize(rate float64) Category {
	switch {
	case rate > 95:
		return CategoryCritical
	case rate > 90:
		return CategoryHigh
	case rate > 80:
		return CategoryBalanced
	case rate > 70:
		return CategoryModerate
	default:
		return CategoryLow
	}
}

// TeamMonth aggregates all resources for one month.
type TeamMonth struct {
	Month              capacity.Month `json:"month"`
	TotalUtilization   int            `json:"totalUtilization"`
	TotalCapacity      int            `json:"totalCapacity"`
	UtilizationRate    float64        `json:"utilizationRate"`
	RawUtilizationRate float64        `json:"rawUtilizationRate"`
	Overallocated      bool           `json:"overallocated"`
	ResourceCount      int            `json:"resourceCount"`
}

// TeamForecast is the team-level rollup.
type TeamForecast struct {
	MonthlyUtilization []TeamMonth              `json:"monthlyUtilization"`
	AvgUtilizationRate float64                  `json:"avgUtilizationRate"`
	TrendDirection     analytics.TrendDirection `json:"trendDirection"`
	Category           Category                 `json:"utilizationCategory"`
	BottleneckMonths   []string                 `json:"bottleneckMonths"`
	Forecast           string                   `json:"forecast"`
}

// BuildTeam sums utilization and effective capacity across resources per
// month. The displayed rate is capped at 100; the overallocated flag is
// evaluated against the uncapped rate.
func BuildTeam(months []capacity.Month, resources []ResourceForecast) TeamForecast {
	monthly := make([]TeamMonth, len(months))
	rates := make([]float64, len(months))
	bottlenecks := make([]string, 0)

	for i, m := range months {
		tm := TeamMonth{Month: m, ResourceCount: len(resources)}
		for _, rf := range resources {
			if i >= len(rf.Months) {
				continue
			}
			tm.TotalUtilization += rf.Months[i].TotalUtilization
			tm.TotalCapacity += rf.Months[i].EffectiveCapacity
		}

		raw := 0.0
		if tm.TotalCapacity > 0 {
			raw = float64(tm.TotalUtilization) / float64(tm.TotalCapacity) * 100
		}
		tm.RawUtilizationRate = raw
		tm.UtilizationRate = raw
		if tm.UtilizationRate > 100 {
			tm.UtilizationRate = 100
		}
		tm.Overallocated = raw > 100

		monthly[i] = tm
		rates[i] = tm.UtilizationRate
		if tm.UtilizationRate > BottleneckRate {
			bottlenecks = append(bottlenecks, m.Label)
		}
	}

	avg := analytics.Mean(rates)
	return TeamForecast{
		MonthlyUtilization: monthly,
		AvgUtilizationRate: avg,
		TrendDirection:     analytics.AnalyzeTrend(rates).Direction,
		Category:           Categorize(avg),
		BottleneckMonths:   bottlenecks,
	}
}
