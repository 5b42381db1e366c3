// Package bottleneck finds overallocation at resource, role and project
// granularity from a completed set of resource forecasts.
package bottleneck

import (
	"math"
	"sort"

	"github.com/felixgeelhaar/loadline/pkg/domain/analytics"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
)

// Level classifies a severity score.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// ClassifySeverity maps a severity score to a level.
func ClassifySeverity(severity float64) Level {
	switch {
	case severity >= 6:
		return LevelCritical
	case severity >= 3:
		return LevelHigh
	case severity >= 1.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Severity combines the mean overallocation and how many months it lasts:
// (mean/10) * (1 + min(count/3, 1)). An empty list scores 0.
func Severity(amounts []float64) float64 {
	if len(amounts) == 0 {
		return 0
	}
	duration := math.Min(float64(len(amounts))/3, 1)
	return analytics.Mean(amounts) / 10 * (1 + duration)
}

// OverallocatedMonth is one month in which load exceeded capacity.
type OverallocatedMonth struct {
	Month                capacity.Month `json:"month"`
	Utilization          int            `json:"utilization"`
	Capacity             int            `json:"capacity"`
	OverallocationAmount int            `json:"overallocationAmount"`
	UtilizationRate      float64        `json:"utilizationRate"`
}

func amountsOf(months []OverallocatedMonth) []float64 {
	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = float64(m.OverallocationAmount)
	}
	return out
}

// ResourceBottleneck is a resource overallocated in at least one month.
type ResourceBottleneck struct {
	ResourceID          string               `json:"resourceId"`
	Name                string               `json:"name"`
	Role                string               `json:"role"`
	OverallocatedMonths []OverallocatedMonth `json:"overallocatedMonths"`
	Severity            float64              `json:"severity"`
	Level               Level                `json:"level"`
}

// DetectResources returns the overallocated resources ordered by severity,
// highest first. Resources without an overallocated month are omitted.
func DetectResources(resources []forecast.ResourceForecast) []ResourceBottleneck {
	out := make([]ResourceBottleneck, 0)
	for _, rf := range resources {
		months := make([]OverallocatedMonth, 0)
		for _, m := range rf.Months {
			if !m.Overallocated {
				continue
			}
			months = append(months, OverallocatedMonth{
				Month:                m.Month,
				Utilization:          m.TotalUtilization,
				Capacity:             m.EffectiveCapacity,
				OverallocationAmount: m.OverallocationAmount(),
				UtilizationRate:      analytics.Ratio(float64(m.TotalUtilization), float64(m.EffectiveCapacity)),
			})
		}
		if len(months) == 0 {
			continue
		}
		severity := Severity(amountsOf(months))
		out = append(out, ResourceBottleneck{
			ResourceID:          rf.ResourceID,
			Name:                rf.Name,
			Role:                rf.Role,
			OverallocatedMonths: months,
			Severity:            severity,
			Level:               ClassifySeverity(severity),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out
}

// UnassignedRole labels resources without a role.
const UnassignedRole = "Unassigned"

// RoleBottleneck is a role whose combined load exceeded its combined capacity.
type RoleBottleneck struct {
	Role                string               `json:"role"`
	ResourceCount       int                  `json:"resourceCount"`
	OverallocatedMonths []OverallocatedMonth `json:"overallocatedMonths"`
	Severity            float64              `json:"severity"`
	Level               Level                `json:"level"`
}

type roleGroup struct {
	display   string
	resources []forecast.ResourceForecast
}

// DetectRoles groups resources by role and flags role-months where summed
// utilization exceeds summed effective capacity.
func DetectRoles(resources []forecast.ResourceForecast, months []capacity.Month) []RoleBottleneck {
	groups := make(map[capacity.RoleID]*roleGroup)
	keys := make([]capacity.RoleID, 0)
	for _, rf := range resources {
		key := rf.Resource.RoleID()
		g, ok := groups[key]
		if !ok {
			display := rf.Role
			if key.IsZero() {
				display = UnassignedRole
			}
			g = &roleGroup{display: display}
			groups[key] = g
			keys = append(keys, key)
		}
		g.resources = append(g.resources, rf)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]RoleBottleneck, 0)
	for _, key := range keys {
		g := groups[key]
		overallocated := make([]OverallocatedMonth, 0)
		for i, m := range months {
			utilization, capacityTotal := 0, 0
			for _, rf := range g.resources {
				if i >= len(rf.Months) {
					continue
				}
				utilization += rf.Months[i].TotalUtilization
				capacityTotal += rf.Months[i].EffectiveCapacity
			}
			if utilization <= capacityTotal {
				continue
			}
			overallocated = append(overallocated, OverallocatedMonth{
				Month:                m,
				Utilization:          utilization,
				Capacity:             capacityTotal,
				OverallocationAmount: utilization - capacityTotal,
				UtilizationRate:      analytics.Ratio(float64(utilization), float64(capacityTotal)),
			})
		}
		if len(overallocated) == 0 {
			continue
		}
		severity := Severity(amountsOf(overallocated))
		out = append(out, RoleBottleneck{
			Role:                g.display,
			ResourceCount:       len(g.resources),
			OverallocatedMonths: overallocated,
			Severity:            severity,
			Level:               ClassifySeverity(severity),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out
}
