// Package forecast turns allocation and capacity records into monthly
// utilization figures per resource and for the whole team.
package forecast

import (
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// ActiveAllocation is an allocation that counts toward a month.
type ActiveAllocation struct {
	AllocationID       string `json:"allocationId"`
	ProjectID          string `json:"projectId"`
	ProjectName        string `json:"projectName"`
	UtilizationPercent int    `json:"utilizationPercent"`
}

// MonthlyUtilization is one resource's load and capacity for one month.
type MonthlyUtilization struct {
	Month             capacity.Month     `json:"month"`
	TotalUtilization  int                `json:"totalUtilization"`
	AvailableCapacity int                `json:"availableCapacity"`
	PlannedTimeOff    int                `json:"plannedTimeOff"`
	EffectiveCapacity int                `json:"effectiveCapacity"`
	RemainingCapacity int                `json:"remainingCapacity"`
	Overallocated     bool               `json:"overallocated"`
	Allocations       []ActiveAllocation `json:"allocations"`
}

// OverallocationAmount is the load above effective capacity, never negative.
func (m MonthlyUtilization) OverallocationAmount() int {
	if over := m.TotalUtilization - m.EffectiveCapacity; over > 0 {
		return over
	}
	return 0
}

// AggregateMonth sums the utilization of the allocations active in the month.
// No cap is applied; the total may exceed 100.
func AggregateMonth(month capacity.Month, allocations []capacity.Allocation) (int, []ActiveAllocation) {
	total := 0
	active := make([]ActiveAllocation, 0)
	for _, a := range allocations {
		if !a.ActiveIn(month) {
			continue
		}
		total += a.UtilizationPercent
		active = append(active, ActiveAllocation{
			AllocationID:       a.ID,
			ProjectID:          a.ProjectID,
			ProjectName:        a.ProjectName,
			UtilizationPercent: a.UtilizationPercent,
		})
	}
	return total, active
}
