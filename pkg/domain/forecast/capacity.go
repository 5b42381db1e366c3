package forecast

import (
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// CapacityIndex looks up capacity settings by resource and month.
type CapacityIndex struct {
	settings map[capacity.SettingKey]capacity.CapacitySetting
}

// NewCapacityIndex indexes settings. When several settings share a resource
// and month, the first one wins.
func NewCapacityIndex(settings []capacity.CapacitySetting) CapacityIndex {
	ix := CapacityIndex{settings: make(map[capacity.SettingKey]capacity.CapacitySetting, len(settings))}
	for _, s := range settings {
		key := s.Key()
		if _, exists := ix.settings[key]; exists {
			continue
		}
		ix.settings[key] = s
	}
	return ix
}

// Resolve returns available capacity and planned time off for the month,
// falling back to 100 and 0.
func (ix CapacityIndex) Resolve(resourceID string, month capacity.Month) (available, timeOff int) {
	if s, ok := ix.settings[capacity.SettingKey{ResourceID: resourceID, Month: month.YearMonth()}]; ok {
		return s.AvailableCapacityPercent, s.PlannedTimeOffPercent
	}
	return capacity.DefaultAvailableCapacity, capacity.DefaultPlannedTimeOff
}

// ResolveMonth computes one resource's utilization against its capacity.
// Effective capacity is not clamped and may be negative.
func ResolveMonth(resourceID string, month capacity.Month, allocations []capacity.Allocation, ix CapacityIndex) MonthlyUtilization {
	total, active := AggregateMonth(month, allocations)
	available, timeOff := ix.Resolve(resourceID, month)
	effective := available - timeOff

	remaining := effective - total
	if remaining < 0 {
		remaining = 0
	}

	return MonthlyUtilization{
		Month:             month,
		TotalUtilization:  total,
		AvailableCapacity: available,
		PlannedTimeOff:    timeOff,
		EffectiveCapacity: effective,
		RemainingCapacity: remaining,
		Overallocated:     total > effective,
		Allocations:       active,
	}
}
