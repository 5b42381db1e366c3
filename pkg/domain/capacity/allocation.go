package capacity

import (
	"fmt"
	"time"
)

// Allocation commits a percentage of a resource's capacity to a project for
// an inclusive span of dates.
type Allocation struct {
	ID                 string `yaml:"id" json:"id"`
	ResourceID         string `yaml:"resource_id" json:"resourceId"`
	ProjectID          string `yaml:"project_id" json:"projectId"`
	ProjectName        string `yaml:"project_name,omitempty" json:"projectName"`
	StartDate          Date   `yaml:"start_date" json:"startDate"`
	EndDate            Date   `yaml:"end_date" json:"endDate"`
	UtilizationPercent int    `yaml:"utilization_percent" json:"utilizationPercent"`
}

// ActiveOn reports whether the allocation span contains the given day.
func (a Allocation) ActiveOn(d Date) bool {
	return !d.Before(a.StartDate) && !d.After(a.EndDate)
}

// ActiveIn reports whether the allocation counts toward the month. Only the
// 15th is sampled: an allocation that ends on the 10th does not count.
func (a Allocation) ActiveIn(m Month) bool {
	return a.ActiveOn(m.Midpoint())
}

// Validate checks the fields a forecast depends on.
func (a Allocation) Validate() error {
	if a.ResourceID == "" {
		return fmt.Errorf("allocation %s: resource id is required", a.ID)
	}
	if a.StartDate.IsZero() || a.EndDate.IsZero() {
		return fmt.Errorf("allocation %s: start and end dates are required", a.ID)
	}
	if a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("allocation %s: end date %s is before start date %s", a.ID, a.EndDate, a.StartDate)
	}
	if a.UtilizationPercent < 0 {
		return fmt.Errorf("allocation %s: utilization must not be negative", a.ID)
	}
	return nil
}

// Default capacity values applied when no setting exists for a month.
const (
	DefaultAvailableCapacity = 100
	DefaultPlannedTimeOff    = 0
)

// CapacitySetting overrides a resource's capacity for one month.
type CapacitySetting struct {
	ResourceID               string `yaml:"resource_id" json:"resourceId"`
	Year                     int    `yaml:"year" json:"year"`
	Month                    int    `yaml:"month" json:"month"`
	AvailableCapacityPercent int    `yaml:"available_capacity_percent" json:"availableCapacityPercent"`
	PlannedTimeOffPercent    int    `yaml:"planned_time_off_percent" json:"plannedTimeOffPercent"`
}

// SettingKey identifies the resource and month a setting applies to.
type SettingKey struct {
	ResourceID string
	Month      YearMonth
}

// Key returns the setting's resource and month.
func (c CapacitySetting) Key() SettingKey {
	return SettingKey{ResourceID: c.ResourceID, Month: c.YearMonth()}
}

// YearMonth returns the month the setting applies to.
func (c CapacitySetting) YearMonth() YearMonth {
	return YearMonth{Year: c.Year, Month: time.Month(c.Month)}
}

// EffectiveCapacity is available capacity minus planned time off. It may be negative.
func (c CapacitySetting) EffectiveCapacity() int {
	return c.AvailableCapacityPercent - c.PlannedTimeOffPercent
}

// Validate checks the setting identifies a real month.
func (c CapacitySetting) Validate() error {
	if c.ResourceID == "" {
		return fmt.Errorf("capacity setting: resource id is required")
	}
	if c.Month < 1 || c.Month > 12 {
		return fmt.Errorf("capacity setting for %s: month %d out of range", c.ResourceID, c.Month)
	}
	return nil
}
