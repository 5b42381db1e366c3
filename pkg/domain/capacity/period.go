package capacity

import (
	"encoding/json"
	"time"
)

// MidpointDay is the day of the month sampled when deciding whether an
// allocation is active in that month.
const MidpointDay = 15

// LabelLayout formats month labels, e.g. "Jan 2025".
const LabelLayout = "Jan 2006"

// Month is one forecast period.
type Month struct {
	Year  int
	Month time.Month
	Label string
}

// NewMonth builds a Month with its display label.
func NewMonth(year int, month time.Month) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{
		Year:  first.Year(),
		Month: first.Month(),
		Label: first.Format(LabelLayout),
	}
}

// Midpoint returns the 15th of the month.
func (m Month) Midpoint() Date {
	return NewDate(m.Year, m.Month, MidpointDay)
}

// FirstDay returns the first calendar day of the month.
func (m Month) FirstDay() Date {
	return NewDate(m.Year, m.Month, 1)
}

// LastDay returns the last calendar day of the month.
func (m Month) LastDay() Date {
	return NewDate(m.Year, m.Month, daysIn(m.Year, m.Month))
}

// YearMonth returns the month key.
func (m Month) YearMonth() YearMonth {
	return YearMonth{Year: m.Year, Month: m.Month}
}

// Key returns a stable "YYYY-MM" identifier.
func (m Month) Key() string {
	return m.YearMonth().String()
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return NewMonth(m.Year, m.Month+1)
}

func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year  int    `json:"year"`
		Month int    `json:"month"`
		Label string `json:"label"`
	}{m.Year, int(m.Month), m.Label})
}

// GenerateMonths returns every calendar month from start's month through
// end's month inclusive. A range inside a single month yields exactly one
// Month. It fails with an InvalidRangeError when end is before start.
func GenerateMonths(start, end Date) ([]Month, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &InvalidRangeError{Start: start, End: end, Reason: "start and end dates are required"}
	}
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end, Reason: "end date is before start date"}
	}

	last := end.YearMonth().Index()
	months := make([]Month, 0, last-start.YearMonth().Index()+1)
	for m := NewMonth(start.Year(), start.Month()); m.YearMonth().Index() <= last; m = m.Next() {
		months = append(months, m)
	}
	return months, nil
}

// MonthLabels returns the display labels of the given months in order.
func MonthLabels(months []Month) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label
	}
	return labels
}
