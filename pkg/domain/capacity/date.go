// Package capacity holds the resource-planning records the forecasting engine
// reads: resources, allocations, capacity settings and the calendar months
// they are bucketed into.
package capacity

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. The zero value is the zero date.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day. Out-of-range
// values are normalized the way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("date cannot be empty")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// Accept full timestamps as well; only the date part is kept.
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return Date{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
		}
		return DateOf(ts), nil
	}
	return DateOf(t), nil
}

// MustDate parses a date or panics. Use only in tests.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int            { return d.t.Year() }
func (d Date) Month() time.Month    { return d.t.Month() }
func (d Date) Day() int             { return d.t.Day() }
func (d Date) Time() time.Time      { return d.t }
func (d Date) IsZero() bool         { return d.t.IsZero() }
func (d Date) Before(o Date) bool   { return d.t.Before(o.t) }
func (d Date) After(o Date) bool    { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool    { return d.t.Equal(o.t) }
func (d Date) YearMonth() YearMonth { return YearMonth{Year: d.Year(), Month: d.Month()} }

// AddMonths moves the date by n calendar months. The day is clamped to the
// length of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := d.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler; both JSON and YAML use it.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// Overlaps reports whether the inclusive span [start, end] shares a day with r.
func (r DateRange) Overlaps(start, end Date) bool {
	return !end.Before(r.Start) && !start.After(r.End)
}

// Months returns the year-month span covered by the range.
func (r DateRange) Months() YearMonthRange {
	return YearMonthRange{From: r.Start.YearMonth(), To: r.End.YearMonth()}
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Index orders year-months on a single axis.
func (ym YearMonth) Index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// YearMonthRange is an inclusive span of calendar months.
type YearMonthRange struct {
	From YearMonth `json:"from"`
	To   YearMonth `json:"to"`
}

// Contains reports whether the given year and month fall inside the range.
func (r YearMonthRange) Contains(year int, month time.Month) bool {
	idx := YearMonth{Year: year, Month: month}.Index()
	return idx >= r.From.Index() && idx <= r.To.Index()
}
