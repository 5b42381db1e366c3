package capacity

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateMonths(t *testing.T) {
	months, err := GenerateMonths(MustDate("2025-01-10"), MustDate("2025-03-05"))
	if err != nil {
		t.Fatalf("GenerateMonths failed: %v", err)
	}

	want := []string{"Jan 2025", "Feb 2025", "Mar 2025"}
	if len(months) != len(want) {
		t.Fatalf("expected %d months, got %d", len(want), len(months))
	}
	for i, m := range months {
		if m.Label != want[i] {
			t.Errorf("month %d label = %q, want %q", i, m.Label, want[i])
		}
	}
}

func TestGenerateMonths_SameMonth(t *testing.T) {
	months, err := GenerateMonths(MustDate("2025-04-02"), MustDate("2025-04-28"))
	if err != nil {
		t.Fatalf("GenerateMonths failed: %v", err)
	}
	if len(months) != 1 {
		t.Fatalf("expected exactly one month, got %d", len(months))
	}
	if months[0].Year != 2025 || months[0].Month != time.April {
		t.Errorf("unexpected month: %+v", months[0])
	}
}

func TestGenerateMonths_CrossesYear(t *testing.T) {
	months, err := GenerateMonths(MustDate("2024-11-30"), MustDate("2025-02-01"))
	if err != nil {
		t.Fatalf("GenerateMonths failed: %v", err)
	}
	got := MonthLabels(months)
	want := []string{"Nov 2024", "Dec 2024", "Jan 2025", "Feb 2025"}
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(months); i++ {
		if months[i].YearMonth().Index() <= months[i-1].YearMonth().Index() {
			t.Fatalf("months not strictly increasing at %d", i)
		}
	}
}

func TestGenerateMonths_InvalidRange(t *testing.T) {
	_, err := GenerateMonths(MustDate("2025-03-01"), MustDate("2025-02-01"))
	if err == nil {
		t.Fatal("expected error for end before start")
	}
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *InvalidRangeError, got %T", err)
	}
}

func TestGenerateMonths_ZeroDates(t *testing.T) {
	if _, err := GenerateMonths(Date{}, MustDate("2025-01-01")); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for zero start, got %v", err)
	}
}

func TestMonth_Bounds(t *testing.T) {
	m := NewMonth(2024, time.February)
	if m.Midpoint().String() != "2024-02-15" {
		t.Errorf("Midpoint = %s", m.Midpoint())
	}
	if m.FirstDay().String() != "2024-02-01" {
		t.Errorf("FirstDay = %s", m.FirstDay())
	}
	if m.LastDay().String() != "2024-02-29" {
		t.Errorf("LastDay = %s", m.LastDay())
	}
	if m.Key() != "2024-02" {
		t.Errorf("Key = %s", m.Key())
	}
	if next := NewMonth(2024, time.December).Next(); next.Year != 2025 || next.Month != time.January {
		t.Errorf("December.Next() = %+v", next)
	}
}

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		from string
		n    int
		want string
	}{
		{"2025-01-15", 6, "2025-07-15"},
		{"2025-01-31", 1, "2025-02-28"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2025-11-30", 3, "2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			if got := MustDate(tt.from).AddMonths(tt.n).String(); got != tt.want {
				t.Errorf("AddMonths(%d) = %s, want %s", tt.n, got, tt.want)
			}
		})
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2025-06-01")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, _ := d.MarshalText()
	if string(text) != "2025-06-01" {
		t.Errorf("MarshalText = %s", text)
	}
	if err := d.UnmarshalText([]byte("06/01/2025")); err == nil {
		t.Error("expected error for non-ISO date")
	}
	if err := d.UnmarshalText([]byte("2025-06-01T10:00:00Z")); err != nil || d.String() != "2025-06-01" {
		t.Errorf("timestamp parse: %v %s", err, d)
	}
}

func TestYearMonthRange_Contains(t *testing.T) {
	r := DateRange{Start: MustDate("2024-11-10"), End: MustDate("2025-02-01")}.Months()
	if !r.Contains(2024, time.December) {
		t.Error("expected Dec 2024 inside range")
	}
	if r.Contains(2025, time.March) {
		t.Error("expected Mar 2025 outside range")
	}
	if r.Contains(2024, time.October) {
		t.Error("expected Oct 2024 outside range")
	}
}
