package storage

import (
	"testing"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

func TestFilterAllocations(t *testing.T) {
	allocations := []capacity.Allocation{
		{ID: "before", ResourceID: "r1", StartDate: capacity.MustDate("2024-11-01"), EndDate: capacity.MustDate("2024-12-31")},
		{ID: "edge", ResourceID: "r1", StartDate: capacity.MustDate("2024-12-01"), EndDate: capacity.MustDate("2025-01-01")},
		{ID: "inside", ResourceID: "r2", StartDate: capacity.MustDate("2025-02-01"), EndDate: capacity.MustDate("2025-02-28")},
		{ID: "after", ResourceID: "r1", StartDate: capacity.MustDate("2025-04-01"), EndDate: capacity.MustDate("2025-04-30")},
	}
	window := capacity.DateRange{Start: capacity.MustDate("2025-01-01"), End: capacity.MustDate("2025-03-31")}

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"all resources", nil, []string{"edge", "inside"}},
		{"one resource", []string{"r2"}, []string{"inside"}},
		{"unknown resource", []string{"r9"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterAllocations(allocations, tt.ids, window)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d allocations, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("got[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterCapacitySettings(t *testing.T) {
	settings := []capacity.CapacitySetting{
		{ResourceID: "r1", Year: 2024, Month: 12},
		{ResourceID: "r1", Year: 2025, Month: 1},
		{ResourceID: "r2", Year: 2025, Month: 3},
		{ResourceID: "r1", Year: 2025, Month: 4},
	}
	window := capacity.YearMonthRange{From: capacity.YearMonth{Year: 2025, Month: 1}, To: capacity.YearMonth{Year: 2025, Month: 3}}

	got := FilterCapacitySettings(settings, nil, window)
	if len(got) != 2 {
		t.Fatalf("expected 2 settings in range, got %+v", got)
	}
	got = FilterCapacitySettings(settings, []string{"r2"}, window)
	if len(got) != 1 || got[0].ResourceID != "r2" {
		t.Fatalf("unexpected filtered settings: %+v", got)
	}
}
