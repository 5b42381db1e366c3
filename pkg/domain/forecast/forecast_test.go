package forecast

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/felixgeelhaar/loadline/pkg/domain/analytics"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

func mustMonths(t *testing.T, start, end string) []capacity.Month {
	t.Helper()
	months, err := capacity.GenerateMonths(capacity.MustDate(start), capacity.MustDate(end))
	if err != nil {
		t.Fatalf("generate months: %v", err)
	}
	return months
}

func alloc(id, resourceID, project string, start, end string, pct int) capacity.Allocation {
	return capacity.Allocation{
		ID:                 id,
		ResourceID:         resourceID,
		ProjectID:          project,
		ProjectName:        "Project " + project,
		StartDate:          capacity.MustDate(start),
		EndDate:            capacity.MustDate(end),
		UtilizationPercent: pct,
	}
}

func TestResolveMonth_DefaultCapacityOverallocated(t *testing.T) {
	jan := capacity.NewMonth(2025, 1)
	allocations := []capacity.Allocation{alloc("a1", "r1", "p1", "2025-01-01", "2025-01-31", 120)}

	got := ResolveMonth("r1", jan, allocations, NewCapacityIndex(nil))

	if got.TotalUtilization != 120 {
		t.Errorf("TotalUtilization = %d, want 120", got.TotalUtilization)
	}
	if got.EffectiveCapacity != 100 {
		t.Errorf("EffectiveCapacity = %d, want 100", got.EffectiveCapacity)
	}
	if !got.Overallocated {
		t.Error("expected overallocated")
	}
	if got.RemainingCapacity != 0 {
		t.Errorf("RemainingCapacity = %d, want 0", got.RemainingCapacity)
	}
	if got.OverallocationAmount() != 20 {
		t.Errorf("OverallocationAmount = %d, want 20", got.OverallocationAmount())
	}
	if len(got.Allocations) != 1 || got.Allocations[0].AllocationID != "a1" {
		t.Errorf("unexpected active allocations: %+v", got.Allocations)
	}
}

func TestResolveMonth_CapacitySetting(t *testing.T) {
	mar := capacity.NewMonth(2025, 3)
	ix := NewCapacityIndex([]capacity.CapacitySetting{
		{ResourceID: "r1", Year: 2025, Month: 3, AvailableCapacityPercent: 80, PlannedTimeOffPercent: 20},
		{ResourceID: "r1", Year: 2025, Month: 3, AvailableCapacityPercent: 10, PlannedTimeOffPercent: 0},
	})
	allocations := []capacity.Allocation{alloc("a1", "r1", "p1", "2025-03-01", "2025-03-31", 50)}

	got := ResolveMonth("r1", mar, allocations, ix)

	if got.EffectiveCapacity != 60 {
		t.Errorf("EffectiveCapacity = %d, want 60 (first setting wins)", got.EffectiveCapacity)
	}
	if got.RemainingCapacity != 10 {
		t.Errorf("RemainingCapacity = %d, want 10", got.RemainingCapacity)
	}
	if got.Overallocated {
		t.Error("did not expect overallocation")
	}
}

func TestResolveMonth_NegativeEffectiveCapacity(t *testing.T) {
	m := capacity.NewMonth(2025, 5)
	ix := NewCapacityIndex([]capacity.CapacitySetting{
		{ResourceID: "r1", Year: 2025, Month: 5, AvailableCapacityPercent: 20, PlannedTimeOffPercent: 40},
	})

	got := ResolveMonth("r1", m, nil, ix)

	if got.EffectiveCapacity != -20 {
		t.Errorf("EffectiveCapacity = %d, want -20", got.EffectiveCapacity)
	}
	if !got.Overallocated {
		t.Error("zero load against negative capacity must be overallocated")
	}
	if got.RemainingCapacity != 0 {
		t.Errorf("RemainingCapacity = %d, want 0", got.RemainingCapacity)
	}
	if got.Allocations == nil {
		t.Error("expected empty, non-nil allocation list")
	}
}

func TestAggregateMonth_MidpointSampling(t *testing.T) {
	feb := capacity.NewMonth(2025, 2)
	allocations := []capacity.Allocation{
		alloc("early", "r1", "p1", "2025-02-01", "2025-02-14", 40),
		alloc("late", "r1", "p2", "2025-02-16", "2025-02-28", 40),
		alloc("spanning", "r1", "p3", "2025-01-01", "2025-06-30", 30),
	}

	total, active := AggregateMonth(feb, allocations)
	if total != 30 {
		t.Errorf("total = %d, want 30 (only the allocation covering the 15th)", total)
	}
	if len(active) != 1 || active[0].ProjectID != "p3" {
		t.Errorf("unexpected active allocations: %+v", active)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name  string
		avg   float64
		trend analytics.TrendDirection
		want  Status
	}{
		{"overallocated regardless of trend", 120, analytics.TrendDecreasing, StatusOverallocated},
		{"at risk", 92, analytics.TrendIncreasing, StatusAtRisk},
		{"busy", 92, analytics.TrendStable, StatusBusy},
		{"healthy", 80, analytics.TrendIncreasing, StatusHealthy},
		{"available", 50, analytics.TrendStable, StatusAvailable},
		{"underutilized", 40, analytics.TrendStable, StatusUnderutilized},
		{"exactly 100 is busy", 100, analytics.TrendStable, StatusBusy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyStatus(tt.avg, tt.trend); got != tt.want {
				t.Errorf("ClassifyStatus(%v, %s) = %s, want %s", tt.avg, tt.trend, got, tt.want)
			}
		})
	}
}

func TestBuildResource(t *testing.T) {
	months := mustMonths(t, "2025-01-01", "2025-04-30")
	res := capacity.Resource{ID: "r1", Name: "Ada", Role: "Developer"}
	allocations := []capacity.Allocation{
		alloc("a1", "r1", "p1", "2025-01-01", "2025-04-30", 10),
		alloc("a2", "r1", "p2", "2025-02-01", "2025-04-30", 10),
		alloc("a3", "r1", "p3", "2025-03-01", "2025-04-30", 10),
		alloc("a4", "r1", "p4", "2025-04-01", "2025-04-30", 10),
		alloc("other", "r2", "p1", "2025-01-01", "2025-04-30", 90),
	}

	f := BuildResource(res, allocations, months, NewCapacityIndex(nil))

	if got := f.Totals(); !reflect.DeepEqual(got, []float64{10, 20, 30, 40}) {
		t.Fatalf("Totals = %v", got)
	}
	if f.AvgUtilization != 25 {
		t.Errorf("AvgUtilization = %v, want 25", f.AvgUtilization)
	}
	if f.TrendDirection != analytics.TrendIncreasing {
		t.Errorf("TrendDirection = %s, want increasing", f.TrendDirection)
	}
	if math.Abs(f.TrendSlope-10) > 1e-9 {
		t.Errorf("TrendSlope = %v, want 10", f.TrendSlope)
	}
	if f.Status != StatusUnderutilized {
		t.Errorf("Status = %s, want underutilized", f.Status)
	}
	if f.PeakUtilization() != 40 {
		t.Errorf("PeakUtilization = %d, want 40", f.PeakUtilization())
	}
	if f.Skills == nil {
		t.Error("expected non-nil skills")
	}
	if m, ok := f.Month(capacity.YearMonth{Year: 2025, Month: 3}); !ok || m.TotalUtilization != 30 {
		t.Errorf("Month(Mar) = %+v, %v", m, ok)
	}
}

func TestBuildTeam(t *testing.T) {
	months := mustMonths(t, "2025-01-01", "2025-02-28")
	ix := NewCapacityIndex([]capacity.CapacitySetting{
		{ResourceID: "r2", Year: 2025, Month: 2, AvailableCapacityPercent: 50},
	})
	resources := []ResourceForecast{
		BuildResource(capacity.Resource{ID: "r1"}, []capacity.Allocation{
			alloc("a1", "r1", "p1", "2025-01-01", "2025-02-28", 90),
		}, months, ix),
		BuildResource(capacity.Resource{ID: "r2"}, []capacity.Allocation{
			alloc("a2", "r2", "p1", "2025-01-01", "2025-02-28", 80),
		}, months, ix),
	}

	team := BuildTeam(months, resources)

	jan := team.MonthlyUtilization[0]
	if jan.TotalUtilization != 170 || jan.TotalCapacity != 200 {
		t.Fatalf("Jan totals = %d/%d", jan.TotalUtilization, jan.TotalCapacity)
	}
	if jan.UtilizationRate != 85 || jan.Overallocated {
		t.Errorf("Jan rate = %v overallocated=%v", jan.UtilizationRate, jan.Overallocated)
	}

	feb := team.MonthlyUtilization[1]
	if feb.TotalCapacity != 150 {
		t.Fatalf("Feb capacity = %d, want 150", feb.TotalCapacity)
	}
	if feb.UtilizationRate != 100 {
		t.Errorf("Feb displayed rate = %v, want capped 100", feb.UtilizationRate)
	}
	if !feb.Overallocated {
		t.Error("Feb must be flagged overallocated from the uncapped rate")
	}
	if math.Abs(feb.RawUtilizationRate-113.333) > 1e-2 {
		t.Errorf("Feb raw rate = %v", feb.RawUtilizationRate)
	}

	if team.AvgUtilizationRate != 92.5 {
		t.Errorf("AvgUtilizationRate = %v, want 92.5", team.AvgUtilizationRate)
	}
	if team.Category != CategoryHigh {
		t.Errorf("Category = %s, want high", team.Category)
	}
	if team.TrendDirection != analytics.TrendIncreasing {
		t.Errorf("TrendDirection = %s, want increasing", team.TrendDirection)
	}
	if !reflect.DeepEqual(team.BottleneckMonths, []string{"Feb 2025"}) {
		t.Errorf("BottleneckMonths = %v", team.BottleneckMonths)
	}
}

func TestBuildTeam_ZeroCapacity(t *testing.T) {
	months := mustMonths(t, "2025-01-01", "2025-01-31")
	ix := NewCapacityIndex([]capacity.CapacitySetting{
		{ResourceID: "r1", Year: 2025, Month: 1, AvailableCapacityPercent: 0},
	})
	resources := []ResourceForecast{BuildResource(capacity.Resource{ID: "r1"}, nil, months, ix)}

	team := BuildTeam(months, resources)
	if team.MonthlyUtilization[0].UtilizationRate != 0 {
		t.Errorf("expected zero rate for zero capacity, got %v", team.MonthlyUtilization[0].UtilizationRate)
	}
	if team.Category != CategoryLow {
		t.Errorf("Category = %s, want low", team.Category)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		rate float64
		want Category
	}{
		{96, CategoryCritical},
		{95, CategoryHigh},
		{91, CategoryHigh},
		{85, CategoryBalanced},
		{75, CategoryModerate},
		{70, CategoryLow},
	}
	for _, tt := range tests {
		if got := Categorize(tt.rate); got != tt.want {
			t.Errorf("Categorize(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	months := mustMonths(t, "2025-01-01", "2025-06-30")
	snap := capacity.Snapshot{
		Resources: []capacity.Resource{
			{ID: "r1", Name: "Ada"}, {ID: "r2", Name: "Bob"}, {ID: "r3", Name: "Cy"},
		},
		Allocations: []capacity.Allocation{
			alloc("a1", "r1", "p1", "2025-01-01", "2025-03-31", 110),
			alloc("a2", "r2", "p1", "2025-02-01", "2025-06-30", 60),
			alloc("a3", "r3", "p2", "2025-01-01", "2025-06-30", 30),
		},
	}

	parallel, err := Build(context.Background(), snap, months, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	again, err := Build(context.Background(), snap, months, Options{Workers: 1})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !reflect.DeepEqual(parallel, again) {
		t.Fatal("expected identical results across runs and worker counts")
	}
	if len(parallel.Resources) != 3 || parallel.Resources[1].ResourceID != "r2" {
		t.Fatalf("resource order not preserved: %+v", parallel.Resources)
	}
	if len(parallel.Team.MonthlyUtilization) != 6 {
		t.Errorf("expected 6 team months, got %d", len(parallel.Team.MonthlyUtilization))
	}
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	months := mustMonths(t, "2025-01-01", "2025-01-31")
	snap := capacity.Snapshot{Resources: []capacity.Resource{{ID: "r1"}}}

	_, err := Build(ctx, snap, months, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
