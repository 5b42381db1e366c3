package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "data", DatabaseFile))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_ImportAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.ImportSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	resources, err := store.ListResources(ctx, nil)
	if err != nil {
		t.Fatalf("ListResources: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if resources[0].ID != "r1" || len(resources[0].Skills) != 2 || resources[0].Skills[0] != "Go" {
		t.Errorf("unexpected first resource: %+v", resources[0])
	}
	if resources[1].Skills == nil || len(resources[1].Skills) != 0 {
		t.Errorf("expected empty skills for r2, got %v", resources[1].Skills)
	}

	window := capacity.DateRange{Start: capacity.MustDate("2025-01-01"), End: capacity.MustDate("2025-03-31")}
	allocations, err := store.ListAllocations(ctx, nil, window)
	if err != nil {
		t.Fatalf("ListAllocations: %v", err)
	}
	if len(allocations) != 1 || allocations[0].ID != "a1" || allocations[0].UtilizationPercent != 60 {
		t.Fatalf("unexpected allocations: %+v", allocations)
	}
	if allocations[0].EndDate.String() != "2025-03-31" {
		t.Errorf("EndDate = %s", allocations[0].EndDate)
	}

	settings, err := store.ListCapacitySettings(ctx, []string{"r1"}, window.Months())
	if err != nil {
		t.Fatalf("ListCapacitySettings: %v", err)
	}
	if len(settings) != 1 || settings[0].Month != 2 || settings[0].EffectiveCapacity() != 70 {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

func TestSQLiteStore_ResourceFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.ImportSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	resources, err := store.ListResources(ctx, []string{"r2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(resources) != 1 || resources[0].ID != "r2" {
		t.Fatalf("unexpected resources: %+v", resources)
	}

	window := capacity.DateRange{Start: capacity.MustDate("2025-01-01"), End: capacity.MustDate("2025-12-31")}
	allocations, err := store.ListAllocations(ctx, []string{"r2"}, window)
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 1 || allocations[0].ID != "a2" {
		t.Fatalf("unexpected allocations: %+v", allocations)
	}
}

func TestSQLiteStore_ImportUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.ImportSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	update := capacity.Snapshot{
		Resources: []capacity.Resource{{ID: "r1", Name: "Ada L.", Role: "Lead", Skills: []string{"Rust"}}},
		Allocations: []capacity.Allocation{
			{ID: "a1", ResourceID: "r1", ProjectID: "p2", StartDate: capacity.MustDate("2025-01-01"), EndDate: capacity.MustDate("2025-01-31"), UtilizationPercent: 20},
		},
	}
	if err := store.ImportSnapshot(ctx, update); err != nil {
		t.Fatal(err)
	}

	resources, err := store.ListResources(ctx, []string{"r1"})
	if err != nil {
		t.Fatal(err)
	}
	if resources[0].Name != "Ada L." || len(resources[0].Skills) != 1 || resources[0].Skills[0] != "Rust" {
		t.Errorf("unexpected updated resource: %+v", resources[0])
	}

	window := capacity.DateRange{Start: capacity.MustDate("2025-01-01"), End: capacity.MustDate("2025-12-31")}
	allocations, err := store.ListAllocations(ctx, nil, window)
	if err != nil {
		t.Fatal(err)
	}
	if len(allocations) != 2 || allocations[0].UtilizationPercent != 20 || allocations[0].ProjectID != "p2" {
		t.Fatalf("unexpected allocations after upsert: %+v", allocations)
	}
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), DatabaseFile)
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ImportSnapshot(context.Background(), sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	resources, err := reopened.ListResources(context.Background(), nil)
	if err != nil || len(resources) != 2 {
		t.Fatalf("expected data to persist, got %v, %v", resources, err)
	}
}
