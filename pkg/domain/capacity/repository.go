package capacity

import "context"

// DataProvider is the read-only source of planning records. Implementations
// belong to the storage layer; a nil or empty id filter means all resources.
type DataProvider interface {
	ListResources(ctx context.Context, ids []string) ([]Resource, error)
	ListAllocations(ctx context.Context, resourceIDs []string, window DateRange) ([]Allocation, error)
	ListCapacitySettings(ctx context.Context, resourceIDs []string, window YearMonthRange) ([]CapacitySetting, error)
}

// Snapshot is the immutable input of one engine invocation.
type Snapshot struct {
	Resources   []Resource
	Allocations []Allocation
	Capacity    []CapacitySetting
}

// AllocationsByResource groups allocations by resource id, keeping input order.
func (s Snapshot) AllocationsByResource() map[string][]Allocation {
	out := make(map[string][]Allocation, len(s.Resources))
	for _, a := range s.Allocations {
		out[a.ResourceID] = append(out[a.ResourceID], a)
	}
	return out
}
