// Package storage implements the data providers the forecasting engine reads
// from: YAML files in the workspace and an SQLite database.
package storage

import (
	"context"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// Provider is a data source that can also receive imported records.
type Provider interface {
	capacity.DataProvider
	ImportSnapshot(ctx context.Context, snap capacity.Snapshot) error
}

var (
	_ Provider = (*FilesystemRepository)(nil)
	_ Provider = (*SQLiteStore)(nil)
)

func idSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func wanted(set map[string]struct{}, id string) bool {
	if set == nil {
		return true
	}
	_, ok := set[id]
	return ok
}

// FilterResources keeps the resources named in ids; an empty filter keeps all.
func FilterResources(resources []capacity.Resource, ids []string) []capacity.Resource {
	set := idSet(ids)
	out := make([]capacity.Resource, 0, len(resources))
	for _, r := range resources {
		if wanted(set, r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAllocations keeps the allocations of the given resources that
// overlap the window.
func FilterAllocations(allocations []capacity.Allocation, resourceIDs []string, window capacity.DateRange) []capacity.Allocation {
	set := idSet(resourceIDs)
	out := make([]capacity.Allocation, 0, len(allocations))
	for _, a := range allocations {
		if wanted(set, a.ResourceID) && window.Overlaps(a.StartDate, a.EndDate) {
			out = append(out, a)
		}
	}
	return out
}

// FilterCapacitySettings keeps the settings of the given resources inside
// the month range.
func FilterCapacitySettings(settings []capacity.CapacitySetting, resourceIDs []string, window capacity.YearMonthRange) []capacity.CapacitySetting {
	set := idSet(resourceIDs)
	out := make([]capacity.CapacitySetting, 0, len(settings))
	for _, s := range settings {
		if wanted(set, s.ResourceID) && window.Contains(s.Year, s.YearMonth().Month) {
			out = append(out, s)
		}
	}
	return out
}

// MergeResources replaces existing resources by id and appends new ones.
func MergeResources(existing, incoming []capacity.Resource) []capacity.Resource {
	return merge(existing, incoming, func(r capacity.Resource) string { return r.ID })
}

// MergeAllocations replaces existing allocations by id and appends new ones.
func MergeAllocations(existing, incoming []capacity.Allocation) []capacity.Allocation {
	return merge(existing, incoming, func(a capacity.Allocation) string { return a.ID })
}

// MergeCapacitySettings replaces settings for the same resource and month.
func MergeCapacitySettings(existing, incoming []capacity.CapacitySetting) []capacity.CapacitySetting {
	return merge(existing, incoming, func(s capacity.CapacitySetting) capacity.SettingKey { return s.Key() })
}

func merge[T any, K comparable](existing, incoming []T, key func(T) K) []T {
	out := make([]T, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	index := make(map[K]int, len(out))
	for i, v := range out {
		index[key(v)] = i
	}
	for _, v := range incoming {
		k := key(v)
		if i, ok := index[k]; ok {
			out[i] = v
			continue
		}
		index[k] = len(out)
		out = append(out, v)
	}
	return out
}
