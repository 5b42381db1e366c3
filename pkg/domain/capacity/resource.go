package capacity

import (
	"sort"
	"strings"
)

// RoleID is the normalized, comparable form of a role name.
type RoleID string

// NewRoleID folds case and collapses whitespace so "Senior  Dev" and
// "senior dev" compare equal.
func NewRoleID(name string) RoleID {
	return RoleID(normalizeKey(name))
}

// IsZero reports whether the role is unset.
func (r RoleID) IsZero() bool {
	return r == ""
}

// Matches reports whether two roles are set and equal.
func (r RoleID) Matches(other RoleID) bool {
	return !r.IsZero() && r == other
}

// SkillID is the normalized, comparable form of a skill name.
type SkillID string

// NewSkillID normalizes a skill name.
func NewSkillID(name string) SkillID {
	return SkillID(normalizeKey(name))
}

// SkillSet is an immutable set of skills.
type SkillSet struct {
	ids []SkillID
}

// NewSkillSet builds a set from display names. Blank and duplicate names are dropped.
func NewSkillSet(names ...string) SkillSet {
	seen := make(map[SkillID]struct{}, len(names))
	ids := make([]SkillID, 0, len(names))
	for _, n := range names {
		id := NewSkillID(n)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return SkillSet{ids: ids}
}

// Len returns the number of distinct skills.
func (s SkillSet) Len() int {
	return len(s.ids)
}

// Has reports whether the set contains the skill.
func (s SkillSet) Has(id SkillID) bool {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i < len(s.ids) && s.ids[i] == id
}

// Intersect returns the skills present in both sets.
func (s SkillSet) Intersect(other SkillSet) []SkillID {
	out := make([]SkillID, 0)
	for _, id := range s.ids {
		if other.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// IDs returns a copy of the sorted skill ids.
func (s SkillSet) IDs() []SkillID {
	out := make([]SkillID, len(s.ids))
	copy(out, s.ids)
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Resource is a staffed person whose time is allocated to projects.
type Resource struct {
	ID     string   `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Role   string   `yaml:"role,omitempty" json:"role"`
	Skills []string `yaml:"skills,omitempty" json:"skills"`
}

// RoleID returns the normalized role.
func (r Resource) RoleID() RoleID {
	return NewRoleID(r.Role)
}

// SkillSet returns the normalized skills.
func (r Resource) SkillSet() SkillSet {
	return NewSkillSet(r.Skills...)
}

// Project is referenced by allocations for display.
type Project struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}
