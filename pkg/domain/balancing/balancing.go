// Package balancing pairs overallocated resources with compatible
// underallocated ones and proposes moving small allocations between them.
package balancing

import (
	"sort"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
)

const (
	// FullLoad is the monthly total above which a resource is overallocated.
	FullLoad = 100
	// UnderallocatedBelow bounds both the average and every month of an
	// underallocated resource.
	UnderallocatedBelow = 70
	// TargetCeiling is the load a receiving resource may be filled up to.
	TargetCeiling = 90
	// TransferableMax is the largest allocation considered for a transfer.
	TransferableMax = 50
	// MaxRecommendationsPerResource caps the proposals per overallocated resource.
	MaxRecommendationsPerResource = 3

	skillWeight = 60
	roleWeight  = 40
)

// CriticalMonth is a month in which a resource carries more than a full load.
type CriticalMonth struct {
	Month                capacity.Month              `json:"month"`
	Utilization          int                         `json:"utilization"`
	OverallocationAmount int                         `json:"overallocationAmount"`
	Allocations          []forecast.ActiveAllocation `json:"allocations"`
}

// OverallocatedResource is a resource with at least one critical month.
type OverallocatedResource struct {
	ResourceID     string          `json:"resourceId"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Skills         []string        `json:"skills"`
	AvgUtilization float64         `json:"avgUtilization"`
	CriticalMonths []CriticalMonth `json:"criticalMonths"`

	source forecast.ResourceForecast
}

// UnderallocatedResource is a resource with spare capacity in every month.
type UnderallocatedResource struct {
	ResourceID      string   `json:"resourceId"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Skills          []string `json:"skills"`
	AvgUtilization  float64  `json:"avgUtilization"`
	PeakUtilization int      `json:"peakUtilization"`

	source forecast.ResourceForecast
}

// ResourceRef identifies a resource in a recommendation.
type ResourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recommendation proposes moving one allocation for one month.
type Recommendation struct {
	Project            capacity.Project `json:"project"`
	Utilization        int              `json:"utilization"`
	Month              capacity.Month   `json:"month"`
	FromResource       ResourceRef      `json:"fromResource"`
	ToResource         ResourceRef      `json:"toResource"`
	CompatibilityScore float64          `json:"compatibilityScore"`
	SkillsMatch        []string         `json:"skillsMatch"`
	RoleMatch          bool             `json:"roleMatch"`
}

// Result is the outcome of a balancing run.
type Result struct {
	OverallocatedResources  []OverallocatedResource  `json:"overallocatedResources"`
	UnderallocatedResources []UnderallocatedResource `json:"underallocatedResources"`
	Recommendations         []Recommendation         `json:"balancingRecommendations"`
	Summary                 Summary                  `json:"summary"`
}

// Classify splits resources into overallocated and underallocated sets.
// The overallocated check runs first, so no resource lands in both.
func Classify(resources []forecast.ResourceForecast) ([]OverallocatedResource, []UnderallocatedResource) {
	over := make([]OverallocatedResource, 0)
	under := make([]UnderallocatedResource, 0)
	for _, rf := range resources {
		if critical := criticalMonths(rf); len(critical) > 0 {
			over = append(over, OverallocatedResource{
				ResourceID:     rf.ResourceID,
				Name:           rf.Name,
				Role:           rf.Role,
				Skills:         rf.Skills,
				AvgUtilization: rf.AvgUtilization,
				CriticalMonths: critical,
				source:         rf,
			})
			continue
		}
		if rf.AvgUtilization < UnderallocatedBelow && rf.PeakUtilization() < UnderallocatedBelow {
			under = append(under, UnderallocatedResource{
				ResourceID:      rf.ResourceID,
				Name:            rf.Name,
				Role:            rf.Role,
				Skills:          rf.Skills,
				AvgUtilization:  rf.AvgUtilization,
				PeakUtilization: rf.PeakUtilization(),
				source:          rf,
			})
		}
	}
	return over, under
}

// criticalMonths returns months above a full load, largest overload first.
func criticalMonths(rf forecast.ResourceForecast) []CriticalMonth {
	out := make([]CriticalMonth, 0)
	for _, m := range rf.Months {
		if m.TotalUtilization <= FullLoad {
			continue
		}
		out = append(out, CriticalMonth{
			Month:                m.Month,
			Utilization:          m.TotalUtilization,
			OverallocationAmount: m.TotalUtilization - FullLoad,
			Allocations:          m.Allocations,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallocationAmount > out[j].OverallocationAmount
	})
	return out
}

// CompatibilityScore rates how well to can take over from's work, 0 to 100:
// up to 60 points for skill coverage and 40 for a matching role.
func CompatibilityScore(from, to capacity.Resource) float64 {
	var score float64
	if n := from.SkillSet().Len(); n > 0 {
		score = float64(len(matchingSkills(from, to))) / float64(n) * skillWeight
	}
	if from.RoleID().Matches(to.RoleID()) {
		score += roleWeight
	}
	return score
}

// matchingSkills lists from's skills that to also has, in from's order.
func matchingSkills(from, to capacity.Resource) []string {
	target := to.SkillSet()
	seen := make(map[capacity.SkillID]struct{})
	out := make([]string, 0)
	for _, name := range from.Skills {
		id := capacity.NewSkillID(name)
		if id == "" || !target.Has(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, name)
	}
	return out
}

type candidate struct {
	resource    UnderallocatedResource
	score       float64
	skills      []string
	roleMatch   bool
	utilization map[capacity.YearMonth]int
}

func (c candidate) available(month capacity.Month) int {
	if free := TargetCeiling - c.utilization[month.YearMonth()]; free > 0 {
		return free
	}
	return 0
}

// candidates returns the compatible receivers for from, best score first.
func candidates(from OverallocatedResource, under []UnderallocatedResource) []candidate {
	out := make([]candidate, 0)
	for _, u := range under {
		skills := matchingSkills(from.source.Resource, u.source.Resource)
		roleMatch := from.source.Resource.RoleID().Matches(u.source.Resource.RoleID())
		if len(skills) == 0 && !roleMatch {
			continue
		}

		utilization := make(map[capacity.YearMonth]int, len(u.source.Months))
		for _, m := range u.source.Months {
			utilization[m.Month.YearMonth()] = m.TotalUtilization
		}
		fits := true
		for _, cm := range from.CriticalMonths {
			if utilization[cm.Month.YearMonth()] >= TargetCeiling {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}

		out = append(out, candidate{
			resource:    u,
			score:       CompatibilityScore(from.source.Resource, u.source.Resource),
			skills:      skills,
			roleMatch:   roleMatch,
			utilization: utilization,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// transferable returns the allocations small enough to move, smallest first.
func transferable(allocations []forecast.ActiveAllocation) []forecast.ActiveAllocation {
	out := make([]forecast.ActiveAllocation, 0, len(allocations))
	for _, a := range allocations {
		if a.UtilizationPercent <= TransferableMax {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UtilizationPercent < out[j].UtilizationPercent })
	return out
}

// recommend produces the proposals for one overallocated resource in
// emission order: critical month, then allocation, then candidate. Only
// the first MaxRecommendationsPerResource are kept.
func recommend(from OverallocatedResource, cands []candidate) []Recommendation {
	out := make([]Recommendation, 0)
	for _, cm := range from.CriticalMonths {
		for _, a := range transferable(cm.Allocations) {
			for _, c := range cands {
				if c.available(cm.Month) < a.UtilizationPercent {
					continue
				}
				out = append(out, Recommendation{
					Project:            capacity.Project{ID: a.ProjectID, Name: a.ProjectName},
					Utilization:        a.UtilizationPercent,
					Month:              cm.Month,
					FromResource:       ResourceRef{ID: from.ResourceID, Name: from.Name},
					ToResource:         ResourceRef{ID: c.resource.ResourceID, Name: c.resource.Name},
					CompatibilityScore: c.score,
					SkillsMatch:        c.skills,
					RoleMatch:          c.roleMatch,
				})
			}
		}
	}
	if len(out) > MaxRecommendationsPerResource {
		out = out[:MaxRecommendationsPerResource]
	}
	return out
}

// Balance classifies the resources and proposes transfers from every
// overallocated resource to its compatible underallocated peers.
func Balance(resources []forecast.ResourceForecast) Result {
	over, under := Classify(resources)

	recs := make([]Recommendation, 0)
	for _, o := range over {
		if len(o.CriticalMonths) == 0 {
			continue
		}
		recs = append(recs, recommend(o, candidates(o, under))...)
	}

	return Result{
		OverallocatedResources:  over,
		UnderallocatedResources: under,
		Recommendations:         recs,
		Summary:                 Summarize(len(over), len(under), len(recs)),
	}
}
