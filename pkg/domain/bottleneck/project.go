package bottleneck

import (
	"sort"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
)

// RiskLevel classifies how crowded a project gets.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
	RiskNone   RiskLevel = "none"
)

// Rank orders risk levels; higher is riskier.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// CriticalResourceCount is the number of concurrently allocated resources
// that makes a project-month critical.
const CriticalResourceCount = 3

// ProjectMonth is the staffing of one project in one month.
type ProjectMonth struct {
	Month            capacity.Month `json:"month"`
	ResourceCount    int            `json:"resourceCount"`
	TotalUtilization int            `json:"totalUtilization"`
	ResourceIDs      []string       `json:"resourceIds"`
}

// ProjectBottleneck summarizes the critical months of a project.
type ProjectBottleneck struct {
	ProjectID         string         `json:"projectId"`
	ProjectName       string         `json:"projectName"`
	CriticalMonths    []ProjectMonth `json:"criticalMonths"`
	PeakResourceCount int            `json:"peakResourceCount"`
	PeakUtilization   int            `json:"peakUtilization"`
	RiskLevel         RiskLevel      `json:"riskLevel"`
}

// ClassifyRisk grades a project by its critical months.
func ClassifyRisk(critical []ProjectMonth) RiskLevel {
	if len(critical) == 0 {
		return RiskNone
	}
	maxCount, maxUtil := peaks(critical)
	switch {
	case maxCount >= 5 || maxUtil >= 400:
		return RiskHigh
	case maxCount >= 4 || maxUtil >= 300:
		return RiskMedium
	default:
		return RiskLow
	}
}

func peaks(months []ProjectMonth) (count, utilization int) {
	for _, m := range months {
		if m.ResourceCount > count {
			count = m.ResourceCount
		}
		if m.TotalUtilization > utilization {
			utilization = m.TotalUtilization
		}
	}
	return count, utilization
}

type projectAccumulator struct {
	name      string
	perMonth  []map[string]struct{}
	totals    []int
	resources [][]string
}

// DetectProjects counts distinct allocated resources and summed utilization
// per project and month. Every project with an active allocation in the
// window is returned, ordered by risk level, highest first.
func DetectProjects(resources []forecast.ResourceForecast, months []capacity.Month) []ProjectBottleneck {
	projects := make(map[string]*projectAccumulator)
	ids := make([]string, 0)

	for _, rf := range resources {
		for i, m := range rf.Months {
			if i >= len(months) {
				break
			}
			for _, a := range m.Allocations {
				acc, ok := projects[a.ProjectID]
				if !ok {
					acc = &projectAccumulator{
						name:      a.ProjectName,
						perMonth:  make([]map[string]struct{}, len(months)),
						totals:    make([]int, len(months)),
						resources: make([][]string, len(months)),
					}
					projects[a.ProjectID] = acc
					ids = append(ids, a.ProjectID)
				}
				if acc.name == "" {
					acc.name = a.ProjectName
				}
				if acc.perMonth[i] == nil {
					acc.perMonth[i] = make(map[string]struct{})
				}
				if _, seen := acc.perMonth[i][rf.ResourceID]; !seen {
					acc.perMonth[i][rf.ResourceID] = struct{}{}
					acc.resources[i] = append(acc.resources[i], rf.ResourceID)
				}
				acc.totals[i] += a.UtilizationPercent
			}
		}
	}
	sort.Strings(ids)

	out := make([]ProjectBottleneck, 0, len(ids))
	for _, id := range ids {
		acc := projects[id]
		critical := make([]ProjectMonth, 0)
		for i, m := range months {
			count := len(acc.perMonth[i])
			if count < CriticalResourceCount {
				continue
			}
			critical = append(critical, ProjectMonth{
				Month:            m,
				ResourceCount:    count,
				TotalUtilization: acc.totals[i],
				ResourceIDs:      acc.resources[i],
			})
		}
		peakCount, peakUtil := peaks(critical)
		out = append(out, ProjectBottleneck{
			ProjectID:         id,
			ProjectName:       acc.name,
			CriticalMonths:    critical,
			PeakResourceCount: peakCount,
			PeakUtilization:   peakUtil,
			RiskLevel:         ClassifyRisk(critical),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].RiskLevel.Rank() > out[j].RiskLevel.Rank() })
	return out
}

// Report bundles the three bottleneck views.
type Report struct {
	ResourceBottlenecks []ResourceBottleneck `json:"resourceBottlenecks"`
	RoleBottlenecks     []RoleBottleneck     `json:"roleBottlenecks"`
	ProjectBottlenecks  []ProjectBottleneck  `json:"projectBottlenecks"`
	Recommendations     []string             `json:"aiRecommendations"`
}

// Detect runs all three detectors.
func Detect(resources []forecast.ResourceForecast, months []capacity.Month) Report {
	return Report{
		ResourceBottlenecks: DetectResources(resources),
		RoleBottlenecks:     DetectRoles(resources, months),
		ProjectBottlenecks:  DetectProjects(resources, months),
		Recommendations:     []string{},
	}
}
