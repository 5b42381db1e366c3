// Package narrative renders the numeric forecasting results as short
// human-readable sentences.
package narrative

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/felixgeelhaar/loadline/pkg/domain/analytics"
	"github.com/felixgeelhaar/loadline/pkg/domain/balancing"
	"github.com/felixgeelhaar/loadline/pkg/domain/bottleneck"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
)

// Percent formats a percentage with one decimal place, e.g. "92.5%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

var categoryText = map[forecast.Category]string{
	forecast.CategoryCritical: "Team utilization is critical at %s; there is no slack for new work.",
	forecast.CategoryHigh:     "Team utilization is high at %s; new commitments need careful planning.",
	forecast.CategoryBalanced: "Team utilization is balanced at %s.",
	forecast.CategoryModerate: "Team utilization is moderate at %s; there is room for additional work.",
	forecast.CategoryLow:      "Team utilization is low at %s; capacity is available for new projects.",
}

var trendText = map[analytics.TrendDirection]string{
	analytics.TrendIncreasing: "Load is trending upward over the period.",
	analytics.TrendDecreasing: "Load is trending downward over the period.",
	analytics.TrendStable:     "Load is stable over the period.",
}

// TeamForecast describes the team rollup by category, trend and bottleneck months.
func TeamForecast(team forecast.TeamForecast) string {
	parts := []string{fmt.Sprintf(categoryText[team.Category], Percent(team.AvgUtilizationRate))}
	if t, ok := trendText[team.TrendDirection]; ok {
		parts = append(parts, t)
	}
	if len(team.BottleneckMonths) > 0 {
		parts = append(parts, fmt.Sprintf("Expect bottlenecks in %s.", strings.Join(team.BottleneckMonths, ", ")))
	}
	return strings.Join(parts, " ")
}

var statusText = map[forecast.Status]string{
	forecast.StatusOverallocated: "Overallocated",
	forecast.StatusAtRisk:        "At risk",
	forecast.StatusBusy:          "Busy",
	forecast.StatusHealthy:       "Healthy",
	forecast.StatusAvailable:     "Available",
	forecast.StatusUnderutilized: "Underutilized",
}

// ResourceStatus is a one-line note for a resource forecast.
func ResourceStatus(rf forecast.ResourceForecast) string {
	label, ok := statusText[rf.Status]
	if !ok {
		label = string(rf.Status)
	}
	note := fmt.Sprintf("%s: averaging %s across %s", label, Percent(rf.AvgUtilization), plural(len(rf.Months), "month"))
	if rf.TrendDirection != analytics.TrendStable && rf.TrendDirection != "" {
		note += fmt.Sprintf(", %s", rf.TrendDirection)
	}
	return note
}

// BottleneckRecommendations turns a bottleneck report into advice. An empty
// report yields a single all-clear line.
func BottleneckRecommendations(r bottleneck.Report) []string {
	out := make([]string, 0)
	for _, b := range r.ResourceBottlenecks {
		out = append(out, fmt.Sprintf("%s is overallocated in %s (severity %s, %s); redistribute or defer part of their work.",
			displayName(b.Name, b.ResourceID), plural(len(b.OverallocatedMonths), "month"), score(b.Severity), b.Level))
	}
	for _, b := range r.RoleBottlenecks {
		out = append(out, fmt.Sprintf("The %s role lacks capacity in %s; consider hiring or cross-training.",
			b.Role, monthLabels(b.OverallocatedMonths)))
	}
	for _, p := range r.ProjectBottlenecks {
		if p.RiskLevel != bottleneck.RiskHigh && p.RiskLevel != bottleneck.RiskMedium {
			continue
		}
		out = append(out, fmt.Sprintf("Project %s has %s staffing risk with up to %d concurrent resources; stagger allocations where possible.",
			displayName(p.ProjectName, p.ProjectID), p.RiskLevel, p.PeakResourceCount))
	}
	if len(out) == 0 {
		out = append(out, "No bottlenecks detected; current allocations fit within capacity.")
	}
	return out
}

// BalancingSummary explains the balancing opportunity.
func BalancingSummary(s balancing.Summary) string {
	switch {
	case s.OverallocatedCount == 0 && s.UnderallocatedCount == 0:
		return "The team is well balanced."
	case s.OverallocatedCount == 0:
		return fmt.Sprintf("No overallocated resources; %s could take on more work.", plural(s.UnderallocatedCount, "resource"))
	case s.UnderallocatedCount == 0:
		return fmt.Sprintf("%s overallocated but no one has spare capacity; consider adding resources.", plural(s.OverallocatedCount, "resource"))
	}
	return fmt.Sprintf("%s overallocated and %s underallocated; %s proposed (%s opportunity).",
		plural(s.OverallocatedCount, "resource"), plural(s.UnderallocatedCount, "resource"),
		plural(s.RecommendationCount, "transfer"), s.Opportunity)
}

func score(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

func monthLabels(months []bottleneck.OverallocatedMonth) string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Month.Label
	}
	return strings.Join(labels, ", ")
}
