package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/forecast"
	"github.com/felixgeelhaar/loadline/pkg/domain/narrative"
)

// Styles
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var sectionStyle = lipgloss.NewStyle().Bold(true)
var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

var statusOK = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var statusErr = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// severityStyle colors status, level and risk words alike.
func severityStyle(word string) lipgloss.Style {
	switch word {
	case string(forecast.StatusOverallocated), "critical", "high":
		return statusErr
	case string(forecast.StatusAtRisk), string(forecast.StatusBusy), "medium":
		return statusWarn
	default:
		return statusOK
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...)
}

func windowTitle(kind string, start, end fmt.Stringer) string {
	return headerStyle.Render(fmt.Sprintf("%s %s to %s", kind, start, end))
}

func monthCell(m forecast.MonthlyUtilization) string {
	cell := strconv.Itoa(m.TotalUtilization) + "%"
	if m.Overallocated {
		return statusErr.Render(cell)
	}
	return cell
}

func renderForecast(w io.Writer, r *application.ForecastReport) {
	fmt.Fprintln(w, windowTitle("Utilization forecast", r.StartDate, r.EndDate))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Team: %s average, %s (%s)\n", narrative.Percent(r.Team.AvgUtilizationRate), r.Team.TrendDirection, r.Team.Category)
	fmt.Fprintln(w, r.Team.Forecast)

	if len(r.Resources) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("\nNo resources in this window."))
		return
	}

	headers := append([]string{"Resource", "Role", "Avg", "Trend", "Status"}, r.Months...)
	t := newTable(headers...)
	for _, rf := range r.Resources {
		row := []string{rf.Name, rf.Role, narrative.Percent(rf.AvgUtilization), string(rf.TrendDirection), severityStyle(string(rf.Status)).Render(string(rf.Status))}
		for _, m := range rf.Months {
			row = append(row, monthCell(m))
		}
		t.Row(row...)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())

	fmt.Fprintln(w, sectionStyle.Render("Notes"))
	for _, rf := range r.Resources {
		fmt.Fprintf(w, "  %s: %s\n", rf.Name, rf.Note)
	}
}

func renderBottlenecks(w io.Writer, r *application.BottleneckReport) {
	fmt.Fprintln(w, windowTitle("Bottlenecks", r.StartDate, r.EndDate))

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Resources"))
	if len(r.ResourceBottlenecks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	} else {
		t := newTable("Resource", "Role", "Months over", "Severity", "Level")
		for _, b := range r.ResourceBottlenecks {
			t.Row(b.Name, b.Role, strconv.Itoa(len(b.OverallocatedMonths)), fmt.Sprintf("%.2f", b.Severity), severityStyle(string(b.Level)).Render(string(b.Level)))
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, sectionStyle.Render("Roles"))
	if len(r.RoleBottlenecks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	} else {
		t := newTable("Role", "Resources", "Months over", "Severity", "Level")
		for _, b := range r.RoleBottlenecks {
			t.Row(b.Role, strconv.Itoa(b.ResourceCount), strconv.Itoa(len(b.OverallocatedMonths)), fmt.Sprintf("%.2f", b.Severity), severityStyle(string(b.Level)).Render(string(b.Level)))
		}
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, sectionStyle.Render("Projects"))
	t := newTable("Project", "Critical months", "Peak resources", "Peak load", "Risk")
	rows := 0
	for _, p := range r.ProjectBottlenecks {
		if len(p.CriticalMonths) == 0 {
			continue
		}
		t.Row(p.ProjectName, strconv.Itoa(len(p.CriticalMonths)), strconv.Itoa(p.PeakResourceCount), strconv.Itoa(p.PeakUtilization)+"%", severityStyle(string(p.RiskLevel)).Render(string(p.RiskLevel)))
		rows++
	}
	if rows == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	} else {
		fmt.Fprintln(w, t.Render())
	}

	fmt.Fprintln(w, sectionStyle.Render("Recommendations"))
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}

func renderBalancing(w io.Writer, r *application.BalancingReport) {
	fmt.Fprintln(w, windowTitle("Workload balancing", r.StartDate, r.EndDate))
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Summary.Message)

	if len(r.OverallocatedResources) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Overallocated"))
		t := newTable("Resource", "Role", "Avg", "Critical months")
		for _, o := range r.OverallocatedResources {
			labels := make([]string, len(o.CriticalMonths))
			for i, cm := range o.CriticalMonths {
				labels[i] = fmt.Sprintf("%s (+%d)", cm.Month.Label, cm.OverallocationAmount)
			}
			t.Row(o.Name, o.Role, narrative.Percent(o.AvgUtilization), strings.Join(labels, ", "))
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(r.UnderallocatedResources) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Underallocated"))
		t := newTable("Resource", "Role", "Avg", "Peak")
		for _, u := range r.UnderallocatedResources {
			t.Row(u.Name, u.Role, narrative.Percent(u.AvgUtilization), strconv.Itoa(u.PeakUtilization)+"%")
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Proposed transfers"))
		t := newTable("Month", "Project", "Load", "From", "To", "Score")
		for _, rec := range r.Recommendations {
			t.Row(rec.Month.Label, rec.Project.Name, strconv.Itoa(rec.Utilization)+"%", rec.FromResource.Name, rec.ToResource.Name, fmt.Sprintf("%.0f", rec.CompatibilityScore))
		}
		fmt.Fprintln(w, t.Render())
	}
}
