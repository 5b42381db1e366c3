package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/pkg/application"
	"github.com/felixgeelhaar/loadline/pkg/domain/narrative"
)

var dashboardFlags queryFlags

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive TUI of the utilization forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := dashboardFlags.query(cmd)
		if err != nil {
			return err
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Utilization.Forecast(cmd.Context(), q)
		if err != nil {
			return MapError(err)
		}
		if os.Getenv("LOADLINE_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}

		p := tea.NewProgram(newDashboardModel(report))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardFlags.register(dashboardCmd, true)
	RootCmd.AddCommand(dashboardCmd)
}

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

type dashboardModel struct {
	table  table.Model
	title  string
	team   string
	notes  []string
	alerts []string
}

func newDashboardModel(r *application.ForecastReport) dashboardModel {
	columns := []table.Column{
		{Title: "Resource", Width: 20},
		{Title: "Role", Width: 18},
		{Title: "Avg", Width: 7},
		{Title: "Peak", Width: 6},
		{Title: "Trend", Width: 10},
		{Title: "Status", Width: 13},
	}

	rows := make([]table.Row, 0, len(r.Resources))
	notes := make([]string, 0, len(r.Resources))
	for _, rf := range r.Resources {
		rows = append(rows, table.Row{
			rf.Name,
			rf.Role,
			narrative.Percent(rf.AvgUtilization),
			strconv.Itoa(rf.PeakUtilization()) + "%",
			string(rf.TrendDirection),
			string(rf.Status),
		})
		notes = append(notes, rf.Note)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	alerts := make([]string, 0)
	for _, tm := range r.Team.MonthlyUtilization {
		if tm.Overallocated {
			alerts = append(alerts, fmt.Sprintf("%s: team load %d%% of %d%% capacity", tm.Month.Label, tm.TotalUtilization, tm.TotalCapacity))
		}
	}

	return dashboardModel{
		table:  t,
		title:  fmt.Sprintf("Utilization %s to %s", r.StartDate, r.EndDate),
		team:   r.Team.Forecast,
		notes:  notes,
		alerts: alerts,
	}
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// selectedNote is the status note of the highlighted resource.
func (m dashboardModel) selectedNote() string {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.notes) {
		return ""
	}
	return m.notes[i]
}

func (m dashboardModel) View() string {
	alertView := statusOK.Render("\nTeam capacity: OK")
	if len(m.alerts) > 0 {
		alertView = statusErr.Render("\nTEAM OVERALLOCATED:\n")
		for _, a := range m.alerts {
			alertView += fmt.Sprintf("- %s\n", a)
		}
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(m.title),
			m.team,
			"\nResources:",
			m.table.View(),
			mutedStyle.Render(m.selectedNote()),
			alertView,
			"\n[q] Quit  [Up/Down] Navigate",
		),
	) + "\n"
}
