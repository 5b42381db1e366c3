package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/config"
	"github.com/felixgeelhaar/loadline/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

var (
	initBackend string
	initSample  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a loadline workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		if _, err := os.Stat(filepath.Join(root, storage.WorkspaceDir, storage.ConfigFile)); err == nil {
			return NewCLIError("workspace already initialized", "Edit .loadline/config.yaml or use 'loadline config set'", nil)
		}

		cfg := config.Default()
		cfg.Storage.Backend = initBackend
		if err := cfg.Validate(); err != nil {
			return NewCLIError("invalid backend", "Use --backend filesystem or --backend sqlite", err)
		}

		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		if err := config.SaveConfig(root, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		ws, err := wiring.NewWorkspace(root)
		if err != nil {
			return err
		}
		defer ws.Close()

		snap := capacity.Snapshot{}
		if initSample {
			snap = sampleSnapshot(time.Now())
		}
		if err := ws.Provider.ImportSnapshot(cmd.Context(), snap); err != nil {
			return fmt.Errorf("failed to write initial data: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized loadline workspace in %s (%s backend)\n", filepath.Join(root, storage.WorkspaceDir), cfg.Storage.Backend)
		if initSample {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d sample resources and %d allocations. Try 'loadline forecast'.\n", len(snap.Resources), len(snap.Allocations))
		}
		return nil
	},
}

// sampleSnapshot is a small team with one overloaded developer, anchored
// on the month of now.
func sampleSnapshot(now time.Time) capacity.Snapshot {
	first := capacity.NewDate(now.Year(), now.Month(), 1)
	span := func(fromMonth, months int) (capacity.Date, capacity.Date) {
		start := first.AddMonths(fromMonth)
		end := start.AddMonths(months).Time().AddDate(0, 0, -1)
		return start, capacity.DateOf(end)
	}
	alloc := func(id, resource, project, name string, fromMonth, months, pct int) capacity.Allocation {
		start, end := span(fromMonth, months)
		return capacity.Allocation{
			ID:                 id,
			ResourceID:         resource,
			ProjectID:          project,
			ProjectName:        name,
			StartDate:          start,
			EndDate:            end,
			UtilizationPercent: pct,
		}
	}

	next := first.AddMonths(2)
	return capacity.Snapshot{
		Resources: []capacity.Resource{
			{ID: "ada", Name: "Ada Lovelace", Role: "Backend Developer", Skills: []string{"Go", "PostgreSQL"}},
			{ID: "grace", Name: "Grace Hopper", Role: "Backend Developer", Skills: []string{"Go", "Kubernetes"}},
			{ID: "alan", Name: "Alan Turing", Role: "Data Engineer", Skills: []string{"Python", "PostgreSQL"}},
			{ID: "margaret", Name: "Margaret Hamilton", Role: "QA Engineer", Skills: []string{"Testing"}},
		},
		Allocations: []capacity.Allocation{
			alloc("sample-1", "ada", "billing", "Billing Platform", 0, 6, 80),
			alloc("sample-2", "ada", "search", "Search Revamp", 0, 3, 40),
			alloc("sample-3", "grace", "billing", "Billing Platform", 0, 6, 30),
			alloc("sample-4", "alan", "search", "Search Revamp", 0, 6, 60),
			alloc("sample-5", "alan", "billing", "Billing Platform", 1, 2, 50),
			alloc("sample-6", "margaret", "billing", "Billing Platform", 0, 6, 90),
		},
		Capacity: []capacity.CapacitySetting{
			{ResourceID: "grace", Year: next.Year(), Month: int(next.Month()), AvailableCapacityPercent: 100, PlannedTimeOffPercent: 50},
		},
	}
}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendFilesystem, "Storage backend (filesystem, sqlite)")
	initCmd.Flags().BoolVar(&initSample, "sample", false, "Add a small sample team to explore the commands")
	RootCmd.AddCommand(initCmd)
}
