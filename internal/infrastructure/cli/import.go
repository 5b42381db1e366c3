package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/loadline/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/loadline/pkg/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Import resources, allocations and capacity settings from a JSON file",
	Long: `Import validates the file against the snapshot schema and merges its records
into the configured backend. Records are matched by id, capacity settings by
resource and month; records without an id get a generated one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}

		snap, err := storage.DecodeSnapshot(data)
		if err != nil {
			return NewCLIError("invalid snapshot", "Read the loadline://schema MCP resource or run 'loadline import schema' for the expected format", err)
		}

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		ws, err := wiring.NewWorkspace(root)
		if err != nil {
			return err
		}
		defer ws.Close()

		if err := ws.Provider.ImportSnapshot(cmd.Context(), snap); err != nil {
			return fmt.Errorf("import snapshot: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d resources, %d allocations and %d capacity settings\n",
			len(snap.Resources), len(snap.Allocations), len(snap.Capacity))
		return nil
	},
}

var importSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of snapshot files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), storage.SnapshotSchemaJSON)
		return err
	},
}

func init() {
	importCmd.AddCommand(importSchemaCmd)
	RootCmd.AddCommand(importCmd)
}
