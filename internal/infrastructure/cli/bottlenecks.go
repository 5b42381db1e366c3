package cli

import (
	"github.com/spf13/cobra"
)

var bottleneckFlags queryFlags

var bottlenecksCmd = &cobra.Command{
	Use:   "bottlenecks",
	Short: "Find overallocated resources, roles and crowded projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := bottleneckFlags.query(cmd)
		if err != nil {
			return err
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Utilization.Bottlenecks(cmd.Context(), q)
		if err != nil {
			return MapError(err)
		}

		if bottleneckFlags.json {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderBottlenecks(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	bottleneckFlags.register(bottlenecksCmd, false)
	RootCmd.AddCommand(bottlenecksCmd)
}
