package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// projectPath overrides the workspace root for every command.
var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "loadline",
	Version: Version,
	Short:   "Forecast resource utilization and rebalance workload",
	Long: `Loadline forecasts how loaded each person on a team will be, month by month.
It answers:
1. Who is overallocated, and when?
2. Which roles and projects are bottlenecks?
3. Which work could move to someone with spare capacity?`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
// The returned code is the process exit code.
func Execute() int {
	err := RootCmd.Execute()
	if err == nil {
		return 0
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
		}
		return cliErr.ExitCode
	}
	return 1
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "project", "C", "", "Workspace root (default: current directory)")
}
