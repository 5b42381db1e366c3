package cli

import (
	"github.com/spf13/cobra"
)

var forecastFlags queryFlags

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast monthly utilization per resource and for the team",
	Long: `Forecast samples every allocation on the 15th of each month in the window
and compares the load with each person's effective capacity.

Flags:
  --start       First day of the window (default today)
  --end         Last day of the window
  --months      Months after the start when --end is not given
  --resources   Only forecast these resource ids
  --json        Output in JSON format`,
	RunE: runForecast,
}

func runForecast(cmd *cobra.Command, args []string) error {
	q, err := forecastFlags.query(cmd)
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

	if forecastFlags.json {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	renderForecast(cmd.OutOrStdout(), report)
	return nil
}

func init() {
	forecastFlags.register(forecastCmd, true)
	RootCmd.AddCommand(forecastCmd)
}
