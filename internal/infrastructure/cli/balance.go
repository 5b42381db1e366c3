package cli

import (
	"github.com/spf13/cobra"
)

var balanceFlags queryFlags

var balanceCmd = &cobra.Command{
	Use:     "balance",
	Aliases: []string{"balancing"},
	Short:   "Propose moving work from overallocated to underallocated people",
	Long: `Balance pairs every overallocated resource with underallocated peers that share
a skill or role, and proposes moving allocations of 50% or less in the months
where the load is over capacity. At most three transfers are proposed per person.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := balanceFlags.query(cmd)
		if err != nil {
			return err
		}

		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Utilization.Balancing(cmd.Context(), q)
		if err != nil {
			return MapError(err)
		}

		if balanceFlags.json {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderBalancing(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	balanceFlags.register(balanceCmd, false)
	RootCmd.AddCommand(balanceCmd)
}
