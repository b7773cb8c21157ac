package commands

import (
	"github.com/spf13/cobra"

	"github.com/bizplan/budget-service/internal/budget"
)

// claimFlags are the funding flags shared by validate and check-sheet
type claimFlags struct {
	total      int64
	provincial int64
	city       int64
	self       int64
}

func (f *claimFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.total, "total", 0, "claimed total budget")
	cmd.Flags().Int64Var(&f.provincial, "provincial", 0, "claimed provincial fund")
	cmd.Flags().Int64Var(&f.city, "city", 0, "claimed city fund")
	cmd.Flags().Int64Var(&f.self, "self", 0, "claimed self fund")
}

// claim leaves flags that were not given as nil
func (f *claimFlags) claim(cmd *cobra.Command) budget.BudgetClaim {
	pick := func(name string, v int64) *int64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	return budget.BudgetClaim{
		TotalBudget:    pick("total", f.total),
		ProvincialFund: pick("provincial", f.provincial),
		CityFund:       pick("city", f.city),
		SelfFund:       pick("self", f.self),
	}
}

func (f *claimFlags) anyGiven(cmd *cobra.Command) bool {
	for _, name := range []string{"total", "provincial", "city", "self"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (f *claimFlags) funding() budget.Funding {
	return budget.Funding{
		Total:      f.total,
		Provincial: f.provincial,
		City:       f.city,
		Self:       f.self,
	}
}

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var flags claimFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the claimed total equals provincial + city + self funds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := opts.build()
			if err != nil {
				return err
			}
			defer kit.logger.Sync()

			result := kit.budget.ValidateBudget(flags.claim(cmd))
			return printValidation(cmd.OutOrStdout(), opts.jsonOutput, result)
		},
	}

	flags.register(cmd)
	return cmd
}
