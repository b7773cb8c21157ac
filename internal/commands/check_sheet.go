package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
)

func newCheckSheetCommand(opts *globalOptions) *cobra.Command {
	var flags claimFlags

	cmd := &cobra.Command{
		Use:   "check-sheet FILE",
		Short: "Import a budget sheet and compare its totals with the claimed funding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := opts.build()
			if err != nil {
				return err
			}
			defer kit.logger.Sync()

			if err := excel.CheckFileName(args[0]); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening sheet: %w", err)
			}
			defer f.Close()

			var funding *budget.Funding
			if flags.anyGiven(cmd) {
				fd := flags.funding()
				funding = &fd
			}

			check, err := kit.budget.ImportSheet(f, funding)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, check); err != nil {
					return err
				}
			} else {
				s := check.Sheet
				fmt.Fprintf(out, "items: %d\n", s.ItemCount)
				fmt.Fprintf(out, "total: %d (provincial %d, city %d, self %d)\n",
					s.TotalAmount, s.TotalProvincial, s.TotalCity, s.TotalSelf)
			}

			if check.Validation == nil {
				return nil
			}
			if opts.jsonOutput {
				if !check.Validation.Valid {
					return ErrBudgetInvalid
				}
				return nil
			}
			return printValidation(out, false, *check.Validation)
		},
	}

	flags.register(cmd)
	return cmd
}
