package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
)

func newAdjustCommand(opts *globalOptions) *cobra.Command {
	var target int64
	var output string

	cmd := &cobra.Command{
		Use:   "adjust FILE",
		Short: "Make a budget sheet add up to a target total by adjusting its last item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := opts.build()
			if err != nil {
				return err
			}
			defer kit.logger.Sync()

			if err := excel.CheckFileName(output); err != nil {
				return fmt.Errorf("output: %w", err)
			}

			sheet, err := kit.parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			adj, err := kit.budget.AutoAdjust(target, sheet.Items)
			if err != nil {
				return err
			}

			adjusted := &budget.BudgetSheet{Items: adj.Items}
			if err := adjusted.Recalculate(); err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			if err := kit.budget.ExportSheet(f, adjusted); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing output: %w", err)
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, adj)
			}

			if !adj.Adjusted {
				fmt.Fprintf(out, "already at %d; written unchanged to %s\n", target, output)
				return nil
			}
			last := adj.Items[len(adj.Items)-1]
			fmt.Fprintf(out, "adjusted last item by %d to %d (%s)\n", -adj.Difference, last.Amount, last.CalculationBasis)
			if adj.NegativeLastItem {
				fmt.Fprintln(out, "warning: last item amount is negative")
			}
			fmt.Fprintf(out, "written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().Int64Var(&target, "target", 0, "target total (required)")
	_ = cmd.MarkFlagRequired("target")
	cmd.Flags().StringVarP(&output, "out", "o", "", "output xlsx path (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
