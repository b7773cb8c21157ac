// Package commands implements the budgetctl command line.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizplan/budget-service/internal/application/service"
	"github.com/bizplan/budget-service/internal/budget"
	"github.com/bizplan/budget-service/internal/excel"
	"github.com/bizplan/budget-service/pkg/utils"
)

// Version is reported by --version
var Version = "1.0.0"

// ErrBudgetInvalid is returned when a check completes with an invalid verdict
var ErrBudgetInvalid = errors.New("budget is inconsistent")

type globalOptions struct {
	logLevel        string
	jsonOutput      bool
	provincialRatio float64
	cityRatio       float64
	sheetName       string
	headerScanRows  int
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "budgetctl",
		Short:   "Validate and reconcile project budget sheets",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")
	flags.Float64Var(&opts.provincialRatio, "provincial-ratio", 0.3, "provincial share of an adjusted item")
	flags.Float64Var(&opts.cityRatio, "city-ratio", 0.7, "city share of an adjusted item")
	flags.StringVar(&opts.sheetName, "sheet", "", "worksheet to read (default: first)")
	flags.IntVar(&opts.headerScanRows, "header-rows", excel.DefaultHeaderScanRows, "leading rows searched for the header")

	rootCmd.AddCommand(newValidateCommand(opts))
	rootCmd.AddCommand(newCheckSheetCommand(opts))
	rootCmd.AddCommand(newAdjustCommand(opts))

	return rootCmd
}

// toolkit bundles what a subcommand needs
type toolkit struct {
	budget service.BudgetService
	parser *excel.Parser
	logger *zap.Logger
}

func (o *globalOptions) build() (*toolkit, error) {
	logger, err := utils.NewCLILogger(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	split, err := budget.NewFundingSplit(o.provincialRatio, o.cityRatio)
	if err != nil {
		return nil, err
	}

	parser := excel.NewParser(excel.ParserConfig{
		SheetName:      o.sheetName,
		HeaderScanRows: o.headerScanRows,
	}, logger)

	return &toolkit{
		budget: service.NewBudgetService(
			budget.NewValidator(logger),
			budget.NewAdjuster(split, logger),
			parser,
			excel.NewGenerator(split, logger),
			utils.NewKVLogger(logger),
		),
		parser: parser,
		logger: logger,
	}, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printValidation reports a verdict and turns an invalid one into ErrBudgetInvalid
func printValidation(w io.Writer, jsonOutput bool, result budget.ValidationResult) error {
	if jsonOutput {
		if err := writeJSON(w, result); err != nil {
			return err
		}
	} else {
		status := "OK"
		if !result.Valid {
			status = "MISMATCH"
		}
		fmt.Fprintf(w, "%s: %s\n", status, result.Message)
	}

	if !result.Valid {
		return ErrBudgetInvalid
	}
	return nil
}
