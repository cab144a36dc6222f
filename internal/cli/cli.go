package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vk/sheetcalc/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const longHelp = `sheetcalc evaluates a spreadsheet file and prints every cell's value.

Cells hold literals or formulas. A formula starts with "=" and combines cell
addresses, numbers and quoted strings with + - * / and parentheses:

  =A1+B1        sum, or concatenation when either side is text
  ="ab"*3       text repetition
  =A1-"world"   removes the last occurrence of "world" from A1

Sheet files are .hcl (a sheet block with rows, plus cell blocks) or .csv.
Failed cells show a short diagnostic and an error kind instead of a value.`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	defaults := app.DefaultConfig()

	var (
		sheetFlag string
		sets      []string
		cfg       = defaults
		ran       bool
	)

	cmd := &cobra.Command{
		Use:           "sheetcalc [flags] SHEET_PATH",
		Short:         "Evaluate a spreadsheet of literals and formulas",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ran = true
			switch {
			case sheetFlag != "":
				cfg.SheetPath = sheetFlag
			case len(args) > 0:
				cfg.SheetPath = args[0]
			}
			return nil
		},
	}
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	flags := cmd.Flags()
	flags.StringVarP(&sheetFlag, "sheet", "s", "", "Path to the sheet file (.hcl or .csv).")
	flags.StringVarP(&cfg.Output, "output", "o", defaults.Output, "Output format. Options: 'table', 'csv' or 'plain'.")
	flags.StringArrayVar(&sets, "set", nil, "Replace a cell after the first evaluation, as ADDR=TEXT. Repeatable.")
	flags.IntVar(&cfg.MaxDepth, "max-depth", defaults.MaxDepth, "Maximum length of a reference chain evaluated in one read.")
	flags.IntVar(&cfg.CacheSize, "cache-size", defaults.CacheSize, "Number of compiled formulas kept in memory.")
	flags.StringVar(&cfg.LogFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if !ran {
		// --help was handled by cobra.
		return nil, true, nil
	}
	slog.Debug("Arguments parsed successfully.")

	if cfg.SheetPath == "" {
		slog.Debug("No sheet path provided, printing usage and exiting.")
		_ = cmd.Usage()
		return nil, true, nil
	}

	for _, raw := range sets {
		u, err := app.ParseUpdate(raw)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.Updates = append(cfg.Updates, u)
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
