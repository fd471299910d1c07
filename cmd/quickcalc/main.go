// Package main is the entry point for the quickcalc command.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/quickcalc/pkg/config"
	"github.com/lemonberrylabs/quickcalc/pkg/expr"
	"github.com/lemonberrylabs/quickcalc/pkg/format"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quickcalc [expression...]",
		Short: "Evaluate calculator expressions",
		Long: `quickcalc evaluates arithmetic expressions such as "2(3+4)", "45% of 120"
or "sqrt(16) + 2^3". Arguments are joined with spaces. Use -- before an
expression that starts with a minus sign.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE:         runEval,
	}

	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("quickcalc version {{.Version}}\n")

	root.PersistentFlags().String("config", "", "Path to a YAML or TOML config file (env QUICKCALC_CONFIG)")
	root.Flags().Bool("raw", false, "Print the full-precision value instead of the display form")
	root.Flags().Bool("rpn", false, "Print the postfix (RPN) form instead of evaluating")

	root.AddCommand(newServeCmd(), newTUICmd(), newHistoryCmd(), newFunctionsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	input := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	if rpn, _ := cmd.Flags().GetBool("rpn"); rpn {
		postfix, err := expr.Compile(input)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, expr.FormatPostfix(postfix))
		return nil
	}

	v, err := expr.Evaluate(input)
	if err != nil {
		return err
	}
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprintln(out, format.Plain(v))
		return nil
	}
	fmt.Fprintln(out, format.Result(v))
	return nil
}

// loadConfig reads --config (or QUICKCALC_CONFIG) when set, then applies
// environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := envOrDefault("QUICKCALC_CONFIG", "")
	if v, _ := cmd.Flags().GetString("config"); v != "" {
		path = v
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
