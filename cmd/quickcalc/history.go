package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/quickcalc/pkg/config"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear recorded evaluations",
		RunE:  runHistory,
	}
	cmd.Flags().Bool("clear", false, "Delete every recorded evaluation")
	cmd.Flags().Int("limit", 20, "Number of entries to show (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := store.Open(cfg.History)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if wipe, _ := cmd.Flags().GetBool("clear"); wipe {
		if err := s.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := s.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		if cfg.History.Backend == config.BackendMemory {
			fmt.Fprintln(out, "No history. The memory backend forgets on exit; set history.backend to sqlite to keep it.")
		} else {
			fmt.Fprintln(out, "No history.")
		}
		return nil
	}
	for _, e := range entries {
		result := "= " + e.Formatted
		if !e.OK {
			result = string(e.ErrorKind)
		}
		fmt.Fprintf(out, "%-32s %-24s %s\n", e.Expression, result, humanize.Time(e.CreateTime))
	}
	return nil
}
