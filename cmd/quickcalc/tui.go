package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/quickcalc/internal/tui"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/theme"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal calculator",
		RunE:  runTUI,
	}
	cmd.Flags().String("theme", "", "Theme preference: dark, light or system")
	cmd.Flags().String("palette", "", "Palette id (see the web page's palette picker)")
	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("theme"); v != "" {
		cfg.Display.Theme = v
	}
	if v, _ := cmd.Flags().GetString("palette"); v != "" {
		cfg.Display.Palette = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := store.Open(cfg.History)
	if err != nil {
		return err
	}
	defer s.Close()

	pref, _ := theme.ParsePreference(cfg.Display.Theme)
	palette := cfg.Display.Palette
	if palette == theme.DefaultDark {
		palette = ""
	}

	return tui.Run(tui.Options{
		Store:      s,
		Preference: pref,
		Palette:    palette,
		SystemDark: lipgloss.HasDarkBackground(),
	})
}
