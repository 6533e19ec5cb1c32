package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastd/internal/theme"
)

// themeCmd represents the theme command group.
var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the light/dark preference",
	Long: `Show or change the colour scheme shared by every toastd surface.

The preference is stored in ~/.local/share/toastd/preferences.json.
Running surfaces pick up changes immediately.

Use 'toastd theme get' to show the current scheme.
Use 'toastd theme set dark' to choose a scheme.
Use 'toastd theme toggle' to flip it.`,
	RunE: themeGetRun,
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current colour scheme",
	RunE:  themeGetRun,
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark>",
	Short:     "Set the colour scheme",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(theme.ModeLight), string(theme.ModeDark)},
	RunE:      themeSetRun,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	RunE:  themeToggleRun,
}

func init() {
	themeCmd.AddCommand(themeGetCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themeToggleCmd)

	rootCmd.AddCommand(themeCmd)
}

func themeGetRun(cmd *cobra.Command, args []string) error {
	themes, err := themePreference("cli")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), themes.Current())
	return nil
}

func themeSetRun(cmd *cobra.Command, args []string) error {
	mode, err := theme.ParseMode(args[0])
	if err != nil {
		return err
	}
	themes, err := themePreference("cli")
	if err != nil {
		return err
	}
	if err := themes.Set(mode); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", mode)
	return nil
}

func themeToggleRun(cmd *cobra.Command, args []string) error {
	themes, err := themePreference("cli")
	if err != nil {
		return err
	}
	mode, err := themes.Toggle()
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", mode)
	return nil
}
