package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/winsnap/internal/output"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manage processes whose windows are never captured",
}

var excludeAddCmd = &cobra.Command{
	Use:   "add PROCESS...",
	Short: "Exclude process names (e.g. slack.exe) from capture",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExcludeAdd,
}

var excludeRemoveCmd = &cobra.Command{
	Use:   "remove PROCESS...",
	Short: "Stop excluding process names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExcludeRemove,
}

var excludeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List excluded process names",
	Args:  cobra.NoArgs,
	RunE:  runExcludeList,
}

var excludeCandidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List running process names that are not excluded yet",
	Args:  cobra.NoArgs,
	RunE:  runExcludeCandidates,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change persisted settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings",
	Long: `Changes only the settings whose flags are given, e.g.

  winsnap settings set --interval 300 --notifications=false

Changes are written immediately; a running auto-save daemon picks them up.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var (
	setNotifications bool
	setAutoSave      bool
	setInterval      int
)

func init() {
	settingsSetCmd.Flags().BoolVar(&setNotifications, "notifications", true, "Show notifications")
	settingsSetCmd.Flags().BoolVar(&setAutoSave, "auto-save", true, "Enable periodic auto-save")
	settingsSetCmd.Flags().IntVar(&setInterval, "interval", 30, "Auto-save interval in seconds (30-3600)")

	excludeCmd.AddCommand(excludeAddCmd)
	excludeCmd.AddCommand(excludeRemoveCmd)
	excludeCmd.AddCommand(excludeListCmd)
	excludeCmd.AddCommand(excludeCandidatesCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runExcludeAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	for _, name := range args {
		if err := a.settings.AddExclusion(name); err != nil {
			return fmt.Errorf("exclude %q: %w", name, err)
		}
	}
	return output.Print(cmd.OutOrStdout(), a.settings.Exclusions().Names())
}

func runExcludeRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	for _, name := range args {
		if err := a.settings.RemoveExclusion(name); err != nil {
			return fmt.Errorf("include %q: %w", name, err)
		}
	}
	return output.Print(cmd.OutOrStdout(), a.settings.Exclusions().Names())
}

func runExcludeList(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	return output.Print(cmd.OutOrStdout(), a.settings.Exclusions().Names())
}

func runExcludeCandidates(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	running, err := a.processes.RunningNames()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	excluded := a.settings.Exclusions()
	candidates := make([]string, 0, len(running))
	for _, name := range running {
		if !excluded.Contains(name) {
			candidates = append(candidates, name)
		}
	}
	return output.Print(cmd.OutOrStdout(), candidates)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	return output.Print(cmd.OutOrStdout(), a.settings.Current())
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	flags := cmd.Flags()
	if !flags.Changed("notifications") && !flags.Changed("auto-save") && !flags.Changed("interval") {
		return fmt.Errorf("nothing to change: pass --notifications, --auto-save or --interval")
	}
	if flags.Changed("interval") {
		if err := a.settings.SetInterval(setInterval); err != nil {
			return err
		}
	}
	if flags.Changed("notifications") {
		if err := a.settings.SetNotifications(setNotifications); err != nil {
			return err
		}
	}
	if flags.Changed("auto-save") {
		if err := a.settings.SetAutoSave(setAutoSave); err != nil {
			return err
		}
	}
	return output.Print(cmd.OutOrStdout(), a.settings.Current())
}
