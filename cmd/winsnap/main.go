// Package main is the CLI entry point for winsnap.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/winsnap/internal/output"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var formatFlag string

var rootCmd = &cobra.Command{
	Use:   "winsnap",
	Short: "Workspace manager - saves and restores window layouts",
	Long: `winsnap captures the visible top-level windows (title, owning process,
executable and placement) into named snapshots, and restores them later by
relaunching missing programs and moving their windows back into place.

Snapshots are stored as JSON files under $WINSNAP_DATA_DIR/workspaces.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		f, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", string(output.FormatYAML), "Output format (yaml or json)")
	rootCmd.PersistentFlags().BoolVar(&output.PrettyOutput, "pretty", false, "Indent JSON output")

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(autosaveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
