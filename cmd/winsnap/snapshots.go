package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
	"github.com/eliteGoblin/focusd/winsnap/internal/output"
	"github.com/eliteGoblin/focusd/winsnap/internal/usecase"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Capture the current desktop into a new snapshot",
	Long: `Captures every visible, titled top-level window except those owned by
excluded processes, and saves them as Workspace_<YYYYMMDD_HHMMSS>.`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the windows stored in a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var restoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Relaunch missing programs and reposition their windows",
	Long: `Restores a snapshot window by window. Programs that are not running are
started from their recorded executable; each window is then looked up by
exact title and moved back to its recorded placement. One failing window
never stops the rest; the report lists the outcome of every window.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

var deleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Delete a snapshot",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var (
	searchText string
	dateRange  string
)

func init() {
	listCmd.Flags().StringVar(&searchText, "search", "", "Only snapshots whose name or window titles contain this text")
	listCmd.Flags().StringVar(&dateRange, "range", "all", "Only snapshots saved in this range (all, today, 7d, 30d)")
}

func runSave(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	coord, err := a.coordinator(nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	snap, err := coord.Capture(ctx)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), output.SaveResult{
		Name:        snap.Name,
		WindowCount: snap.WindowCount,
		Path:        filepath.Join(a.cfg.WorkspacesDir(), snap.Name+".json"),
	})
}

func runList(cmd *cobra.Command, args []string) error {
	r, err := usecase.ParseDateRange(dateRange)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	snaps := a.workspaces.List(usecase.Filter{Text: searchText, Range: r})
	return output.Print(cmd.OutOrStdout(), output.Summarize(snaps))
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	snap, err := a.workspaces.Get(args[0])
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), output.Detail(snap))
}

func runRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	// Fail fast on an unknown name before touching the desktop
	if _, err := a.workspaces.Get(args[0]); err != nil {
		return err
	}

	var history domain.RestoreHistory
	if h := a.openHistory(); h != nil {
		defer h.Close()
		history = h
	}

	coord, err := a.coordinator(history)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := coord.Restore(ctx, args[0])
	if err != nil {
		return err
	}
	if err := output.Print(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("restore interrupted: %w", ctx.Err())
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.workspaces.Get(args[0]); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := a.deleteCoordinator().Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", args[0])
	return nil
}
