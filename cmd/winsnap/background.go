package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/daemon"
	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
	"github.com/eliteGoblin/focusd/winsnap/internal/infra"
	"github.com/eliteGoblin/focusd/winsnap/internal/output"
)

var autosaveCmd = &cobra.Command{
	Use:   "autosave",
	Short: "Run the periodic auto-save daemon",
}

var autosaveRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-save loop in the foreground",
	Long: `Captures a snapshot every save_interval seconds while auto_save_enabled
is on. Changes to settings.json are picked up without a restart.`,
	Args: cobra.NoArgs,
	RunE: runAutosave,
}

var autosaveStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the auto-save daemon in the background",
	Args:  cobra.NoArgs,
	RunE:  runAutosaveStart,
}

var autosaveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the auto-save daemon is running",
	Args:  cobra.NoArgs,
	RunE:  runAutosaveStatus,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent restore runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")

	autosaveCmd.AddCommand(autosaveRunCmd)
	autosaveCmd.AddCommand(autosaveStartCmd)
	autosaveCmd.AddCommand(autosaveStatusCmd)
}

func runAutosave(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	// A second daemon would double every capture.
	lockCtx, lockCancel := context.WithTimeout(ctx, 500*time.Millisecond)
	release, err := infra.NewNamedLock(a.cfg.DataDir, infra.AutoSaveLockName).Acquire(lockCtx)
	lockCancel()
	if err != nil {
		return fmt.Errorf("auto-save daemon already running: %w", err)
	}
	defer release()

	coord, err := a.coordinator(nil)
	if err != nil {
		return err
	}

	watcher, err := infra.NewSettingsWatcher(a.settingsStore.Path(), a.logger)
	if err != nil {
		return err
	}
	go watcher.Run(ctx)

	registry := infra.NewFileRegistry(a.cfg.DataDir, a.processes)
	saver := daemon.NewAutoSaver(coord, a.settings, watcher.Changes(), a.logger).
		WithRegistry(registry, Version)
	if err := saver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runAutosaveStart(cmd *cobra.Command, args []string) error {
	pid, err := daemon.StartDetached()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Auto-save daemon started (pid %d)\n", pid)
	return nil
}

func runAutosaveStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := infra.NewFileRegistry(a.cfg.DataDir, a.processes).Status()
	if err != nil {
		return fmt.Errorf("failed to read auto-save status: %w", err)
	}
	if status == nil {
		status = &domain.DaemonStatus{}
	}
	return output.Print(cmd.OutOrStdout(), status)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	h, err := infra.OpenHistory(a.cfg.DataDir, infra.NewFileKeyProvider(a.cfg.DataDir))
	if err != nil {
		return fmt.Errorf("failed to open restore history: %w", err)
	}
	defer h.Close()

	entries, err := h.Recent(historyLimit)
	if err != nil {
		a.logger.Debug("history query failed", zap.String("path", h.Path()), zap.Error(err))
		return fmt.Errorf("failed to read restore history: %w", err)
	}
	return output.Print(cmd.OutOrStdout(), entries)
}

func runVersion(cmd *cobra.Command, args []string) error {
	return output.Print(cmd.OutOrStdout(), output.VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	})
}
