package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/config"
	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
	"github.com/eliteGoblin/focusd/winsnap/internal/infra"
	"github.com/eliteGoblin/focusd/winsnap/internal/platform"
	"github.com/eliteGoblin/focusd/winsnap/internal/usecase"
)

// app holds the components shared by every command.
type app struct {
	cfg           *config.Config
	logger        *zap.Logger
	settingsStore *infra.FileSettingsStore
	settings      *usecase.SettingsService
	workspaces    *usecase.Workspaces
	processes     domain.ProcessManager
}

// newApp loads configuration, settings and the snapshot index.
func newApp(daemonMode bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if daemonMode {
		logger = createDaemonLogger(cfg)
	} else {
		logger = createLogger(cfg)
	}

	settingsStore := infra.NewFileSettingsStore(cfg.DataDir, logger)
	settings := usecase.NewSettingsService(settingsStore)
	if err := settings.Load(); err != nil {
		logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}

	store := infra.NewFileSnapshotStore(cfg.WorkspacesDir(), logger)
	workspaces := usecase.NewWorkspaces(store, logger)
	if err := workspaces.Load(); err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	return &app{
		cfg:           cfg,
		logger:        logger,
		settingsStore: settingsStore,
		settings:      settings,
		workspaces:    workspaces,
		processes:     infra.NewProcessManager(),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// coordinator wires the capture and restore pipeline on top of the
// platform desktop. history may be nil.
func (a *app) coordinator(history domain.RestoreHistory) (*usecase.Coordinator, error) {
	desktop, err := platform.NewDesktop()
	if err != nil {
		return nil, err
	}
	return a.coordinatorFor(desktop, history), nil
}

func (a *app) coordinatorFor(desktop domain.Desktop, history domain.RestoreHistory) *usecase.Coordinator {
	probe := infra.NewProcessProbe(desktop)
	enumerator := usecase.NewWindowEnumerator(desktop, probe, a.cfg.SelfTitle, a.logger)
	capture := usecase.NewCaptureService(enumerator, a.workspaces, a.settings, a.logger)

	restoreConfig := usecase.RestoreConfig{
		SettleDelay: a.cfg.RestoreConfig.SettleDelay,
		RetryDelay:  a.cfg.RestoreConfig.RetryDelay,
		MaxAttempts: a.cfg.RestoreConfig.MaxAttempts,
	}
	restore := usecase.NewRestoreEngine(restoreConfig, desktop, a.processes, infra.NewLauncher(), nil, a.logger)

	deps := usecase.CoordinatorDeps{
		Capture:    capture,
		Restore:    restore,
		Workspaces: a.workspaces,
		Lock:       infra.NewFileOperationLock(a.cfg.DataDir),
		History:    history,
		Notifier:   a.notifier(),
	}
	return usecase.NewCoordinator(deps, a.logger)
}

// deleteCoordinator needs no desktop; it only removes snapshot files.
func (a *app) deleteCoordinator() *usecase.Coordinator {
	return usecase.NewCoordinator(usecase.CoordinatorDeps{
		Workspaces: a.workspaces,
		Lock:       infra.NewFileOperationLock(a.cfg.DataDir),
		Notifier:   a.notifier(),
	}, a.logger)
}

func (a *app) notifier() domain.Notifier {
	return infra.NewLogNotifier(func() bool {
		return a.settings.Current().ShowNotifications
	}, a.logger)
}

// openHistory opens the restore history; failures are logged and yield nil.
func (a *app) openHistory() *infra.EncryptedHistory {
	h, err := infra.OpenHistory(a.cfg.DataDir, infra.NewFileKeyProvider(a.cfg.DataDir))
	if err != nil {
		a.logger.Warn("restore history unavailable", zap.Error(err))
		return nil
	}
	return h
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
