//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/daemon"
	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
	"github.com/eliteGoblin/focusd/winsnap/internal/infra"
	"github.com/eliteGoblin/focusd/winsnap/internal/usecase"
	"github.com/eliteGoblin/focusd/winsnap/test/fixtures"
)

func placement(state domain.ShowState, l, t, r, b int) domain.WindowPlacement {
	return domain.WindowPlacement{
		ShowState:      state,
		MinPosition:    domain.Point{X: -1, Y: -1},
		MaxPosition:    domain.Point{X: -1, Y: -1},
		NormalPosition: domain.Rect{Left: l, Top: t, Right: r, Bottom: b},
	}
}

// stack is the full capture/restore pipeline over real file-backed infra
// and a fake desktop whose windows are owned by this test process.
type stack struct {
	dataDir    string
	desktop    *fixtures.FakeDesktop
	launcher   *fixtures.FakeLauncher
	settings   *usecase.SettingsService
	workspaces *usecase.Workspaces
	history    *infra.EncryptedHistory
	coord      *usecase.Coordinator
	selfName   string
}

func newStack(dataDir string) *stack {
	logger := zap.NewNop()
	s := &stack{dataDir: dataDir, desktop: fixtures.NewFakeDesktop()}
	s.launcher = &fixtures.FakeLauncher{Desktop: s.desktop, Windows: map[string]fixtures.FakeWindow{}}

	pm := infra.NewProcessManager()
	name, err := pm.NameOf(os.Getpid())
	Expect(err).NotTo(HaveOccurred())
	s.selfName = name

	s.settings = usecase.NewSettingsService(infra.NewFileSettingsStore(dataDir, logger))
	Expect(s.settings.Load()).To(Succeed())

	s.workspaces = usecase.NewWorkspaces(infra.NewFileSnapshotStore(filepath.Join(dataDir, "workspaces"), logger), logger)
	Expect(s.workspaces.Load()).To(Succeed())

	s.history, err = infra.OpenHistory(dataDir, infra.NewFileKeyProvider(dataDir))
	Expect(err).NotTo(HaveOccurred())

	enumerator := usecase.NewWindowEnumerator(s.desktop, infra.NewProcessProbe(s.desktop), "", logger)
	capture := usecase.NewCaptureService(enumerator, s.workspaces, s.settings, logger)
	restore := usecase.NewRestoreEngine(usecase.RestoreConfig{
		SettleDelay: 10 * time.Millisecond,
		RetryDelay:  10 * time.Millisecond,
		MaxAttempts: 3,
	}, s.desktop, pm, s.launcher, nil, logger)

	s.coord = usecase.NewCoordinator(usecase.CoordinatorDeps{
		Capture:    capture,
		Restore:    restore,
		Workspaces: s.workspaces,
		Lock:       infra.NewFileOperationLock(dataDir),
		History:    s.history,
	}, logger)
	return s
}

func (s *stack) close() {
	Expect(s.history.Close()).To(Succeed())
}

var _ = Describe("Workspace capture and restore", func() {
	var (
		ctx     context.Context
		dataDir string
		s       *stack
	)

	BeforeEach(func() {
		ctx = context.Background()
		dataDir = GinkgoT().TempDir()
		s = newStack(dataDir)
		DeferCleanup(s.close)
	})

	Describe("capturing the desktop", func() {
		BeforeEach(func() {
			s.desktop.Open(fixtures.FakeWindow{Title: "report.docx - Word", PID: os.Getpid(), Placement: placement(domain.ShowMaximized, 0, 0, 1200, 800)})
			s.desktop.Open(fixtures.FakeWindow{Title: "", PID: os.Getpid()})
			s.desktop.Open(fixtures.FakeWindow{Title: usecase.DefaultSelfTitle, PID: os.Getpid()})
			s.desktop.Open(fixtures.FakeWindow{Title: "orphan", PID: 0})
		})

		It("records titled windows with their real owning process", func() {
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(snap.Windows).To(HaveLen(1))
			w := snap.Windows[0]
			Expect(w.Title).To(Equal("report.docx - Word"))
			Expect(w.ProcessName).To(Equal(s.selfName))
			Expect(w.PID).To(Equal(os.Getpid()))
			Expect(w.ExecutablePath).NotTo(BeEmpty())
			Expect(w.WindowState).To(Equal("Maximized"))
		})

		It("writes a snapshot file that a fresh process can load", func() {
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(dataDir, "workspaces", snap.Name+".json")).To(BeARegularFile())

			reloaded := newStack(dataDir)
			defer reloaded.close()
			got, err := reloaded.workspaces.Get(snap.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(*snap))
		})

		It("never overwrites a snapshot taken in the same second", func() {
			first, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())
			second, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Name).NotTo(Equal(first.Name))
			Expect(s.workspaces.Len()).To(Equal(2))
		})

		It("drops windows of excluded processes", func() {
			Expect(s.settings.AddExclusion(s.selfName)).To(Succeed())

			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.WindowCount).To(Equal(0))

			persisted := newStack(dataDir)
			defer persisted.close()
			Expect(persisted.settings.Current().ExcludedProcesses).To(ConsistOf(s.selfName))
		})
	})

	Describe("restoring a snapshot", func() {
		It("moves running windows back into place", func() {
			h := s.desktop.Open(fixtures.FakeWindow{Title: "notes.txt - Notepad", PID: os.Getpid(), Placement: placement(domain.ShowNormal, 10, 10, 400, 300)})
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())

			s.desktop.Move(h, placement(domain.ShowMinimized, 900, 900, 1000, 1000))

			report, err := s.coord.Restore(ctx, snap.Name)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Entries).To(HaveLen(1))
			Expect(report.Entries[0].Outcome).To(Equal(domain.OutcomeRestored))
			Expect(report.Entries[0].Launched).To(BeFalse())

			p, ok := s.desktop.PlacementOf("notes.txt - Notepad")
			Expect(ok).To(BeTrue())
			Expect(p).To(Equal(placement(domain.ShowNormal, 10, 10, 400, 300)))
		})

		It("launches missing programs and isolates failures", func() {
			s.launcher.Windows["/opt/ghost/editor"] = fixtures.FakeWindow{Title: "Ghost Editor", PID: os.Getpid()}
			snap := domain.NewSnapshot("Workspace_manual", time.Now(), []domain.WindowRecord{
				{Title: "Ghost Editor", ProcessName: "ghost-editor-not-running", ExecutablePath: "/opt/ghost/editor", Placement: placement(domain.ShowMaximized, 0, 0, 50, 50)},
				{Title: "Broken", ProcessName: "broken-not-running", ExecutablePath: "/opt/broken/missing", Placement: placement(domain.ShowNormal, 0, 0, 50, 50)},
				{Title: "Never Opens", ProcessName: s.selfName, Placement: placement(domain.ShowNormal, 0, 0, 50, 50)},
			})
			Expect(s.workspaces.Save(snap)).To(Succeed())

			report, err := s.coord.Restore(ctx, snap.Name)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Entries).To(HaveLen(3))
			Expect(report.Entries[0].Outcome).To(Equal(domain.OutcomeRestored))
			Expect(report.Entries[0].Launched).To(BeTrue())
			Expect(report.Entries[1].Outcome).To(Equal(domain.OutcomeProcessLaunchFailed))
			Expect(report.Entries[2].Outcome).To(Equal(domain.OutcomeWindowNotFound))
			Expect(report.Entries[2].Attempts).To(Equal(3))
			Expect(s.launcher.Launched).To(Equal([]string{"/opt/ghost/editor"}))
		})

		It("records every run in the encrypted history", func() {
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = s.coord.Restore(ctx, snap.Name)
			Expect(err).NotTo(HaveOccurred())

			entries, err := s.history.Recent(10)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Snapshot).To(Equal(snap.Name))
		})

		It("rejects unknown snapshots", func() {
			_, err := s.coord.Restore(ctx, "Workspace_nope")
			Expect(err).To(MatchError(domain.ErrSnapshotNotFound))
		})
	})

	Describe("deleting a snapshot", func() {
		It("removes the file and the index entry", func() {
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.coord.Delete(ctx, snap.Name)).To(Succeed())
			Expect(filepath.Join(dataDir, "workspaces", snap.Name+".json")).NotTo(BeAnExistingFile())
			_, err = s.workspaces.Get(snap.Name)
			Expect(err).To(MatchError(domain.ErrSnapshotNotFound))
		})

		It("keeps the index entry when the file is already gone", func() {
			snap, err := s.coord.Capture(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Remove(filepath.Join(dataDir, "workspaces", snap.Name+".json"))).To(Succeed())

			Expect(s.coord.Delete(ctx, snap.Name)).NotTo(Succeed())
			_, err = s.workspaces.Get(snap.Name)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("auto-save", func() {
		It("follows settings.json changes made by another process", func() {
			Expect(s.settings.SetAutoSave(false)).To(Succeed())
			s.desktop.Open(fixtures.FakeWindow{Title: "tracked", PID: os.Getpid()})

			watcher, err := infra.NewSettingsWatcher(filepath.Join(dataDir, infra.SettingsFileName), zap.NewNop())
			Expect(err).NotTo(HaveOccurred())

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go watcher.Run(runCtx)
			saver := daemon.NewAutoSaver(s.coord, s.settings, watcher.Changes(), zap.NewNop()).WithTimeUnit(time.Millisecond)
			go func() { _ = saver.Run(runCtx) }()

			Consistently(s.workspaces.Len, 200*time.Millisecond, 20*time.Millisecond).Should(Equal(0))

			// A separate settings service stands in for the CLI.
			cli := usecase.NewSettingsService(infra.NewFileSettingsStore(dataDir, zap.NewNop()))
			Expect(cli.Load()).To(Succeed())
			Expect(cli.SetAutoSave(true)).To(Succeed())

			Eventually(s.workspaces.Len, 5*time.Second, 20*time.Millisecond).Should(BeNumerically(">=", 1))
		})
	})
})
