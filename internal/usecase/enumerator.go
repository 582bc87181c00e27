// Package usecase contains application business logic.
package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// DefaultSelfTitle is the title of the manager's own window.
const DefaultSelfTitle = "Workspace Manager"

// WindowEnumerator composes WindowRecords for visible top-level windows.
type WindowEnumerator struct {
	desktop   domain.Desktop
	probe     domain.ProcessProbe
	selfTitle string
	logger    *zap.Logger
}

// NewWindowEnumerator creates an enumerator that never captures windows titled selfTitle.
func NewWindowEnumerator(desktop domain.Desktop, probe domain.ProcessProbe, selfTitle string, logger *zap.Logger) *WindowEnumerator {
	if selfTitle == "" {
		selfTitle = DefaultSelfTitle
	}
	return &WindowEnumerator{
		desktop:   desktop,
		probe:     probe,
		selfTitle: selfTitle,
		logger:    logger,
	}
}

// Enumerate walks visible windows in desktop order. Windows owned by an
// excluded process are dropped silently; per-window failures are logged
// and skipped. Only a failed desktop walk is returned as an error.
func (e *WindowEnumerator) Enumerate(exclusions *domain.ExclusionSet) ([]domain.WindowRecord, error) {
	windows, err := e.desktop.VisibleWindows()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows: %w", err)
	}

	records := make([]domain.WindowRecord, 0, len(windows))
	for _, w := range windows {
		if w.Title == "" || w.Title == e.selfTitle {
			continue
		}

		info, err := e.probe.Describe(w.Handle)
		if err != nil {
			e.logger.Warn("skipping window, process unavailable",
				zap.String("title", w.Title),
				zap.Error(err))
			continue
		}

		if exclusions.Contains(info.Name) {
			continue
		}

		placement, err := e.desktop.Placement(w.Handle)
		if err != nil {
			e.logger.Warn("skipping window, placement unavailable",
				zap.String("title", w.Title),
				zap.Error(err))
			continue
		}
		rect, err := e.desktop.Bounds(w.Handle)
		if err != nil {
			// Window closed mid-walk; the restored rect is the closest substitute.
			rect = placement.NormalPosition
		}

		records = append(records, domain.WindowRecord{
			Title:          w.Title,
			ProcessName:    info.Name,
			ExecutablePath: info.ExecutablePath,
			Placement:      placement,
			Rect:           rect,
			PID:            info.PID,
			CommandLine:    info.CommandLine,
			CreationTime:   info.CreationTime,
			Status:         info.Status,
			WindowState:    placement.StateLabel(),
		})
	}

	return records, nil
}
