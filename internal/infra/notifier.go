package infra

import (
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// LogNotifier implements domain.Notifier by logging. It stays silent while
// enabled reports false.
type LogNotifier struct {
	enabled func() bool
	logger  *zap.Logger
}

// NewLogNotifier creates a notifier gated by enabled.
func NewLogNotifier(enabled func() bool, logger *zap.Logger) *LogNotifier {
	return &LogNotifier{enabled: enabled, logger: logger}
}

// Notify emits a notification entry.
func (n *LogNotifier) Notify(title, message string) {
	if n.enabled != nil && !n.enabled() {
		return
	}
	n.logger.Info("notification",
		zap.String("title", title),
		zap.String("message", message))
}

// Ensure LogNotifier implements domain.Notifier.
var _ domain.Notifier = (*LogNotifier)(nil)
