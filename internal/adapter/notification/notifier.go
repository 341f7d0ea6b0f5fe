// Package notification provides the local notification surface. The server
// rendition has no desktop surface of its own, so LogNotifier writes
// notifications to the log; Unsupported models an environment without any
// surface at all.
package notification

import (
	"sync"

	"go.uber.org/zap"

	"github.com/subash43e/taskapp/internal/core/ports"
)

type LogNotifier struct {
	mu      sync.Mutex
	granted bool
	logger  *zap.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.L()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Supported() bool { return true }

func (n *LogNotifier) RequestPermission() bool {
	n.mu.Lock()
	n.granted = true
	n.mu.Unlock()
	return true
}

// SetPermission forces the permission state, driven by the persisted
// browserNotifications setting.
func (n *LogNotifier) SetPermission(granted bool) {
	n.mu.Lock()
	n.granted = granted
	n.mu.Unlock()
}

func (n *LogNotifier) PermissionGranted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.granted
}

func (n *LogNotifier) Show(title, body, tag string) {
	n.logger.Info("local notification",
		zap.String("title", title), zap.String("body", body), zap.String("tag", tag))
}

// Unsupported is a notification surface that is absent entirely.
type Unsupported struct{}

var _ ports.Notifier = Unsupported{}

func (Unsupported) Supported() bool         { return false }
func (Unsupported) RequestPermission() bool { return false }
func (Unsupported) PermissionGranted() bool { return false }
func (Unsupported) Show(_, _, _ string)     {}
