// Package notify carries user-facing toast notifications across the
// client-side components.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Toast variants
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Toast is one user-visible notification. Every mutation attempt ends in
// exactly one toast.
type Toast struct {
	Title       string
	Description string
	Variant     string
}

// Notifier delivers toasts to the user
type Notifier interface {
	Notify(toast Toast)
}

// LogNotifier renders toasts through the structured logger
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a logger-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(toast Toast) {
	fields := []zap.Field{
		zap.String("title", toast.Title),
		zap.String("description", toast.Description),
		zap.String("variant", toast.Variant),
	}
	if toast.Variant == VariantDestructive {
		n.logger.Warn("toast", fields...)
		return
	}
	n.logger.Info("toast", fields...)
}

// Recorder captures toasts for inspection in tests
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

// Toasts returns a copy of everything recorded so far
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
