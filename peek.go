package peek

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/aretw0/peek/pkg/transport"
)

// Logger ties a Gate, a Flattener and a Transport together.
// It is immutable after New and safe for concurrent use.
type Logger struct {
	flattener *flatten.Flattener
	gate      ports.Gate
	transport ports.Transport
	hooks     Hooks
	logger    *slog.Logger
}

// New creates a Logger. Without options it is gated by PEEK_ENABLED and
// prints to stderr.
func New(opts ...Option) *Logger {
	l := &Logger{
		flattener: flatten.New(),
		gate:      gate.Env(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.transport == nil {
		l.transport = transport.NewConsole(os.Stderr)
	}
	return l
}

// Enabled reports whether the gate is currently open for ctx.
func (l *Logger) Enabled(ctx context.Context) bool {
	return l.gate.ShouldLog(ctx)
}

// MaybeConsoleLog flattens value and sends it to the transport under label,
// but only when the gate is open. It never fails and never panics on the
// caller's behalf: transport errors are logged and swallowed.
func (l *Logger) MaybeConsoleLog(ctx context.Context, label string, value any) {
	if !l.gate.ShouldLog(ctx) {
		if l.hooks.OnSkip != nil {
			l.hooks.OnSkip(ctx, &domain.LogEvent{
				Timestamp: time.Now(),
				Label:     label,
				Outcome:   domain.OutcomeSkipped,
			})
		}
		return
	}

	start := time.Now()
	node := l.flattener.Flatten(value)
	ev := &domain.LogEvent{
		Timestamp: start,
		Label:     label,
		Outcome:   domain.OutcomeEmitted,
		Duration:  time.Since(start),
		Node:      node,
	}
	if l.hooks.OnFlatten != nil {
		l.hooks.OnFlatten(ctx, ev)
	}

	if err := l.transport.Emit(ctx, label, node); err != nil {
		l.logger.Warn("debug value not delivered", "label", label, "error", err)
		ev.Outcome = domain.OutcomeTransportError
		ev.Err = err
	}
	if l.hooks.OnEmit != nil {
		l.hooks.OnEmit(ctx, ev)
	}
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New())
}

// Default returns the package-level Logger.
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the package-level Logger. A nil logger is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// MaybeConsoleLog calls Default().MaybeConsoleLog.
func MaybeConsoleLog(ctx context.Context, label string, value any) {
	Default().MaybeConsoleLog(ctx, label, value)
}
