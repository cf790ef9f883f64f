package peek

import (
	"log/slog"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/ports"
)

// Hooks are the observability callbacks invoked by a Logger.
type Hooks = domain.LogHooks

// Option defines a functional option for configuring the Logger.
type Option func(*Logger)

// WithGate sets the enablement gate. The default reads PEEK_ENABLED.
func WithGate(g ports.Gate) Option {
	return func(l *Logger) {
		if g != nil {
			l.gate = g
		}
	}
}

// WithTransport sets where flattened values are sent. The default prints to stderr.
func WithTransport(t ports.Transport) Option {
	return func(l *Logger) {
		if t != nil {
			l.transport = t
		}
	}
}

// WithFlattener replaces the default flattener (depth 10, 100 items, SeenOnce).
func WithFlattener(f *flatten.Flattener) Option {
	return func(l *Logger) {
		if f != nil {
			l.flattener = f
		}
	}
}

// WithLogger sets the structured logger used to report transport failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithHooks registers observability hooks. Repeated calls accumulate.
func WithHooks(hooks Hooks) Option {
	return func(l *Logger) {
		l.hooks = l.hooks.Combine(hooks)
	}
}
