package gate

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
)

// Flag is an in-process boolean gate. The zero value is disabled.
type Flag struct {
	enabled atomic.Bool
}

// NewFlag creates a Flag with the given initial value.
func NewFlag(enabled bool) *Flag {
	f := &Flag{}
	f.enabled.Store(enabled)
	return f
}

// Set changes the flag.
func (f *Flag) Set(enabled bool) {
	f.enabled.Store(enabled)
}

// ShouldLog reports the flag.
func (f *Flag) ShouldLog(ctx context.Context) bool {
	return f.enabled.Load()
}

// Always returns a gate that is always open.
func Always() ports.Gate {
	return ports.GateFunc(func(context.Context) bool { return true })
}

// Never returns a gate that is always closed.
func Never() ports.Gate {
	return ports.GateFunc(func(context.Context) bool { return false })
}

// Setting reads the persisted flag from a store on every call.
// Store errors close the gate.
type Setting struct {
	store  ports.SettingsStore
	logger *slog.Logger
}

// NewSetting creates a gate backed by store. A nil logger discards store errors.
func NewSetting(store ports.SettingsStore, logger *slog.Logger) *Setting {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Setting{store: store, logger: logger}
}

// ShouldLog reports the persisted flag.
func (s *Setting) ShouldLog(ctx context.Context) bool {
	enabled, err := s.store.Enabled(ctx)
	if err != nil {
		s.logger.Debug("settings lookup failed, logging disabled", "error", err)
		return false
	}
	return enabled
}

// Env returns a gate that reads PEEK_ENABLED on every call.
func Env() ports.Gate {
	return EnvVar(domain.EnvEnabled)
}

// EnvVar returns a gate that reads the named environment variable on every call.
// "1", "true", "yes" and "on" open the gate.
func EnvVar(name string) ports.Gate {
	return ports.GateFunc(func(context.Context) bool {
		return truthy(os.Getenv(name))
	})
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// All opens only when every gate opens. Gates are consulted in order and the
// first closed gate short-circuits. All() with no gates is open.
func All(gates ...ports.Gate) ports.Gate {
	return ports.GateFunc(func(ctx context.Context) bool {
		for _, g := range gates {
			if !g.ShouldLog(ctx) {
				return false
			}
		}
		return true
	})
}

// Any opens when at least one gate opens. Any() with no gates is closed.
func Any(gates ...ports.Gate) ports.Gate {
	return ports.GateFunc(func(ctx context.Context) bool {
		for _, g := range gates {
			if g.ShouldLog(ctx) {
				return true
			}
		}
		return false
	})
}
