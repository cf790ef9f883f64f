package domain

import (
	"context"
	"time"
)

// Outcome classifies what happened to a single log call.
type Outcome string

const (
	OutcomeEmitted        Outcome = "emitted"
	OutcomeSkipped        Outcome = "skipped"
	OutcomeTransportError Outcome = "transport_error"
)

// LogEvent describes one instrumentation call.
type LogEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Label     string        `json:"label"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration,omitempty"` // flattening time, zero when skipped
	Node      Node          `json:"-"`
	Err       error         `json:"-"`
}

// LogHooks defines callbacks for logger observability.
// Nil callbacks are ignored.
type LogHooks struct {
	OnSkip    func(context.Context, *LogEvent)
	OnFlatten func(context.Context, *LogEvent)
	OnEmit    func(context.Context, *LogEvent)
}

// Combine returns hooks calling h first and then each of others.
func (h LogHooks) Combine(others ...LogHooks) LogHooks {
	all := append([]LogHooks{h}, others...)
	fan := func(pick func(LogHooks) func(context.Context, *LogEvent)) func(context.Context, *LogEvent) {
		return func(ctx context.Context, ev *LogEvent) {
			for _, hk := range all {
				if fn := pick(hk); fn != nil {
					fn(ctx, ev)
				}
			}
		}
	}
	return LogHooks{
		OnSkip:    fan(func(hk LogHooks) func(context.Context, *LogEvent) { return hk.OnSkip }),
		OnFlatten: fan(func(hk LogHooks) func(context.Context, *LogEvent) { return hk.OnFlatten }),
		OnEmit:    fan(func(hk LogHooks) func(context.Context, *LogEvent) { return hk.OnEmit }),
	}
}
