package ports

import "context"

// Gate decides whether a log call should do any work.
// It is consulted once per call, before flattening starts.
type Gate interface {
	ShouldLog(ctx context.Context) bool
}

// GateFunc adapts a plain function to the Gate interface.
type GateFunc func(ctx context.Context) bool

// ShouldLog calls f(ctx).
func (f GateFunc) ShouldLog(ctx context.Context) bool {
	return f(ctx)
}
