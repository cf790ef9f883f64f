package transport

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aretw0/peek/pkg/domain"
)

// ErrNoCollector is returned by Request when the context carries no Collector.
var ErrNoCollector = errors.New("no script collector in context")

// Collector buffers rendered script tags for one HTTP response.
// Safe for concurrent use.
type Collector struct {
	style   string
	scripts []string
	mu      sync.Mutex
}

// NewCollector creates an empty collector using the given label style
// (DefaultLabelStyle when empty).
func NewCollector(style string) *Collector {
	if style == "" {
		style = DefaultLabelStyle
	}
	return &Collector{style: style}
}

// Emit renders the script tag and buffers it.
func (c *Collector) Emit(ctx context.Context, label string, node domain.Node) error {
	tag, err := RenderScript(label, node, c.style)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.scripts = append(c.scripts, tag)
	c.mu.Unlock()
	return nil
}

// Len returns the number of buffered scripts.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scripts)
}

// Drain returns the buffered scripts concatenated, and empties the buffer.
func (c *Collector) Drain() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := strings.Join(c.scripts, "")
	c.scripts = nil
	return out
}

type collectorKey struct{}

// WithCollector attaches c to ctx.
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, collectorKey{}, c)
}

// CollectorFrom returns the collector attached to ctx, if any.
func CollectorFrom(ctx context.Context) (*Collector, bool) {
	c, ok := ctx.Value(collectorKey{}).(*Collector)
	return c, ok && c != nil
}

// Request is a transport that forwards to the Collector found in the context.
type Request struct{}

// Emit forwards to the request's collector.
func (Request) Emit(ctx context.Context, label string, node domain.Node) error {
	c, ok := CollectorFrom(ctx)
	if !ok {
		return ErrNoCollector
	}
	return c.Emit(ctx, label, node)
}
