package transport

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/muesli/termenv"
)

// Console prints a styled label followed by the encoded tree, for terminals.
// Safe for concurrent use.
type Console struct {
	out    *termenv.Output
	format Format
	mu     sync.Mutex
}

// ConsoleOption configures a Console transport.
type ConsoleOption func(*consoleConfig)

type consoleConfig struct {
	format  Format
	profile *termenv.Profile
}

// WithFormat selects the notation (JSON by default).
func WithFormat(format Format) ConsoleOption {
	return func(c *consoleConfig) {
		c.format = format
	}
}

// WithProfile forces a colour profile instead of detecting it from the writer.
func WithProfile(profile termenv.Profile) ConsoleOption {
	return func(c *consoleConfig) {
		c.profile = &profile
	}
}

// NewConsole creates a console transport writing to w.
func NewConsole(w io.Writer, opts ...ConsoleOption) *Console {
	cfg := consoleConfig{format: FormatJSON}
	for _, opt := range opts {
		opt(&cfg)
	}

	var outOpts []termenv.OutputOption
	if cfg.profile != nil {
		outOpts = append(outOpts, termenv.WithProfile(*cfg.profile))
	}
	return &Console{
		out:    termenv.NewOutput(w, outOpts...),
		format: cfg.format,
	}
}

// Emit writes "<label>:" in the browser console colours, then the tree.
func (c *Console) Emit(ctx context.Context, label string, node domain.Node) error {
	payload, err := Encode(c.format, node)
	if err != nil {
		return err
	}

	styled := c.out.String(SanitizeLabel(label) + ":").
		Foreground(c.out.Color("#ffffff")).
		Background(c.out.Color("#0073aa")).
		Bold()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "%s\n%s", styled, payload); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	if len(payload) == 0 || payload[len(payload)-1] != '\n' {
		if _, err := io.WriteString(c.out, "\n"); err != nil {
			return fmt.Errorf("failed to write to console: %w", err)
		}
	}
	return nil
}
