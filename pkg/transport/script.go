package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/peek/pkg/domain"
)

// DefaultLabelStyle is the CSS applied to the console label.
const DefaultLabelStyle = "color: white; background: #0073aa; padding: 2px 4px; border-radius: 4px; font-weight: bold;"

// DataAttribute marks the emitted script tags so they can be found in a page.
const DataAttribute = "data-peek-log"

// RenderScript builds the <script> tag that logs node to the browser console.
// The label is escaped for the attribute and for the JavaScript string; the
// payload is JSON with <, > and & escaped, so neither can close the tag.
func RenderScript(label string, node domain.Node, style string) (string, error) {
	payload, err := Encode(FormatJSON, node)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	jsLabel, err := json.Marshal("%c" + label + ":")
	if err != nil {
		return "", fmt.Errorf("failed to encode label: %w", err)
	}
	jsStyle, err := json.Marshal(style)
	if err != nil {
		return "", fmt.Errorf("failed to encode style: %w", err)
	}

	var b strings.Builder
	b.Grow(len(payload) + len(label)*2 + 96)
	b.WriteString("<script ")
	b.WriteString(DataAttribute)
	b.WriteString("='")
	b.WriteString(html.EscapeString(label))
	b.WriteString("'>console.log(")
	b.Write(jsLabel)
	b.WriteString(", ")
	b.Write(jsStyle)
	b.WriteString(", ")
	b.Write(payload)
	b.WriteString(");</script>\n")
	return b.String(), nil
}

// Script writes rendered script tags to an io.Writer.
// Safe for concurrent use.
type Script struct {
	w     io.Writer
	style string
	mu    sync.Mutex
}

// ScriptOption configures a Script transport.
type ScriptOption func(*Script)

// WithStyle overrides the CSS applied to the label.
func WithStyle(style string) ScriptOption {
	return func(s *Script) {
		s.style = style
	}
}

// NewScript creates a transport that writes script tags to w.
func NewScript(w io.Writer, opts ...ScriptOption) *Script {
	s := &Script{w: w, style: DefaultLabelStyle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Emit renders and writes one script tag.
func (s *Script) Emit(ctx context.Context, label string, node domain.Node) error {
	tag, err := RenderScript(label, node, s.style)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, tag); err != nil {
		return fmt.Errorf("failed to write script: %w", err)
	}
	return nil
}
