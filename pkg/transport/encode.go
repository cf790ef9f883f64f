package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/peek/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format is a textual notation for flattened trees.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a name to a Format. The empty string means JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownFormat, name)
}

// Encode renders node in the given notation.
// JSON output is indented and escapes <, > and & so it can sit inside a script tag.
func Encode(format Format, node domain.Node) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(node, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
}

// EncodeCompact renders node as single-line JSON.
func EncodeCompact(node domain.Node) ([]byte, error) {
	return json.Marshal(node)
}
