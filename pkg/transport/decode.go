package transport

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/peek/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Decode parses a JSON or YAML document into plain Go values, ready to be
// flattened. JSON is tried first; anything else is read as YAML.
// Oversized or non UTF-8 documents are rejected.
func Decode(data []byte) (any, error) {
	if err := CheckInput(data); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var v any
	jsonErr := json.Unmarshal(trimmed, &v)
	if jsonErr == nil {
		return v, nil
	}
	if err := yaml.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("%w: not json (%v) nor yaml (%v)", domain.ErrInvalidInput, jsonErr, err)
	}
	return v, nil
}
