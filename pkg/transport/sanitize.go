package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/peek/pkg/domain"
)

var (
	// DefaultMaxInputSize bounds the documents accepted by Decode (1 MiB).
	DefaultMaxInputSize = 1 << 20
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "PEEK_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// CheckInput enforces the size limit and UTF-8 validity of a document.
func CheckInput(data []byte) error {
	limit := maxInputSize()
	if len(data) > limit {
		return fmt.Errorf("%w: %w: size=%d limit=%d", domain.ErrInvalidInput, ErrInputTooLarge, len(data), limit)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrInvalidUTF8)
	}
	return nil
}

// ReadInput reads a document from r, stopping one byte past the size limit so
// oversized input is rejected without being buffered whole.
func ReadInput(r io.Reader) ([]byte, error) {
	limit := maxInputSize()
	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > limit {
		return nil, fmt.Errorf("%w: %w: limit=%d", domain.ErrInvalidInput, ErrInputTooLarge, limit)
	}
	return data, nil
}

// SanitizeLabel strips control characters (ANSI escapes, NUL, BEL, newlines)
// from a label so it cannot corrupt a terminal or forge log lines.
func SanitizeLabel(label string) string {
	// Fast path: if no control chars, return as is.
	clean := true
	for _, r := range label {
		if unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return label
	}

	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
