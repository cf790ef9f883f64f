package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInput(bytes.Repeat([]byte("a"), tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckInput_InvalidUTF8(t *testing.T) {
	err := CheckInput([]byte{'"', 0xff, 0xfe, '"'})
	assert.ErrorIs(t, err, ErrInvalidUTF8)

	_, err = Decode([]byte{'"', 0xff, '"'})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := Decode([]byte("12345678901"))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	v, err := Decode([]byte("12345"))
	require.NoError(t, err)
	assert.Equal(t, 12345.0, v)
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestReadInput_StopsAtLimit(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "8")

	src := &countingReader{r: strings.NewReader(strings.Repeat("a", 1<<20))}
	_, err := ReadInput(src)
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.LessOrEqual(t, src.n, 9)

	data, err := ReadInput(strings.NewReader("12345678"))
	require.NoError(t, err)
	assert.Equal(t, "12345678", string(data))
}

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Newline", "fake\nline", "fakeline"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLabel(tt.input))
		})
	}
}

func TestConsole_SanitizesLabel(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, WithProfile(termenv.Ascii))

	require.NoError(t, c.Emit(context.Background(), "\x1b[2Jwipe", 1))
	assert.False(t, strings.Contains(buf.String(), "\x1b"))
	assert.Equal(t, "[2Jwipe:\n1\n", buf.String())
}
