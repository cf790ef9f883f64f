package flatten

import (
	"testing"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	f := New()
	assert.Equal(t, domain.DefaultMaxDepth, f.MaxDepth())
	assert.Equal(t, domain.DefaultMaxItems, f.MaxItems())
	assert.Equal(t, SeenOnce, f.Policy())
	assert.True(t, f.closerIsResource)
}

func TestOptions_IgnoreInvalidBounds(t *testing.T) {
	f := New(WithMaxDepth(-1), WithMaxItems(0), WithLogger(nil))
	assert.Equal(t, domain.DefaultMaxDepth, f.MaxDepth())
	assert.Equal(t, domain.DefaultMaxItems, f.MaxItems())
	assert.NotNil(t, f.logger)
}

func TestParseCyclePolicy(t *testing.T) {
	tests := []struct {
		name     string
		expected CyclePolicy
		ok       bool
	}{
		{"", SeenOnce, true},
		{"seen_once", SeenOnce, true},
		{"ancestors_only", AncestorsOnly, true},
		{"bogus", SeenOnce, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := ParseCyclePolicy(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, p)
			if ok && tt.name != "" {
				assert.Equal(t, tt.name, p.String())
			}
		})
	}
}
