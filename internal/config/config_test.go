package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peek.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, flatten.SeenOnce, cfg.CyclePolicy())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
store:
  type: redis
  redis_addr: localhost:6379
  redis_db: 2
  ttl: 90s
flatten:
  max_depth: 4
  max_items: 20
  cycle_policy: ancestors_only
output:
  format: yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis", cfg.Store.Type)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.Store.TTL)
	assert.Equal(t, 4, cfg.Flatten.MaxDepth)
	assert.Equal(t, 20, cfg.Flatten.MaxItems)
	assert.Equal(t, flatten.AncestorsOnly, cfg.CyclePolicy())
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.NotEmpty(t, cfg.Output.Redact)
	// Untouched sections keep their defaults.
	assert.Equal(t, "peek", cfg.Gate.QueryParam)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	f := flatten.New(cfg.FlattenOptions()...)
	assert.Equal(t, 4, f.MaxDepth())
	assert.Equal(t, 20, f.MaxItems())
	assert.Equal(t, flatten.AncestorsOnly, f.Policy())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "flatten:\n  max_depth: 4\n")
	t.Setenv("PEEK_MAX_DEPTH", "7")
	t.Setenv("PEEK_STORE", "memory")
	t.Setenv("PEEK_QUERY_PARAM", "debug_console")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Flatten.MaxDepth)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.Equal(t, "debug_console", cfg.Gate.QueryParam)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown store", "store:\n  type: etcd\n"},
		{"redis without addr", "store:\n  type: redis\n"},
		{"negative depth", "flatten:\n  max_depth: -1\n"},
		{"zero items", "flatten:\n  max_items: 0\n"},
		{"unknown policy", "flatten:\n  cycle_policy: never\n"},
		{"unknown format", "output:\n  format: xml\n"},
		{"unknown level", "log_level: loud\n"},
		{"empty redact pattern", "output:\n  redact: [\"\"]\n"},
		{"bad query param", "gate:\n  query_param: \"a=b\"\n"},
		{"unknown key", "colour: blue\n"},
		{"wrong type", "flatten:\n  max_depth: deep\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "store: [unclosed"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyEnv(t *testing.T) {
	raw := map[string]any{"store": map[string]any{"type": "file"}}
	env := map[string]string{"PEEK_REDIS_ADDR": "r:6379", "PEEK_FORMAT": "", "PEEK_ADDR": ":9000"}

	applyEnv(raw, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, map[string]any{
		"store":  map[string]any{"type": "file", "redis_addr": "r:6379"},
		"server": map[string]any{"addr": ":9000"},
	}, raw)
}

func TestRedact(t *testing.T) {
	path := writeConfig(t, "output:\n  redact: []\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Output.Redact)

	tr, err := cfg.Redact(transport.Discard)
	require.NoError(t, err)
	assert.Equal(t, transport.Discard, tr)

	cfg.Output.Redact = []string{"("}
	_, err = cfg.Redact(transport.Discard)
	assert.Error(t, err)
}
