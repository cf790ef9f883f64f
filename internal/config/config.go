// Package config loads peek.yaml, applies PEEK_* environment overrides and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "peek.yaml"

// ErrInvalidConfig is returned when the configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full runtime configuration of the CLI.
type Config struct {
	LogLevel string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Store    StoreConfig   `mapstructure:"store"`
	Flatten  FlattenConfig `mapstructure:"flatten"`
	Output   OutputConfig  `mapstructure:"output"`
	Gate     GateConfig    `mapstructure:"gate"`
	Server   ServerConfig  `mapstructure:"server"`
}

// StoreConfig selects and configures the settings store.
type StoreConfig struct {
	Type          string        `mapstructure:"type" validate:"oneof=memory file redis"`
	Path          string        `mapstructure:"path" validate:"required_if=Type file"`
	RedisAddr     string        `mapstructure:"redis_addr" validate:"required_if=Type redis"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0,lte=15"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// FlattenConfig holds the traversal bounds.
type FlattenConfig struct {
	MaxDepth    int    `mapstructure:"max_depth" validate:"gte=0"`
	MaxItems    int    `mapstructure:"max_items" validate:"gt=0"`
	CyclePolicy string `mapstructure:"cycle_policy" validate:"cyclepolicy"`
}

// OutputConfig controls how trees are rendered on the terminal.
type OutputConfig struct {
	Format string   `mapstructure:"format" validate:"oneof=json yaml yml"`
	Redact []string `mapstructure:"redact" validate:"dive,required"`
}

// GateConfig configures request gating.
type GateConfig struct {
	QueryParam string `mapstructure:"query_param" validate:"required,printascii,excludesall=&=?#"`
}

// ServerConfig configures `peek serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Type: "file",
			Path: ".peek/settings.yaml",
		},
		Flatten: FlattenConfig{
			MaxDepth:    domain.DefaultMaxDepth,
			MaxItems:    domain.DefaultMaxItems,
			CyclePolicy: flatten.SeenOnce.String(),
		},
		Output: OutputConfig{
			Format: "json",
			Redact: slices.Clone(transport.DefaultRedactPatterns),
		},
		Gate:   GateConfig{QueryParam: domain.DefaultQueryParam},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// envOverrides maps environment variables to configuration keys.
var envOverrides = map[string]string{
	"PEEK_LOG_LEVEL":      "log_level",
	"PEEK_STORE":          "store.type",
	"PEEK_STORE_PATH":     "store.path",
	"PEEK_REDIS_ADDR":     "store.redis_addr",
	"PEEK_REDIS_PASSWORD": "store.redis_password",
	"PEEK_REDIS_DB":       "store.redis_db",
	"PEEK_MAX_DEPTH":      "flatten.max_depth",
	"PEEK_MAX_ITEMS":      "flatten.max_items",
	"PEEK_CYCLE_POLICY":   "flatten.cycle_policy",
	"PEEK_FORMAT":         "output.format",
	"PEEK_QUERY_PARAM":    "gate.query_param",
	"PEEK_ADDR":           "server.addr",
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("cyclepolicy", func(fl validator.FieldLevel) bool {
		_, ok := flatten.ParseCyclePolicy(fl.Field().String())
		return ok
	})
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result. A missing file is only an error when path was
// given explicitly; with an empty path DefaultPath is tried.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	raw := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(raw, os.LookupEnv)
	return Decode(raw)
}

// Decode builds a validated Config from a generic map laid over the defaults.
func Decode(raw map[string]any) (*Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CyclePolicy returns the parsed cycle policy.
func (c *Config) CyclePolicy() flatten.CyclePolicy {
	p, _ := flatten.ParseCyclePolicy(c.Flatten.CyclePolicy)
	return p
}

// FlattenOptions returns the flattener options described by the configuration.
func (c *Config) FlattenOptions() []flatten.Option {
	return []flatten.Option{
		flatten.WithMaxDepth(c.Flatten.MaxDepth),
		flatten.WithMaxItems(c.Flatten.MaxItems),
		flatten.WithCyclePolicy(c.CyclePolicy()),
	}
}

func applyEnv(raw map[string]any, lookup func(string) (string, bool)) {
	for env, key := range envOverrides {
		if v, ok := lookup(env); ok && v != "" {
			setPath(raw, strings.Split(key, "."), v)
		}
	}
}

func setPath(m map[string]any, path []string, v any) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// Redact wraps t with the configured key redaction. An empty list disables it.
func (c *Config) Redact(t ports.Transport) (ports.Transport, error) {
	if len(c.Output.Redact) == 0 {
		return t, nil
	}
	return transport.Redact(t, c.Output.Redact...)
}
