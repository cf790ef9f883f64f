package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where settings live when no path is configured.
var DefaultPath = filepath.Join(".peek", "settings.yaml")

// Store implements ports.SettingsStore using a YAML file on the local filesystem.
type Store struct {
	Path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a new Store for the given file.
// If path is empty, it defaults to ".peek/settings.yaml".
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{Path: path, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reads the flag. A missing file reads as disabled.
func (s *Store) Enabled(ctx context.Context) (bool, error) {
	settings, err := s.Load()
	if err != nil {
		return false, err
	}
	return settings.Enabled, nil
}

// Load reads the whole settings document.
func (s *Store) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings domain.Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("%w: %v", domain.ErrInvalidSetting, err)
	}
	return settings, nil
}

// SetEnabled persists the flag to the YAML file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) SetEnabled(ctx context.Context, enabled bool) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure settings directory: %w", err)
	}

	data, err := yaml.Marshal(domain.Settings{Enabled: enabled, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing settings file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to settings file: %w", err)
	}
	return nil
}

// Watch reports the flag every time the settings file is written, created or
// replaced by another process. The channel is closed when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan bool, error) {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to ensure settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: atomic saves replace the file, which drops a file watch.
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(s.Path)
	out := make(chan bool, 1)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				settings, err := s.Load()
				if err != nil {
					s.logger.Warn("settings reload failed", "path", s.Path, "error", err)
					continue
				}
				select {
				case out <- settings.Enabled:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("settings watcher error", "path", s.Path, "error", err)
			}
		}
	}()

	return out, nil
}
