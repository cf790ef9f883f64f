package ports

import (
	"context"
)

// SettingsStore persists the enablement flag.
type SettingsStore interface {
	// Enabled reports the persisted flag.
	// A store that has never been written returns false and no error.
	Enabled(ctx context.Context) (bool, error)

	// SetEnabled persists the flag.
	SetEnabled(ctx context.Context, enabled bool) error
}

// SettingsWatcher is implemented by stores that can report changes made
// outside the current process.
type SettingsWatcher interface {
	// Watch emits the flag after every external change until ctx is done,
	// then closes the channel.
	Watch(ctx context.Context) (<-chan bool, error)
}
