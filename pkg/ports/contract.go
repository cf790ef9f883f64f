package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSettingsStoreContract runs a suite of tests to verify that a SettingsStore
// implementation adheres to the defined interface contract.
// The store must be empty when passed in.
func RunSettingsStoreContract(t *testing.T, store SettingsStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Defaults to disabled", func(t *testing.T) {
		enabled, err := store.Enabled(ctx)
		require.NoError(t, err, "Enabled on an empty store should not return error")
		assert.False(t, enabled)
	})

	t.Run("Enable", func(t *testing.T) {
		require.NoError(t, store.SetEnabled(ctx, true))

		enabled, err := store.Enabled(ctx)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("Disable", func(t *testing.T) {
		require.NoError(t, store.SetEnabled(ctx, true))
		require.NoError(t, store.SetEnabled(ctx, false))

		enabled, err := store.Enabled(ctx)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("Idempotent writes", func(t *testing.T) {
		require.NoError(t, store.SetEnabled(ctx, true))
		require.NoError(t, store.SetEnabled(ctx, true))

		enabled, err := store.Enabled(ctx)
		require.NoError(t, err)
		assert.True(t, enabled)
	})
}
