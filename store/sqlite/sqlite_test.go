package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strum/lesson-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoad_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	kv, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, kv)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := map[string]string{
		"schema_version":  "1",
		"total_hours":     `"30"`,
		"hours_remaining": `"27.5"`,
		"lessons":         `[{"id":"a"}]`,
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSave_ReplacesSnapshot(t *testing.T) {
	// A save drops keys absent from the new snapshot, so stale legacy
	// keys disappear on the first versioned write.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{
		"hours":      "12",
		"introShown": "true",
	}))
	require.NoError(t, store.Save(ctx, map[string]string{
		"schema_version":  "1",
		"hours_remaining": `"12"`,
	}))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, out, "hours")
	assert.NotContains(t, out, "introShown")
	assert.Equal(t, `"12"`, out["hours_remaining"])
}

func TestSave_OverwritesValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]string{"total_hours": `"30"`}))
	require.NoError(t, store.Save(ctx, map[string]string{"total_hours": `"40"`}))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"40"`, out["total_hours"])
}
