package repositories

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Path())

	prefs := NewBadgerPreferenceRepository(store.DB())
	require.NoError(t, prefs.Set("v1", "theme", "light"))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	theme, err := NewBadgerPreferenceRepository(reopened.DB()).Get("v1", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", theme)
}

func TestStoreBackupRestore(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	cache := NewBadgerCacheRepository(src.DB())
	require.NoError(t, cache.Set(ctx, "https://api/posts", []byte(`[]`), 0))
	require.NoError(t, NewBadgerPreferenceRepository(src.DB()).Set("v1", "theme", "dark"))

	var buf bytes.Buffer
	_, err := src.Backup(&buf)
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())

	dst := newTestStore(t)
	require.NoError(t, dst.Restore(&buf))

	got, err := NewBadgerCacheRepository(dst.DB()).Get(ctx, "https://api/posts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	n, err := dst.Count(PrefKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreClean(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, NewBadgerPreferenceRepository(store.DB()).Set("v1", "theme", "dark"))
	require.NoError(t, store.Clean())

	n, err := store.Count(PrefKeyPrefix)
	require.NoError(t, err)
	assert.Zero(t, n)
}
