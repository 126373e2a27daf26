package db_test

import (
	"path/filepath"
	"testing"

	"github.com/amonks/musik/db"
	"github.com/amonks/musik/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, filename string) *db.DB {
	t.Helper()
	d, err := db.Open(filename)
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestEntries(t *testing.T) {
	var store storage.Store = open(t, filepath.Join(t.TempDir(), "musik.db"))

	_, found, err := store.Get("musicPlaylist")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set("musicPlaylist", `[{"id":1}]`))
	require.NoError(t, store.Set("musicPlaylist", `[{"id":1},{"id":2}]`))

	value, found, err := store.Get("musicPlaylist")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":1},{"id":2}]`, value)

	require.NoError(t, store.Remove("musicPlaylist"))
	require.NoError(t, store.Remove("musicPlaylist"))

	_, found, err = store.Get("musicPlaylist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestReopen(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "nested", "musik.db")

	first, err := db.Open(filename)
	require.NoError(t, err)
	require.NoError(t, first.Set("k", "v"))
	require.NoError(t, first.Close())

	second := open(t, filename)
	value, found, err := second.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}
