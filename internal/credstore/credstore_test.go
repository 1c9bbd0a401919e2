package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_GetMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	value, ok, err := store.Get(KeyToken)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestFileStore_SetAndGet(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "sub", "credentials.json"))

	require.NoError(t, store.Set(KeyToken, "abc"))
	require.NoError(t, store.Set(KeyUsername, "alice"))

	value, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	value, ok, err = store.Get(KeyUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", value)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")

	store := NewFileStore(path)
	require.NoError(t, store.Set(KeyRole, "admin"))

	// A fresh store over the same file sees the persisted value
	reopened := NewFileStore(path)
	value, ok, err := reopened.Get(KeyRole)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "admin", value)
}

func TestFileStore_Remove(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Set(KeyToken, "abc"))
	require.NoError(t, store.Remove(KeyToken))

	_, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is a no-op
	require.NoError(t, store.Remove(KeyToken))
}

func TestFileStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set(KeyToken, "abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	store := NewFileStore(path)

	_, _, err := store.Get(KeyToken)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set(KeyUsername, "alice"))

	value, ok, err := store.Get(KeyUsername)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", value)

	require.NoError(t, store.Remove(KeyUsername))
	_, ok, err = store.Get(KeyUsername)
	require.NoError(t, err)
	assert.False(t, ok)
}
