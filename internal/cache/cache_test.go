package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"codelens/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := cache.Open(filepath.Join(dir, "embeddings.json"))

	c.Set("hash1", []float32{0.1, 0.2, 0.3})
	v, ok := c.Get("hash1")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, v)
	assert.True(t, c.Has("hash1"))
	assert.False(t, c.Has("missing"))
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	c := cache.Open(path)
	c.Set("hash1", []float32{1, 2, 3})
	require.NoError(t, c.Save())

	reloaded := cache.Open(path)
	v, ok := reloaded.Get("hash1")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)
}

func TestCache_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "embeddings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	c := cache.Open(path)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_Prune(t *testing.T) {
	c := cache.Open(filepath.Join(t.TempDir(), "embeddings.json"))
	c.SetAt("old", []float32{1}, 1000)
	c.SetAt("new", []float32{1}, 9000)

	removed := c.Prune(10000, 5000)
	assert.Equal(t, 1, removed)
	assert.False(t, c.Has("old"))
	assert.True(t, c.Has("new"))
}

func TestCache_SaveIsNoOpWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	c := cache.Open(path)
	// Never written to, but the file does not exist yet: the first Save
	// still creates it.
	require.NoError(t, c.Save())
	_, err := os.Stat(path)
	require.NoError(t, err)

	// Clean and the file exists: Save is a no-op and leaves the file as is.
	require.NoError(t, os.WriteFile(path, []byte(`{"marker":{"vector":[1],"timestamp":1}}`), 0o644))
	require.NoError(t, c.Save())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "marker")
}
