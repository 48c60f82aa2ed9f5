package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", []byte(`{"items":[]}`)))

	got, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), got)
}

func TestMemory_ReadMissingKey(t *testing.T) {
	store := NewMemory()

	_, err := store.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Remove(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", []byte("x")))
	require.NoError(t, store.Remove(ctx, "cart"))

	_, err := store.Read(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ReadReturnsCopy(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", []byte("abc")))

	got, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	store := NewFile(path)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", []byte(`[1,2,3]`)))
	require.NoError(t, store.Write(ctx, "wishlist", []byte(`[4]`)))

	got, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,2,3]`), got)

	// A fresh instance on the same path sees the persisted values.
	fresh := NewFile(path)
	got, err = fresh.Read(ctx, "wishlist")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[4]`), got)
}

func TestFile_MissingFileReadsAsEmpty(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, err := store.Read(context.Background(), "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFile_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	store := NewFile(path)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "cart", []byte("x")))
	require.NoError(t, store.Remove(ctx, "cart"))

	_, err := store.Read(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFile_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.json")
	require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))

	store := NewFile(path)
	ctx := context.Background()

	_, err := store.Read(ctx, "cart")
	assert.ErrorIs(t, err, ErrNotFound)

	// The next write replaces the corrupt file with a valid one.
	require.NoError(t, store.Write(ctx, "cart", []byte(`[1]`)))
	got, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)
}

func TestFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "storefront.json")
	store := NewFile(path)

	require.NoError(t, store.Write(context.Background(), "cart", []byte("x")))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
