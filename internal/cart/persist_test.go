package cart_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ShopBot/internal/cart"
	"ShopBot/internal/catalog"
)

func TestSnapshotFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")
	ctx := context.Background()
	cat := catalog.NewStore()

	s1 := cart.NewStore(ctx, cat, cart.NewSnapshotFile(path), nil, nil)

	_, err := s1.AddItem(ctx, "u1", "d1")
	require.NoError(t, err)
	_, err = s1.AddItem(ctx, "u1", "d1")
	require.NoError(t, err)
	_, err = s1.AddItem(ctx, "u2", "d3")
	require.NoError(t, err)
	require.NoError(t, s1.Clear(ctx, "u2"))

	// A fresh store over the same file must observe identical carts.
	s2 := cart.NewStore(ctx, cat, cart.NewSnapshotFile(path), nil, nil)

	assert.Equal(t, s1.GetOrCreate("u1"), s2.GetOrCreate("u1"))
	assert.Equal(t, s1.GetOrCreate("u2"), s2.GetOrCreate("u2"))
	assert.Equal(t, int64(80000), s2.Summary("u1").Total)
	assert.True(t, s2.GetOrCreate("u2").Empty())
}

func TestSnapshotFile_MissingFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "carts.json")

	carts, err := cart.NewSnapshotFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, carts)
}

func TestSnapshotFile_CorruptFileFallsBackEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := cart.NewSnapshotFile(path).Load(context.Background())
	require.Error(t, err)

	// The store recovers on its own and keeps working.
	s := cart.NewStore(context.Background(), catalog.NewStore(),
		cart.NewSnapshotFile(path), nil, nil)
	assert.True(t, s.GetOrCreate("u1").Empty())

	_, err = s.AddItem(context.Background(), "u1", "d1")
	require.NoError(t, err)
}

func TestSnapshotFile_NoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carts.json")
	ctx := context.Background()

	s := cart.NewStore(ctx, catalog.NewStore(), cart.NewSnapshotFile(path), nil, nil)
	_, err := s.AddItem(ctx, "u1", "d1")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "carts.json", entries[0].Name())
}
