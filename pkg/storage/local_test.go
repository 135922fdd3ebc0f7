package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/stockroom/pkg/storage"
)

func TestLocalDisk_PutGetURL(t *testing.T) {
	ctx := context.Background()
	d := storage.NewLocal(t.TempDir(), "http://localhost:8080/dashboard/exports/")

	require.NoError(t, d.Put(ctx, "exports/2026-10-17/data-SKU-1.csv", []byte("sku\nSKU-1\n"), "text/csv"))
	assert.True(t, d.Exists(ctx, "exports/2026-10-17/data-SKU-1.csv"))

	got, err := d.Get(ctx, "exports/2026-10-17/data-SKU-1.csv")
	require.NoError(t, err)
	assert.Equal(t, "sku\nSKU-1\n", string(got))

	assert.Equal(t, "http://localhost:8080/dashboard/exports/exports/2026-10-17/data-SKU-1.csv",
		d.URL("exports/2026-10-17/data-SKU-1.csv"))
}

func TestLocalDisk_MissingFile(t *testing.T) {
	d := storage.NewLocal(t.TempDir(), "")
	_, err := d.Get(context.Background(), "nope.csv")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, d.Delete(context.Background(), "nope.csv"))
}

func TestLocalDisk_PathCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	d := storage.NewLocal(root, "")

	require.NoError(t, d.Put(context.Background(), "../../escape.csv", []byte("x"), ""))
	_, err := os.Stat(filepath.Join(root, "escape.csv"))
	assert.NoError(t, err)
}

func TestPrune_RemovesOldFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d := storage.NewLocal(root, "")

	require.NoError(t, d.Put(ctx, "exports/old.csv", []byte("a"), ""))
	require.NoError(t, d.Put(ctx, "exports/new.csv", []byte("b"), ""))
	old := time.Now().Add(-72 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "exports", "old.csv"), old, old))

	n, err := storage.Prune(ctx, d, "exports", time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, d.Exists(ctx, "exports/old.csv"))
	assert.True(t, d.Exists(ctx, "exports/new.csv"))

	files, err := d.AllFiles(ctx, "missing-dir")
	require.NoError(t, err)
	assert.Empty(t, files)
}
