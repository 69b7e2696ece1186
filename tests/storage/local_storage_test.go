package storage_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/storage"
)

func TestLocalStorage_UploadDownloadRoundtrip(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "jpeg bytes go here"
	path, size, err := store.Upload(ctx, "photo.jpg", "image/jpeg", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.Equal(t, ".jpg", filepath.Ext(path))

	// Paths are sharded two levels deep by the generated file id
	parts := strings.Split(filepath.ToSlash(path), "/")
	require.Len(t, parts, 3)
	assert.Len(t, parts[0], 2)
	assert.Len(t, parts[1], 2)

	reader, err := store.Download(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestLocalStorage_DownloadMissingFile(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "aa/bb/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestLocalStorage_DeleteIsIdempotent(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, _, err := store.Upload(ctx, "doc.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))
	require.NoError(t, store.Delete(ctx, path), "deleting a missing file is a no-op")

	_, err = store.Download(ctx, path)
	assert.Error(t, err)
}
