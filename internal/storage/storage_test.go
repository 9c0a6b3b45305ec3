package storage_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/odo-atelier/budget-api/internal/config"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_PutOpenRemove(t *testing.T) {
	ctx := t.Context()
	s, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	obj, err := s.Put(ctx, "exports/abc/./20250301T120000_orçamento_principal.csv", "text/csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "exports/abc/20250301T120000_orçamento_principal.csv", obj.Key)
	assert.Equal(t, int64(4), obj.Size)

	rc, err := s.Open(ctx, obj.Key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	require.NoError(t, s.Remove(ctx, obj.Key))
	require.NoError(t, s.Remove(ctx, obj.Key), "removing twice is fine")

	_, err = s.Open(ctx, obj.Key)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestLocalStorage_PutReplacesWithoutLeftovers(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()
	s, err := storage.NewLocalStorage(dir, 0)
	require.NoError(t, err)

	_, err = s.Put(ctx, "exports/p/file.csv", "text/csv", []byte("first"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "exports/p/file.csv", "text/csv", []byte("second"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "exports", "p"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "file.csv", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "exports", "p", "file.csv"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)

	for _, key := range []string{"../outside.csv", "/etc/passwd", "exports/../../x", ""} {
		_, err := s.Put(t.Context(), key, "text/csv", []byte("x"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
	}
}

func TestLocalStorage_SizeLimit(t *testing.T) {
	s, err := storage.NewLocalStorage(t.TempDir(), 8)
	require.NoError(t, err)

	_, err = s.Put(t.Context(), "exports/small.csv", "text/csv", []byte("12345678"))
	require.NoError(t, err)

	_, err = s.Put(t.Context(), "exports/big.csv", "text/csv", []byte("123456789"))
	assert.ErrorIs(t, err, storage.ErrObjectTooLarge)
}

func TestNewStorage(t *testing.T) {
	s, err := storage.NewStorage(&config.StorageConfig{Mode: "local", LocalBasePath: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, s)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "azure"}, zap.NewNop())
	assert.Error(t, err)

	_, err = storage.NewStorage(&config.StorageConfig{Mode: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
