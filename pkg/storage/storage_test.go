package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, backend Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := backend.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Save(ctx, []byte(`{"savedForms":[]}`)))
	got, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"savedForms":[]}`, string(got))

	require.NoError(t, backend.Save(ctx, []byte(`{"savedForms":[],"theme":"dark"}`)))
	got, err = backend.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"savedForms":[],"theme":"dark"}`, string(got))
}

func TestFileBackend(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	backend, err := NewFile(path)
	require.NoError(t, err)
	defer backend.Close()

	exerciseBackend(t, backend)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestSQLiteBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "state.db")
	backend, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer backend.Close()

	exerciseBackend(t, backend)

	other, err := OpenSQLite(ctx, dsn, WithKey("other"))
	require.NoError(t, err)
	defer other.Close()
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	backend, err := Open(ctx, filepath.Join(dir, "plain.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, backend)

	backend, err = Open(ctx, "file:"+filepath.Join(dir, "prefixed.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prefixed.json"), backend.(*File).Path())

	backend, err = Open(ctx, "sqlite:file:"+filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, backend)
	require.NoError(t, backend.Close())

	_, err = Open(ctx, "s3://bucket/state")
	assert.Error(t, err)
	_, err = Open(ctx, "  ")
	assert.Error(t, err)
}
