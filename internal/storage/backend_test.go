package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/jobfit-kit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "jobFit_profile", Key("", ProfileRecord))
	assert.Equal(t, "jobFit_profile", Key(DefaultWorkspace, ProfileRecord))
	assert.Equal(t, "alice:jobFit_history", Key("alice", HistoryRecord))
}

// exerciseBackend runs the behavior every backend shares
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, b.Set(ctx, "k", []byte(`{"a":2}`)))
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	err = b.Set(ctx, "big", make([]byte, 64))
	var qe *StorageQuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "big", qe.Key)
	assert.Equal(t, 64, qe.Size)
	assert.Equal(t, 32, qe.Limit)

	_, err = b.Get(ctx, "big")
	assert.ErrorIs(t, err, ErrNotFound, "rejected write must not be stored")
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend(32))
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend(0)
	value := []byte("abc")
	require.NoError(t, b.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir(), 32)
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackend_EscapesKeysAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir, 0)
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), "team/a:jobFit_profile", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "team%2Fa:jobFit_profile.json", entries[0].Name())
}

func TestFileBackend_RequiresDir(t *testing.T) {
	_, err := NewFileBackend("", 0)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, &config.Config{Storage: config.StorageMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	dir := filepath.Join(t.TempDir(), "nested")
	b, err = Open(ctx, &config.Config{Storage: config.StorageFile, DataDir: dir}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)
	assert.DirExists(t, dir)

	_, err = Open(ctx, &config.Config{Storage: "tape"}, nil)
	assert.Error(t, err)
}
