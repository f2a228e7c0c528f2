package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("title: hello")))

	data, err := s.Read(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.Equal(t, "title: hello", string(data))

	exists, err := s.Exists(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "tasks/t1.yaml"))

	exists, err = s.Exists(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageReadMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(ctx, "tasks/missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Delete(ctx, "tasks/missing.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("v1")))
	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("v2")))

	data, err := s.Read(ctx, "tasks/t1.yaml")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestLocalStorageList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "tasks/t1.yaml", []byte("a")))
	require.NoError(t, s.Write(ctx, "tasks/t2.yaml", []byte("b")))
	require.NoError(t, s.Write(ctx, "users/u1.yaml", []byte("c")))

	paths, err := s.List(ctx, "tasks")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tasks/t1.yaml", "tasks/t2.yaml"}, paths)

	// A prefix that was never written is an empty listing, not an error.
	paths, err = s.List(ctx, "notifications")
	require.NoError(t, err)
	assert.Empty(t, paths)
}
