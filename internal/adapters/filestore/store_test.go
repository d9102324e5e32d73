package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediwound/wardview/internal/ports"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, ok, err := s.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, ports.KeyAccessToken, "tok-1"))
	require.NoError(t, s.Set(ctx, ports.KeyActiveView, "patients"))

	v, ok, err := s.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Delete(ctx, ports.KeyAccessToken, ports.KeyRefreshToken))

	_, ok, err = s.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unrelated keys survive the delete.
	v, ok, err = s.Get(ctx, ports.KeyActiveView)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "patients", v)
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, ports.KeyRememberedEmail, "nurse@x.com"))

	s2, err := New(dir)
	require.NoError(t, err)
	v, ok, err := s2.Get(ctx, ports.KeyRememberedEmail)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "nurse@x.com", v)
}

func TestCorruptFileReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0o600))

	s, err := New(dir)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, ports.KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	// Writing over a corrupt file repairs it.
	require.NoError(t, s.Set(ctx, ports.KeyUser, `{"id":1}`))
	v, ok, err := s.Get(ctx, ports.KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":1}`, v)
}

func TestFilePermissions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Set(ctx, ports.KeyAccessToken, "secret"))

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDeleteMissingKeysIsNoError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	assert.NoError(t, s.Delete(ctx, ports.KeyAccessToken, ports.KeyDisclaimerAck))
}
