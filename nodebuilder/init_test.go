package nodebuilder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	require.NoError(t, Init(*cfg, dir))
	assert.True(t, IsInit(dir))

	key, err := os.ReadFile(filepath.Join(keysPath(dir), SecretName))
	require.NoError(t, err)
	assert.Len(t, key, secretSize)

	// reinitializing keeps the secret
	require.NoError(t, Init(*cfg, dir))
	again, err := os.ReadFile(filepath.Join(keysPath(dir), SecretName))
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestInit_Locked(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, initRoot(dir))

	flk := flock.New(lockPath(dir))
	ok, err := flk.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() {
		require.NoError(t, flk.Unlock())
	})

	err = Init(*DefaultConfig(), dir)
	assert.ErrorIs(t, err, ErrOpened)
}

func TestIsInitWithBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(configPath(dir))
	require.NoError(t, err)
	defer f.Close()
	//nolint:errcheck
	f.Write([]byte(`
		[Kate]
		  Rows = sixteen
    `))
	assert.False(t, IsInit(dir))
}

func TestIsInitForNonExistDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	assert.False(t, IsInit(path))
}
