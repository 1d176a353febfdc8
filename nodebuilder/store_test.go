package nodebuilder

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/api/rpc/perms"
	"github.com/celestiaorg/da-matrix/libs/authtoken"
)

func TestRepo(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenStore(dir)
	assert.ErrorIs(t, err, ErrNotInited)

	err = Init(*DefaultConfig(), dir)
	require.NoError(t, err)

	store, err := OpenStore(dir)
	require.NoError(t, err)

	_, err = OpenStore(dir)
	assert.ErrorIs(t, err, ErrOpened)

	data, err := store.Datastore()
	assert.NoError(t, err)
	assert.NotNil(t, data)

	// the same Datastore is handed out until the Store is closed
	again, err := store.Datastore()
	assert.NoError(t, err)
	assert.Equal(t, data, again)

	cfg, err := store.Config()
	assert.NoError(t, err)
	assert.EqualValues(t, DefaultConfig(), cfg)

	cfg.Kate.Rows = 32
	require.NoError(t, store.PutConfig(cfg))
	cfg, err = store.Config()
	require.NoError(t, err)
	assert.Equal(t, uint16(32), cfg.Kate.Rows)

	err = store.Close()
	assert.NoError(t, err)

	// the lock is released on Close
	store, err = OpenStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestRepo_Datastore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	dir := t.TempDir()
	require.NoError(t, Init(*DefaultConfig(), dir))

	key, value := datastore.NewKey("/test"), []byte("value")
	store, err := OpenStore(dir)
	require.NoError(t, err)
	ds, err := store.Datastore()
	require.NoError(t, err)
	require.NoError(t, ds.Put(ctx, key, value))
	require.NoError(t, store.Close())

	store, err = OpenStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	ds, err = store.Datastore()
	require.NoError(t, err)
	got, err := ds.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestRepo_Secret(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(*DefaultConfig(), dir))

	store, err := OpenStore(dir)
	require.NoError(t, err)
	signer, err := store.Signer()
	require.NoError(t, err)
	token, err := perms.NewTokenWithPerms(signer, perms.ReadPerms, time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// tokens stay valid across restarts
	store, err = OpenStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	verifier, err := store.Verifier()
	require.NoError(t, err)
	got, err := authtoken.ExtractSignedPermissions(verifier, string(token))
	require.NoError(t, err)
	assert.Equal(t, perms.ReadPerms, got)

	t.Run("corrupted", func(t *testing.T) {
		path := filepath.Join(keysPath(store.Path()), SecretName)
		require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))
		_, err := store.Signer()
		assert.Error(t, err)
	})
}
