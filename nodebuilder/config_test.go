package nodebuilder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWriteRead(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	in := DefaultConfig()
	in.Kate.Token = "secret"

	err := in.Encode(buf)
	require.NoError(t, err)

	var out Config
	err = out.Decode(buf)
	require.NoError(t, err)
	assert.EqualValues(t, in, &out)
}

func TestUpdateConfig(t *testing.T) {
	// an outdated config missing some of the fields the defaults have
	oldCfg := &Config{}
	oldCfg.RPC.Port = "9999"
	oldCfg.Kate.Rows = 4

	cfg, err := updateConfig(oldCfg, DefaultConfig())
	require.NoError(t, err)

	// user set values are kept
	assert.Equal(t, "9999", cfg.RPC.Port)
	assert.Equal(t, uint16(4), cfg.Kate.Rows)
	// missing ones are filled from the defaults
	defCfg := DefaultConfig()
	assert.Equal(t, defCfg.RPC.Address, cfg.RPC.Address)
	assert.Equal(t, defCfg.Kate.Cols, cfg.Kate.Cols)
	assert.Equal(t, defCfg.Kate.CacheSize, cfg.Kate.CacheSize)
	assert.Equal(t, defCfg.Share, cfg.Share)
}

func TestUpdateConfig_OnDisk(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	require.NoError(t, Init(*cfg, dir))

	cfg.Kate.CacheSize = 0
	cfg.Kate.Address = "http://localhost:1234"
	require.NoError(t, SaveConfig(configPath(dir), cfg))

	require.NoError(t, UpdateConfig(dir))

	updated, err := LoadConfig(configPath(dir))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234", updated.Kate.Address)
	assert.Equal(t, DefaultConfig().Kate.CacheSize, updated.Kate.CacheSize)

	store, err := OpenStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	assert.ErrorIs(t, UpdateConfig(dir), ErrOpened)
	assert.ErrorIs(t, RemoveConfig(dir), ErrOpened)
}
