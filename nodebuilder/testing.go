package nodebuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// MockStore provides a Store initialized under a temporary directory for testing purposes.
func MockStore(t *testing.T, cfg *Config) Store {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(*cfg, dir))

	store, err := OpenStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNode(t *testing.T, opts ...fx.Option) *Node {
	return TestNodeWithConfig(t, DefaultConfig(), opts...)
}

func TestNodeWithConfig(t *testing.T, cfg *Config, opts ...fx.Option) *Node {
	// avoids port conflicts
	cfg.RPC.Port = "0"
	// keeps generated matrices small
	cfg.Kate.Rows, cfg.Kate.Cols = 8, 4

	store := MockStore(t, cfg)
	nd, err := NewWithConfig(store, cfg, opts...)
	require.NoError(t, err)
	return nd
}
