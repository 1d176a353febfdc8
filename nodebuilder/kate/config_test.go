package kate

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Rows = 12
	require.Error(t, cfg.Validate())

	// dimensions are not used for remote endpoints
	cfg.Address = "http://localhost:26658"
	require.NoError(t, cfg.Validate())

	cfg.Address = "localhost:26658"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Cols = 0
	require.Error(t, cfg.Validate())
}

func TestParseFlags(t *testing.T) {
	t.Setenv(tokenEnv, "secret")

	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--kate.rows", "32", "--kate.addr", "http://localhost:1"}))

	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(cmd, &cfg))
	require.EqualValues(t, 32, cfg.Rows)
	require.EqualValues(t, 16, cfg.Cols)
	require.Equal(t, "http://localhost:1", cfg.Address)
	require.Equal(t, "secret", cfg.Token)
	require.True(t, cfg.Remote())
}
