package kate

import (
	"errors"
	"fmt"

	"github.com/celestiaorg/da-matrix/libs/utils"
)

// Config configures where cells are retrieved from.
type Config struct {
	// Address of a remote kate RPC endpoint. Cells are generated locally when empty.
	Address string
	// Token authorizes requests to the remote endpoint.
	Token string `toml:",omitempty"`

	// Rows and Cols are the dimensions of locally generated matrices.
	Rows uint16
	Cols uint16
	// CacheSize is the amount of locally generated blocks kept in memory.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		Rows:      16,
		Cols:      16,
		CacheSize: 8,
	}
}

// Remote reports whether cells are retrieved from a remote endpoint.
func (cfg *Config) Remote() bool {
	return cfg.Address != ""
}

func (cfg *Config) Validate() error {
	if cfg.Remote() {
		if err := utils.ValidateURL(cfg.Address); err != nil {
			return fmt.Errorf("nodebuilder/kate: %w", err)
		}
		return nil
	}
	if cfg.Rows < 2 || cfg.Rows&(cfg.Rows-1) != 0 {
		return fmt.Errorf("nodebuilder/kate: rows must be a power of two above one, got %d", cfg.Rows)
	}
	if cfg.Cols == 0 {
		return errors.New("nodebuilder/kate: cols must be positive")
	}
	if cfg.CacheSize <= 0 {
		return fmt.Errorf("nodebuilder/kate: cache size must be positive, got %d", cfg.CacheSize)
	}
	return nil
}
