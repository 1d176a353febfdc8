package share

import (
	"fmt"

	"github.com/celestiaorg/da-matrix/share/matrix"
	"github.com/celestiaorg/da-matrix/share/publish"
	"github.com/celestiaorg/da-matrix/store"
)

// Config combines parameters of the components constructing, storing and publishing matrices.
type Config struct {
	Builder   matrix.Parameters
	Publisher publish.Parameters
	Store     store.Parameters
}

// DefaultConfig returns the default share module configuration
func DefaultConfig() Config {
	return Config{
		Builder:   matrix.DefaultParameters(),
		Publisher: publish.DefaultParameters(),
		Store:     *store.DefaultParameters(),
	}
}

// Validate performs basic validation of the config.
func (cfg *Config) Validate() error {
	if err := cfg.Builder.Validate(); err != nil {
		return fmt.Errorf("nodebuilder/share: builder: %w", err)
	}
	if err := cfg.Publisher.Validate(); err != nil {
		return fmt.Errorf("nodebuilder/share: publisher: %w", err)
	}
	if err := cfg.Store.Validate(); err != nil {
		return fmt.Errorf("nodebuilder/share: store: %w", err)
	}
	return nil
}
