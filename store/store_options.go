package store

import (
	"errors"
)

type Parameters struct {
	// HasCacheSize is the size of the two-queue cache answering Has requests of the blockstore.
	// Zero disables the cache.
	HasCacheSize int
}

// DefaultParameters returns the default configuration values for the block store parameters.
func DefaultParameters() *Parameters {
	return &Parameters{
		HasCacheSize: 64 << 10,
	}
}

func (p *Parameters) Validate() error {
	if p.HasCacheSize < 0 {
		return errors.New("has cache size cannot be negative")
	}
	return nil
}
