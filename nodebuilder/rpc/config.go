package rpc

import (
	"fmt"

	"github.com/celestiaorg/da-matrix/libs/utils"
)

type Config struct {
	// Enabled makes the node serve its kate module over the RPC.
	Enabled  bool
	Address  string
	Port     string
	SkipAuth bool
}

func DefaultConfig() Config {
	return Config{
		Address:  defaultBindAddress,
		Port:     defaultPort,
		SkipAuth: false,
	}
}

func (cfg *Config) RequestURL() string {
	return fmt.Sprintf("http://%s:%s", cfg.Address, cfg.Port)
}

func (cfg *Config) Validate() error {
	sanitizedAddress, err := utils.ValidateAddr(cfg.Address)
	if err != nil {
		return fmt.Errorf("nodebuilder/rpc: invalid address: %w", err)
	}
	cfg.Address = sanitizedAddress

	if err = utils.ValidatePort(cfg.Port); err != nil {
		return fmt.Errorf("nodebuilder/rpc: %w", err)
	}
	return nil
}
