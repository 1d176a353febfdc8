package share

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/celestiaorg/da-matrix/store"
)

func ConstructModule(cfg *Config, options ...fx.Option) fx.Option {
	// sanitize config values before constructing module
	err := cfg.Validate()
	if err != nil {
		return fx.Error(fmt.Errorf("nodebuilder/share: validate config: %w", err))
	}

	return fx.Module(
		"share",
		fx.Supply(*cfg),
		fx.Options(options...),
		fx.Provide(fx.Annotate(
			newStore,
			fx.OnStop(func(s *store.Store) error {
				return s.Close()
			}),
		)),
		fx.Provide(newBuilder),
		fx.Provide(newPublisher),
	)
}
