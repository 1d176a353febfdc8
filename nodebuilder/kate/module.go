package kate

import (
	"context"

	"go.uber.org/fx"

	"github.com/celestiaorg/da-matrix/api/rpc/client"
	"github.com/celestiaorg/da-matrix/kate"
	"github.com/celestiaorg/da-matrix/share/matrix"
)

func ConstructModule(cfg *Config) fx.Option {
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()

	baseComponents := fx.Options(
		fx.Supply(*cfg),
		fx.Error(cfgErr),
		fx.Provide(func(mod kate.Module) matrix.Fetcher {
			return kate.NewFetcher(mod)
		}),
	)

	if cfg.Remote() {
		return fx.Module(
			"kate",
			baseComponents,
			fx.Provide(fx.Annotate(
				remoteModule,
				fx.OnStop(func(c *client.Client) {
					c.Close()
				}),
			)),
			fx.Provide(func(c *client.Client) kate.Module {
				return &c.Kate
			}),
		)
	}
	return fx.Module(
		"kate",
		baseComponents,
		fx.Provide(localModule),
	)
}

func remoteModule(ctx context.Context, cfg Config) (*client.Client, error) {
	return client.NewClient(ctx, cfg.Address, cfg.Token)
}

func localModule(cfg Config) (kate.Module, error) {
	return kate.NewSource(kate.Dimensions{Rows: cfg.Rows, Cols: cfg.Cols}, cfg.CacheSize)
}
