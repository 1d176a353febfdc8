package rpc

import (
	"context"

	"go.uber.org/fx"

	"github.com/celestiaorg/da-matrix/api/rpc"
)

func ConstructModule(cfg *Config) fx.Option {
	if !cfg.Enabled {
		return fx.Module("rpc")
	}
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()

	return fx.Module(
		"rpc",
		fx.Supply(cfg),
		fx.Error(cfgErr),
		fx.Provide(fx.Annotate(
			Server,
			fx.OnStart(func(ctx context.Context, server *rpc.Server) error {
				return server.Start(ctx)
			}),
			fx.OnStop(func(ctx context.Context, server *rpc.Server) error {
				return server.Stop(ctx)
			}),
		)),
		fx.Invoke(RegisterEndpoints),
	)
}
