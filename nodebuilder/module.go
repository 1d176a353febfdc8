package nodebuilder

import (
	"context"

	"go.uber.org/fx"

	"github.com/celestiaorg/da-matrix/nodebuilder/kate"
	"github.com/celestiaorg/da-matrix/nodebuilder/node"
	"github.com/celestiaorg/da-matrix/nodebuilder/rpc"
	"github.com/celestiaorg/da-matrix/nodebuilder/share"
)

func ConstructModule(cfg *Config, store Store) fx.Option {
	baseComponents := fx.Options(
		fx.Provide(func(lc fx.Lifecycle) context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.StopHook(cancel))
			return ctx
		}),
		fx.Supply(cfg),
		fx.Provide(func() Store { return store }),
		fx.Provide(store.Datastore),
		fx.Provide(store.Signer),
		fx.Provide(store.Verifier),
		// modules provided by the node
		kate.ConstructModule(&cfg.Kate),
		share.ConstructModule(&cfg.Share),
		node.ConstructModule(),
		rpc.ConstructModule(&cfg.RPC),
	)

	return fx.Module(
		"node",
		baseComponents,
	)
}
