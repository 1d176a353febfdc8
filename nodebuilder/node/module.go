package node

import (
	"go.uber.org/fx"
)

func ConstructModule() fx.Option {
	return fx.Module(
		"node",
		fx.Provide(newModule),
	)
}
