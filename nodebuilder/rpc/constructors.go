package rpc

import (
	"github.com/cristalhq/jwt/v5"

	"github.com/celestiaorg/da-matrix/api/rpc"
	"github.com/celestiaorg/da-matrix/kate"
	"github.com/celestiaorg/da-matrix/nodebuilder/node"
)

// RegisterEndpoints registers the given services on the rpc.
func RegisterEndpoints(
	kateMod kate.Module,
	nodeMod node.Module,
	serv *rpc.Server,
) {
	serv.RegisterService("kate", kateMod, &kate.API{})
	serv.RegisterService("node", nodeMod, &node.API{})
}

func Server(cfg *Config, verifier jwt.Verifier) *rpc.Server {
	return rpc.NewServer(cfg.Address, cfg.Port, cfg.SkipAuth, verifier)
}
