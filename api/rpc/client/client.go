package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/celestiaorg/da-matrix/api/rpc/perms"
	"github.com/celestiaorg/da-matrix/kate"
	"github.com/celestiaorg/da-matrix/nodebuilder/node"
)

// API lists every module served over the RPC.
type API interface {
	kate.Module
	node.Module
}

type Client struct {
	Kate kate.API
	Node node.API

	closer multiClientCloser
}

// multiClientCloser is a wrapper struct to close clients across multiple namespaces.
type multiClientCloser struct {
	closers []jsonrpc.ClientCloser
}

// register adds a new closer to the multiClientCloser
func (m *multiClientCloser) register(closer jsonrpc.ClientCloser) {
	m.closers = append(m.closers, closer)
}

// closeAll closes all saved clients.
func (m *multiClientCloser) closeAll() {
	for _, closer := range m.closers {
		closer()
	}
}

// Close closes the connections to all namespaces registered on the client.
func (c *Client) Close() {
	c.closer.closeAll()
}

// NewClient creates a new Client with one connection per namespace with the
// given token as the authorization token.
func NewClient(ctx context.Context, addr, token string) (*Client, error) {
	authHeader := http.Header{}
	if token != "" {
		authHeader.Set(perms.AuthKey, "Bearer "+token)
	}

	var client Client
	modules := map[string]interface{}{
		"kate": &client.Kate.Internal,
		"node": &client.Node.Internal,
	}
	for name, module := range modules {
		closer, err := jsonrpc.NewClient(ctx, addr, name, module, authHeader)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("rpc: connecting %s client: %w", name, err)
		}
		client.closer.register(closer)
	}
	return &client, nil
}
