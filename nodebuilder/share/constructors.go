package share

import (
	"context"

	"github.com/ipfs/go-datastore"

	"github.com/celestiaorg/da-matrix/share/matrix"
	"github.com/celestiaorg/da-matrix/share/publish"
	"github.com/celestiaorg/da-matrix/store"
)

func newStore(ctx context.Context, cfg Config, ds datastore.Batching) (*store.Store, error) {
	return store.NewStore(ctx, &cfg.Store, ds)
}

func newBuilder(cfg Config, fetcher matrix.Fetcher) (*matrix.Builder, error) {
	return matrix.NewBuilder(fetcher, matrix.WithConcurrency(cfg.Builder.Concurrency))
}

func newPublisher(cfg Config, s *store.Store) (*publish.Publisher, error) {
	return publish.NewPublisher(s, publish.WithConcurrency(cfg.Publisher.Concurrency))
}
