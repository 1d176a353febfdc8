package kate

import (
	"context"

	"github.com/celestiaorg/da-matrix/share/matrix"
)

var _ matrix.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves cells for matrix construction from a Module, usually a remote one.
type Fetcher struct {
	mod Module
}

// NewFetcher creates a Fetcher over the given Module.
func NewFetcher(mod Module) *Fetcher {
	return &Fetcher{mod: mod}
}

func (f *Fetcher) Fetch(ctx context.Context, block uint64, row, col uint16) ([]byte, error) {
	return f.mod.QueryProof(ctx, block, row, col)
}
