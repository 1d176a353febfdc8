package matrix

import (
	"context"
	"fmt"

	"github.com/celestiaorg/da-matrix/share"
)

// Fetcher retrieves the raw payload (field element followed by its proof) of a single cell.
//
//go:generate mockgen -destination=mocks/fetcher.go -package=mocks . Fetcher
type Fetcher interface {
	Fetch(ctx context.Context, block uint64, row, col uint16) ([]byte, error)
}

// FetcherFunc is an adapter to allow the use of ordinary functions as Fetcher.
type FetcherFunc func(ctx context.Context, block uint64, row, col uint16) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, block uint64, row, col uint16) ([]byte, error) {
	return f(ctx, block, row, col)
}

// FetchError reports the coordinate whose retrieval or encoding aborted matrix construction.
type FetchError struct {
	Block uint64
	Coord share.Coord
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("matrix: cell %s of block %d: %s", e.Coord, e.Block, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
