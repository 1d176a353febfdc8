package matrix

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	blocks "github.com/ipfs/go-block-format"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/celestiaorg/da-matrix/libs/utils"
	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/ipld"
)

var (
	log    = logging.Logger("share/matrix")
	tracer = otel.Tracer("share/matrix")
)

var ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

// Builder assembles DataMatrix of a block out of cells retrieved through the Fetcher.
type Builder struct {
	fetcher Fetcher
	params  Parameters
}

// NewBuilder creates a new Builder over the given Fetcher.
func NewBuilder(fetcher Fetcher, opts ...Option) (*Builder, error) {
	params := DefaultParameters()
	for _, opt := range opts {
		opt(&params)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		fetcher: fetcher,
		params:  params,
	}, nil
}

// Construct fetches every cell of the 'rows' by 'cols' matrix of the given block, column by
// column and row by row inside a column, and encodes each one into a leaf node.
//
// A cell which fails to be fetched or encoded aborts the construction with *FetchError and no
// partial matrix is returned. The resulting ordering never depends on the configured concurrency.
func (b *Builder) Construct(ctx context.Context, block uint64, rows, cols uint16) (_ *share.DataMatrix, err error) {
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if block > math.MaxInt64 {
		return nil, fmt.Errorf("%w: block number %d overflows", ErrInvalidDimensions, block)
	}

	ctx, span := tracer.Start(ctx, "construct-matrix")
	defer func() {
		utils.SetStatusAndEnd(span, err)
	}()
	span.SetAttributes(
		attribute.Int64("block", int64(block)),
		attribute.Int("rows", int(rows)),
		attribute.Int("cols", int(cols)),
	)

	start := time.Now()
	dm := &share.DataMatrix{
		Block:   int64(block),
		Columns: make([]share.Column, cols),
	}
	for col := range dm.Columns {
		dm.Columns[col] = share.Column{
			Index:  uint16(col),
			Leaves: make([]blocks.Block, rows),
		}
	}

	errGrp, ctx := errgroup.WithContext(ctx)
	errGrp.SetLimit(b.params.Concurrency)
	for col := uint16(0); col < cols; col++ {
		for row := uint16(0); row < rows; row++ {
			errGrp.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				leaf, err := b.constructCell(ctx, block, row, col)
				if err != nil {
					return err
				}
				dm.Columns[col].Leaves[row] = leaf
				return nil
			})
		}
	}
	if err = errGrp.Wait(); err != nil {
		return nil, err
	}

	log.Debugw("constructed matrix",
		"block", block,
		"rows", rows,
		"cols", cols,
		"took", time.Since(start),
	)
	return dm, nil
}

func (b *Builder) constructCell(ctx context.Context, block uint64, row, col uint16) (blocks.Block, error) {
	payload, err := b.fetcher.Fetch(ctx, block, row, col)
	if err != nil {
		return nil, &FetchError{Block: block, Coord: share.Coord{Row: row, Col: col}, Err: err}
	}
	leaf, err := ipld.NewLeaf(payload)
	if err != nil {
		return nil, &FetchError{Block: block, Coord: share.Coord{Row: row, Col: col}, Err: err}
	}
	return leaf, nil
}
