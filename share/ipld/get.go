package ipld

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/boxo/blockservice"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	format "github.com/ipfs/go-ipld-format"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/celestiaorg/da-matrix/share"
)

var (
	log    = logging.Logger("share/ipld")
	tracer = otel.Tracer("share/ipld")
)

// ErrNodeNotFound is used to signal when a node can't be found locally or in the network.
var ErrNodeNotFound = errors.New("ipld: node not found")

// ErrLinkOutOfRange is returned when a requested position is beyond the published link list.
var ErrLinkOutOfRange = errors.New("ipld: link position out of range")

// GetNode fetches the node behind the given CID.
func GetNode(ctx context.Context, bGetter blockservice.BlockGetter, id cid.Cid) (blocks.Block, error) {
	blk, err := bGetter.GetBlock(ctx, id)
	if err != nil {
		if format.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		return nil, err
	}
	return blk, nil
}

// GetRoot fetches and decodes the matrix root node.
func GetRoot(ctx context.Context, bGetter blockservice.BlockGetter, root cid.Cid) (*Root, error) {
	blk, err := GetNode(ctx, bGetter, root)
	if err != nil {
		return nil, err
	}
	return DecodeRoot(blk)
}

// GetColumn fetches the column linked at the given position of the matrix root and returns its
// CID together with its leaf links.
//
// NOTE: position equals the column index only if no column was dropped while publishing.
func GetColumn(ctx context.Context, bGetter blockservice.BlockGetter, root cid.Cid, pos int) (cid.Cid, []cid.Cid, error) {
	rt, err := GetRoot(ctx, bGetter, root)
	if err != nil {
		return cid.Undef, nil, err
	}
	if pos < 0 || pos >= len(rt.Columns) {
		return cid.Undef, nil, fmt.Errorf("%w: column %d of %d", ErrLinkOutOfRange, pos, len(rt.Columns))
	}

	colID := rt.Columns[pos]
	blk, err := GetNode(ctx, bGetter, colID)
	if err != nil {
		return cid.Undef, nil, err
	}
	leaves, err := DecodeColumn(blk)
	if err != nil {
		return cid.Undef, nil, err
	}
	return colID, leaves, nil
}

// GetCell walks down from the matrix root to the leaf at the given link positions and returns
// the cell payload.
func GetCell(ctx context.Context, bGetter blockservice.BlockGetter, root cid.Cid, rowPos, colPos int) ([]byte, error) {
	_, leaves, err := GetColumn(ctx, bGetter, root, colPos)
	if err != nil {
		return nil, err
	}
	if rowPos < 0 || rowPos >= len(leaves) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrLinkOutOfRange, rowPos, len(leaves))
	}
	blk, err := GetNode(ctx, bGetter, leaves[rowPos])
	if err != nil {
		return nil, err
	}
	return DecodeLeaf(blk)
}

// GetColumnCells fetches every leaf of the column node concurrently and returns them as Cells of
// column 'col'. The 'rows' slice maps link positions onto row indexes, as reported by the
// publisher. If 'rows' is nil, link positions are taken as row indexes.
func GetColumnCells(
	ctx context.Context,
	bGetter blockservice.BlockGetter,
	column cid.Cid,
	col uint16,
	rows []uint16,
) ([]share.Cell, error) {
	ctx, span := tracer.Start(ctx, "get-column-cells")
	defer span.End()

	blk, err := GetNode(ctx, bGetter, column)
	if err != nil {
		return nil, err
	}
	leaves, err := DecodeColumn(blk)
	if err != nil {
		return nil, err
	}
	if rows != nil && len(rows) != len(leaves) {
		return nil, fmt.Errorf("ipld: column %s has %d leaves, but %d rows given", column, len(leaves), len(rows))
	}
	span.SetAttributes(attribute.Int("leaves", len(leaves)), attribute.Int("col", int(col)))

	cells := make([]share.Cell, len(leaves))
	errGrp, ctx := errgroup.WithContext(ctx)
	for i, leaf := range leaves {
		row := uint16(i)
		if rows != nil {
			row = rows[i]
		}
		errGrp.Go(func() error {
			blk, err := GetNode(ctx, bGetter, leaf)
			if err != nil {
				return err
			}
			payload, err := DecodeLeaf(blk)
			if err != nil {
				return err
			}
			cells[i] = share.NewCell(row, col, payload)
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		log.Debugw("fetching column cells", "column", column, "err", err)
		span.RecordError(err)
		return nil, err
	}
	return cells, nil
}
