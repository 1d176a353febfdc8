package share

import (
	"errors"
	"fmt"

	blocks "github.com/ipfs/go-block-format"
)

var (
	ErrMalformedMatrix = errors.New("share: malformed data matrix")
	// ErrNoHead is reported by stores of published matrices until the first one is published.
	ErrNoHead = errors.New("share: no head root")
)

// Column is the ordered set of encoded leaves of a single matrix column, in ascending row order.
type Column struct {
	Index  uint16
	Leaves []blocks.Block
}

// DataMatrix is the in-memory form of a block's data before it is published as a DAG.
// Columns are kept in ascending column order and leaves inside them in ascending row order.
// It is built once per block and consumed once by the publisher.
type DataMatrix struct {
	Block   int64
	Columns []Column
}

// Width returns the amount of columns in the matrix.
func (dm *DataMatrix) Width() int {
	return len(dm.Columns)
}

// Height returns the amount of rows in the matrix.
func (dm *DataMatrix) Height() int {
	if len(dm.Columns) == 0 {
		return 0
	}
	return len(dm.Columns[0].Leaves)
}

// Leaf returns the encoded leaf at the given coordinate.
func (dm *DataMatrix) Leaf(row, col uint16) (blocks.Block, error) {
	if int(col) >= dm.Width() || int(row) >= dm.Height() {
		return nil, fmt.Errorf("share: coordinate %s is outside of %dx%d matrix",
			Coord{Row: row, Col: col}, dm.Height(), dm.Width())
	}
	return dm.Columns[col].Leaves[row], nil
}

// Validate checks that the matrix is rectangular and that columns are in order.
func (dm *DataMatrix) Validate() error {
	if dm.Block < 0 {
		return fmt.Errorf("%w: negative block number %d", ErrMalformedMatrix, dm.Block)
	}
	height := dm.Height()
	for i, col := range dm.Columns {
		if int(col.Index) != i {
			return fmt.Errorf("%w: column %d is at position %d", ErrMalformedMatrix, col.Index, i)
		}
		if len(col.Leaves) != height {
			return fmt.Errorf("%w: column %d has %d leaves, expected %d",
				ErrMalformedMatrix, col.Index, len(col.Leaves), height)
		}
	}
	return nil
}
