package share

import (
	"errors"
	"fmt"
)

// ScalarSize is the size of the canonical field element encoding that heads every Cell payload.
const ScalarSize = 32

// ErrShortPayload is returned when a Cell payload cannot hold a field element.
var ErrShortPayload = errors.New("share: cell payload is shorter than a field element")

// Coord identifies a single position in the data matrix of a block.
type Coord struct {
	Row uint16
	Col uint16
}

func (c Coord) String() string {
	return fmt.Sprintf("(row: %d, col: %d)", c.Row, c.Col)
}

// Cell is the payload of one (row, column) coordinate of a block's data matrix.
// The payload is a little-endian canonical field element of ScalarSize bytes, optionally
// followed by the proof material produced for it.
type Cell struct {
	Row  uint16
	Col  uint16
	Data []byte
}

// NewCell constructs a Cell for the given coordinate.
func NewCell(row, col uint16, data []byte) Cell {
	return Cell{Row: row, Col: col, Data: data}
}

// Coord returns the coordinate of the Cell.
func (c Cell) Coord() Coord {
	return Coord{Row: c.Row, Col: c.Col}
}

// Scalar slices out the encoded field element of the Cell.
func (c Cell) Scalar() ([]byte, error) {
	if len(c.Data) < ScalarSize {
		return nil, fmt.Errorf("%w: %s has %d bytes", ErrShortPayload, c.Coord(), len(c.Data))
	}
	return c.Data[:ScalarSize], nil
}

// Proof slices out the proof material following the field element, if any.
func (c Cell) Proof() []byte {
	if len(c.Data) <= ScalarSize {
		return nil
	}
	return c.Data[ScalarSize:]
}
