package sharetest

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/share"
)

// ProofSize is the size of the proof material appended to random payloads.
const ProofSize = 48

// RandPayload generates a cell payload holding a random canonical field element followed by
// random proof bytes. It uses require.TestingT to be able to take both a *testing.T and a
// *testing.B.
func RandPayload(t require.TestingT) []byte {
	var el fr.Element
	_, err := el.SetRandom()
	require.NoError(t, err)

	payload := make([]byte, share.ScalarSize+ProofSize)
	var scalar [fr.Bytes]byte
	fr.LittleEndian.PutElement(&scalar, el)
	copy(payload, scalar[:])
	_, err = rand.Read(payload[share.ScalarSize:])
	require.NoError(t, err)
	return payload
}

// RandCells generates 'rows' by 'cols' random cells in column-major order.
func RandCells(t require.TestingT, rows, cols int) []share.Cell {
	cells := make([]share.Cell, 0, rows*cols)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			cells = append(cells, share.NewCell(uint16(row), uint16(col), RandPayload(t)))
		}
	}
	return cells
}

// Fetcher serves cell payloads from memory. It counts and records every call.
type Fetcher struct {
	lk    sync.Mutex
	cells map[share.Coord][]byte
	fail  map[share.Coord]error
	calls []share.Coord
	count atomic.Int64
}

// NewFetcher creates a Fetcher serving the given cells for any block.
func NewFetcher(cells []share.Cell) *Fetcher {
	f := &Fetcher{
		cells: make(map[share.Coord][]byte, len(cells)),
		fail:  make(map[share.Coord]error),
	}
	for _, c := range cells {
		f.cells[c.Coord()] = c.Data
	}
	return f
}

// FailAt makes every fetch of the coordinate fail with the given error.
func (f *Fetcher) FailAt(row, col uint16, err error) {
	f.lk.Lock()
	defer f.lk.Unlock()
	f.fail[share.Coord{Row: row, Col: col}] = err
}

func (f *Fetcher) Fetch(_ context.Context, _ uint64, row, col uint16) ([]byte, error) {
	f.count.Add(1)
	coord := share.Coord{Row: row, Col: col}

	f.lk.Lock()
	defer f.lk.Unlock()
	f.calls = append(f.calls, coord)
	if err, ok := f.fail[coord]; ok {
		return nil, err
	}
	data, ok := f.cells[coord]
	if !ok {
		return nil, fmt.Errorf("sharetest: no cell at %s", coord)
	}
	return data, nil
}

// Calls returns the amount of performed fetches.
func (f *Fetcher) Calls() int {
	return int(f.count.Load())
}

// Coords returns fetched coordinates in the order of calls.
func (f *Fetcher) Coords() []share.Coord {
	f.lk.Lock()
	defer f.lk.Unlock()
	return append([]share.Coord(nil), f.calls...)
}
