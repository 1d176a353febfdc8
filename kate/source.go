package kate

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	lru "github.com/hashicorp/golang-lru/v2"
	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multihash"
	_ "github.com/multiformats/go-multihash/register/blake3"

	"github.com/celestiaorg/da-matrix/share/recovery"
)

var log = logging.Logger("kate")

// ProofSize is the size of the proof material the Source appends to every field element.
const ProofSize = 48

var ErrOutOfRange = errors.New("kate: cell is out of matrix range")

var _ Module = (*Source)(nil)

// Source is a Module generating erasure coded data matrices out of thin air. Every column of a
// block holds Rows/2 pseudo random field elements derived from the block, column and row, extended
// to Rows evaluations, so that any half of a column recovers it. Proofs are digests of their
// field elements and prove nothing.
//
// Source is deterministic: the same block always yields the same cells.
type Source struct {
	dims   Dimensions
	blocks *lru.Cache[uint64, [][]fr.Element]
}

// NewSource creates a Source of matrices with the given dimensions, keeping the last 'cacheSize'
// generated blocks in memory.
func NewSource(dims Dimensions, cacheSize int) (*Source, error) {
	if dims.Rows < 2 || dims.Rows&(dims.Rows-1) != 0 {
		return nil, fmt.Errorf("kate: rows must be a power of two above one, got %d", dims.Rows)
	}
	if dims.Cols == 0 {
		return nil, errors.New("kate: cols must be positive")
	}
	cache, err := lru.New[uint64, [][]fr.Element](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("kate: creating block cache: %w", err)
	}
	return &Source{dims: dims, blocks: cache}, nil
}

func (s *Source) MatrixDimensions(context.Context, uint64) (Dimensions, error) {
	return s.dims, nil
}

func (s *Source) QueryProof(ctx context.Context, block uint64, row, col uint16) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if row >= s.dims.Rows || col >= s.dims.Cols {
		return nil, fmt.Errorf("%w: (row: %d, col: %d) of %s", ErrOutOfRange, row, col, s.dims)
	}

	columns, err := s.matrix(block)
	if err != nil {
		return nil, err
	}
	scalar := recovery.EncodeScalar(columns[col][row])
	proof, err := multihash.Sum(scalar, multihash.BLAKE3, ProofSize)
	if err != nil {
		return nil, fmt.Errorf("kate: digesting cell: %w", err)
	}
	dec, err := multihash.Decode(proof)
	if err != nil {
		return nil, fmt.Errorf("kate: digesting cell: %w", err)
	}
	return append(scalar, dec.Digest...), nil
}

func (s *Source) matrix(block uint64) ([][]fr.Element, error) {
	if columns, ok := s.blocks.Get(block); ok {
		return columns, nil
	}

	columns := make([][]fr.Element, s.dims.Cols)
	for col := range columns {
		data := make([]fr.Element, s.dims.Rows/2)
		for i := range data {
			el, err := seedElement(block, uint16(col), uint16(i))
			if err != nil {
				return nil, err
			}
			data[i] = el
		}
		extended, err := recovery.Extend(data)
		if err != nil {
			return nil, fmt.Errorf("kate: extending column %d: %w", col, err)
		}
		columns[col] = extended
	}
	s.blocks.Add(block, columns)
	log.Debugw("generated matrix", "block", block, "dims", s.dims)
	return columns, nil
}

// seedElement derives a field element out of the coordinate of an original cell.
func seedElement(block uint64, col, i uint16) (fr.Element, error) {
	var seed [12]byte
	binary.BigEndian.PutUint64(seed[:8], block)
	binary.BigEndian.PutUint16(seed[8:10], col)
	binary.BigEndian.PutUint16(seed[10:], i)

	mh, err := multihash.Sum(seed[:], multihash.BLAKE3, fr.Bytes)
	if err != nil {
		return fr.Element{}, fmt.Errorf("kate: seeding element: %w", err)
	}
	dec, err := multihash.Decode(mh)
	if err != nil {
		return fr.Element{}, fmt.Errorf("kate: seeding element: %w", err)
	}
	var el fr.Element
	el.SetBytes(dec.Digest)
	return el, nil
}
