package recovery

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	lru "github.com/hashicorp/golang-lru/v2"
	logging "github.com/ipfs/go-log/v2"

	"github.com/celestiaorg/da-matrix/share"
)

var log = logging.Logger("share/recovery")

// MaxRows is the maximum amount of rows a column may have, bounded by the range of row indexes.
const MaxRows = 1 << 16

// DefaultDomainCacheSize is the amount of evaluation domains kept by the Reconstructor.
const DefaultDomainCacheSize = 16

var defaultReconstructor = mustReconstructor(DefaultDomainCacheSize)

// Reconstructor recovers full columns out of partial sets of their cells. It caches evaluation
// domains by size, as their construction precomputes twiddle factors. Reconstructor is
// thread-safe.
type Reconstructor struct {
	domains *lru.Cache[uint64, *fft.Domain]
}

// NewReconstructor creates a Reconstructor caching up to 'cacheSize' evaluation domains.
func NewReconstructor(cacheSize int) (*Reconstructor, error) {
	domains, err := lru.New[uint64, *fft.Domain](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("recovery: creating domain cache: %w", err)
	}
	return &Reconstructor{domains: domains}, nil
}

// ReconstructColumn recovers all 'rows' evaluations of a column with the default Reconstructor.
func ReconstructColumn(rows int, cells []share.Cell) ([]fr.Element, error) {
	return defaultReconstructor.ReconstructColumn(rows, cells)
}

// ReconstructColumn recovers all 'rows' field elements of the column the cells belong to, in row
// order. At least half of the rows have to be given. The result is the same for any valid subset
// of cells.
//
// Cells with a repeated row are ignored after the first one, so recovery may still fail with
// ErrInterpolation if there are not enough distinct rows.
func (r *Reconstructor) ReconstructColumn(rows int, cells []share.Cell) ([]fr.Element, error) {
	if err := validate(rows, cells); err != nil {
		return nil, err
	}

	samples := make([]*fr.Element, rows)
	for _, cell := range cells {
		if samples[cell.Row] != nil {
			log.Debugw("ignoring repeated row", "row", cell.Row, "col", cell.Col)
			continue
		}
		el, err := DecodeScalar(cell)
		if err != nil {
			return nil, err
		}
		samples[cell.Row] = &el
	}

	column, err := Interpolate(r.domain(uint64(rows)), samples)
	if err != nil {
		log.Debugw("reconstructing column", "col", cells[0].Col, "rows", rows, "err", err)
		return nil, err
	}
	return column, nil
}

func (r *Reconstructor) domain(size uint64) *fft.Domain {
	if domain, ok := r.domains.Get(size); ok {
		return domain
	}
	domain := fft.NewDomain(size)
	r.domains.Add(size, domain)
	return domain
}

func validate(rows int, cells []share.Cell) error {
	if rows <= 0 || rows&(rows-1) != 0 {
		return fmt.Errorf("%w: %d", ErrNotPowerOfTwo, rows)
	}
	if rows > MaxRows {
		return fmt.Errorf("%w: %d", ErrTooManyRows, rows)
	}
	if len(cells) == 0 {
		return ErrEmptyCells
	}
	if len(cells) < rows/2 {
		return fmt.Errorf("%w: %d of %d rows, need at least %d", ErrNotEnoughSamples, len(cells), rows, rows/2)
	}
	if len(cells) > rows {
		return fmt.Errorf("%w: %d for %d rows", ErrTooManySamples, len(cells), rows)
	}

	col := cells[0].Col
	for _, cell := range cells {
		if cell.Col != col {
			return fmt.Errorf("%w: %d and %d", ErrColumnMismatch, col, cell.Col)
		}
		if int(cell.Row) >= rows {
			return fmt.Errorf("%w: row %d of %d", ErrRowOutOfRange, cell.Row, rows)
		}
	}
	return nil
}

func mustReconstructor(cacheSize int) *Reconstructor {
	r, err := NewReconstructor(cacheSize)
	if err != nil {
		panic(err)
	}
	return r
}
