package recovery

import (
	"math/bits"
	"runtime"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/share"
)

func TestReconstructColumn_AnySubset(t *testing.T) {
	const rows = 8
	expected, cells := randColumn(t, rows, 3)

	// every subset at or above the threshold recovers the same column
	for mask := uint(0); mask < 1<<rows; mask++ {
		if bits.OnesCount(mask) < rows/2 {
			continue
		}
		subset := make([]share.Cell, 0, rows)
		for i := range cells {
			if mask&(1<<i) != 0 {
				subset = append(subset, cells[i])
			}
		}

		column, err := ReconstructColumn(rows, subset)
		require.NoError(t, err, "mask %08b", mask)
		require.Equal(t, expected, column, "mask %08b", mask)
	}
}

func TestReconstructColumn_Threshold(t *testing.T) {
	const rows = 16
	expected, cells := randColumn(t, rows, 0)

	_, err := ReconstructColumn(rows, cells[:rows/2-1])
	require.ErrorIs(t, err, ErrNotEnoughSamples)
	require.ErrorIs(t, err, ErrContract)

	column, err := ReconstructColumn(rows, cells[rows/2:])
	require.NoError(t, err)
	require.Equal(t, expected, column)

	column, err = ReconstructColumn(rows, cells)
	require.NoError(t, err)
	require.Equal(t, expected, column)

	_, err = ReconstructColumn(rows, append(cells, cells[0]))
	require.ErrorIs(t, err, ErrTooManySamples)
}

func TestReconstructColumn_MaxRows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping reconstruction of the largest column in short mode")
	}

	expected, cells := randColumn(t, MaxRows, 0)
	odd := make([]share.Cell, 0, MaxRows/2)
	for i := 1; i < len(cells); i += 2 {
		odd = append(odd, cells[i])
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	column, err := ReconstructColumn(MaxRows, odd)
	runtime.ReadMemStats(&after)
	require.NoError(t, err)
	require.Equal(t, expected, column)

	// the column itself takes 2 MiB, recovery has to stay within a small multiple of it
	allocated := after.TotalAlloc - before.TotalAlloc
	require.Less(t, allocated, uint64(512<<20), "allocated %d MiB", allocated>>20)
}

func TestReconstructColumn_ContractViolations(t *testing.T) {
	const rows = 8
	_, cells := randColumn(t, rows, 1)

	t.Run("not a power of two", func(t *testing.T) {
		for _, rows := range []int{0, 6, 10} {
			_, err := ReconstructColumn(rows, cells[:rows/2])
			require.ErrorIs(t, err, ErrNotPowerOfTwo, "rows %d", rows)
			require.ErrorIs(t, err, ErrContract)
		}
	})

	t.Run("too many rows", func(t *testing.T) {
		_, err := ReconstructColumn(MaxRows*2, cells)
		require.ErrorIs(t, err, ErrTooManyRows)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReconstructColumn(1, nil)
		require.ErrorIs(t, err, ErrEmptyCells)
	})

	t.Run("column mismatch", func(t *testing.T) {
		mixed := append([]share.Cell(nil), cells...)
		mixed[5].Col = 2
		_, err := ReconstructColumn(rows, mixed)
		require.ErrorIs(t, err, ErrColumnMismatch)
	})

	t.Run("row out of range", func(t *testing.T) {
		shifted := append([]share.Cell(nil), cells[:rows/2]...)
		shifted[0].Row = rows
		_, err := ReconstructColumn(rows, shifted)
		require.ErrorIs(t, err, ErrRowOutOfRange)
	})
}

func TestReconstructColumn_MalformedSample(t *testing.T) {
	const rows = 4
	_, cells := randColumn(t, rows, 0)

	short := append([]share.Cell(nil), cells...)
	short[1].Data = short[1].Data[:share.ScalarSize-1]
	_, err := ReconstructColumn(rows, short)
	require.ErrorIs(t, err, ErrMalformedSample)
	require.ErrorIs(t, err, share.ErrShortPayload)
	var sampleErr *SampleError
	require.ErrorAs(t, err, &sampleErr)
	require.EqualValues(t, 1, sampleErr.Row)

	// all ones is above the field modulus
	nonCanonical := append([]share.Cell(nil), cells...)
	data := make([]byte, share.ScalarSize)
	for i := range data {
		data[i] = 0xff
	}
	nonCanonical[2].Data = data
	_, err = ReconstructColumn(rows, nonCanonical)
	require.ErrorIs(t, err, ErrMalformedSample)
	require.ErrorAs(t, err, &sampleErr)
	require.EqualValues(t, 2, sampleErr.Row)
}

func TestReconstructColumn_InterpolationFailures(t *testing.T) {
	const rows = 8
	_, cells := randColumn(t, rows, 0)

	t.Run("repeated rows", func(t *testing.T) {
		repeated := []share.Cell{cells[0], cells[1], cells[2], cells[2]}
		_, err := ReconstructColumn(rows, repeated)
		require.ErrorIs(t, err, ErrInterpolation)
		require.NotErrorIs(t, err, ErrContract)
	})

	t.Run("inconsistent samples", func(t *testing.T) {
		tampered := append([]share.Cell(nil), cells[:rows/2+1]...)
		var other fr.Element
		other.SetUint64(42)
		tampered[rows/2].Data = EncodeScalar(other)
		_, err := ReconstructColumn(rows, tampered)
		require.ErrorIs(t, err, ErrInconsistentSamples)
	})
}

func TestExtend(t *testing.T) {
	data := make([]fr.Element, 4)
	for i := range data {
		_, err := data[i].SetRandom()
		require.NoError(t, err)
	}

	extended, err := Extend(data)
	require.NoError(t, err)
	require.Len(t, extended, 8)
	for i := range data {
		require.True(t, data[i].Equal(&extended[2*i]))
	}

	_, err = Extend(data[:3])
	require.ErrorIs(t, err, ErrNotPowerOfTwo)
}

func TestReconstructor_CachesDomains(t *testing.T) {
	r, err := NewReconstructor(2)
	require.NoError(t, err)

	for _, rows := range []int{4, 8, 4} {
		expected, cells := randColumn(t, rows, 0)
		column, err := r.ReconstructColumn(rows, cells[:rows/2])
		require.NoError(t, err)
		require.Equal(t, expected, column)
	}
	require.Equal(t, 2, r.domains.Len())
}

// randColumn generates a random erasure coded column of the given amount of rows and returns it
// together with its cells.
func randColumn(t *testing.T, rows int, col uint16) ([]fr.Element, []share.Cell) {
	data := make([]fr.Element, rows/2)
	for i := range data {
		_, err := data[i].SetRandom()
		require.NoError(t, err)
	}
	column, err := Extend(data)
	require.NoError(t, err)

	cells := make([]share.Cell, rows)
	for i := range column {
		payload := append(EncodeScalar(column[i]), []byte("proof")...)
		cells[i] = share.NewCell(uint16(i), col, payload)
	}
	return column, cells
}
