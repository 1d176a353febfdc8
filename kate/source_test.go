package kate

import (
	"context"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/recovery"
)

func TestSource_QueryProof(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	dims := Dimensions{Rows: 8, Cols: 3}
	src, err := NewSource(dims, 4)
	require.NoError(t, err)

	got, err := src.MatrixDimensions(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, dims, got)

	payload, err := src.QueryProof(ctx, 1, 3, 2)
	require.NoError(t, err)
	require.Len(t, payload, share.ScalarSize+ProofSize)

	// deterministic across instances
	other, err := NewSource(dims, 1)
	require.NoError(t, err)
	again, err := other.QueryProof(ctx, 1, 3, 2)
	require.NoError(t, err)
	require.Equal(t, payload, again)

	next, err := src.QueryProof(ctx, 2, 3, 2)
	require.NoError(t, err)
	require.NotEqual(t, payload, next)

	_, err = src.QueryProof(ctx, 1, dims.Rows, 0)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = src.QueryProof(ctx, 1, 0, dims.Cols)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestSource_ColumnsRecover(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	dims := Dimensions{Rows: 16, Cols: 2}
	src, err := NewSource(dims, 4)
	require.NoError(t, err)

	for col := uint16(0); col < dims.Cols; col++ {
		var (
			cells    []share.Cell
			expected []fr.Element
		)
		for row := uint16(0); row < dims.Rows; row++ {
			payload, err := src.QueryProof(ctx, 9, row, col)
			require.NoError(t, err)
			cell := share.NewCell(row, col, payload)

			el, err := recovery.DecodeScalar(cell)
			require.NoError(t, err)
			expected = append(expected, el)
			// odd rows only
			if row%2 == 1 {
				cells = append(cells, cell)
			}
		}

		column, err := recovery.ReconstructColumn(int(dims.Rows), cells)
		require.NoError(t, err)
		require.Equal(t, expected, column)
	}
}

func TestNewSource_InvalidDimensions(t *testing.T) {
	for _, dims := range []Dimensions{{Rows: 0, Cols: 1}, {Rows: 1, Cols: 1}, {Rows: 6, Cols: 1}, {Rows: 4, Cols: 0}} {
		_, err := NewSource(dims, 1)
		require.Error(t, err, dims)
	}
}
