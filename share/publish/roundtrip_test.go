package publish

import (
	"context"
	"testing"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/ipld"
	"github.com/celestiaorg/da-matrix/share/matrix"
	"github.com/celestiaorg/da-matrix/share/recovery"
	"github.com/celestiaorg/da-matrix/share/sharetest"
)

// TestPublisher_ReconstructFromDAG publishes an erasure coded matrix with half of a column lost
// and recovers the column out of what was published.
func TestPublisher_ReconstructFromDAG(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	const rows, cols = 8, 2
	columns := make([][]fr.Element, cols)
	var cells []share.Cell
	for col := range columns {
		data := make([]fr.Element, rows/2)
		for i := range data {
			_, err := data[i].SetRandom()
			require.NoError(t, err)
		}
		extended, err := recovery.Extend(data)
		require.NoError(t, err)
		columns[col] = extended

		for row, el := range extended {
			payload := append(recovery.EncodeScalar(el), []byte("proof")...)
			cells = append(cells, share.NewCell(uint16(row), uint16(col), payload))
		}
	}

	builder, err := matrix.NewBuilder(sharetest.NewFetcher(cells), matrix.WithConcurrency(4))
	require.NoError(t, err)
	dm, err := builder.Construct(ctx, 10, rows, cols)
	require.NoError(t, err)

	s := &failingStore{Store: newTestStore(ctx, t)}
	for _, row := range []uint16{1, 3, 4, 6} {
		leaf, err := dm.Leaf(row, 1)
		require.NoError(t, err)
		s.failOn(leaf.Cid())
	}

	pub, err := NewPublisher(s, WithConcurrency(2))
	require.NoError(t, err)
	scope := s.NewPinScope()
	t.Cleanup(scope.Release)
	res, err := pub.PushHead(ctx, dm, scope)
	require.NoError(t, err)
	require.Len(t, res.Failed, rows/2)

	for col := range columns {
		colRes, ok := res.Column(uint16(col))
		require.True(t, ok)

		got, err := ipld.GetColumnCells(ctx, s.Blockservice(), colRes.Cid, colRes.Index, colRes.Rows)
		require.NoError(t, err)

		column, err := recovery.ReconstructColumn(rows, got)
		require.NoError(t, err)
		require.Equal(t, columns[col], column)
	}
}
