package ipld

import (
	"context"
	"testing"
	"time"

	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"
)

func TestGetCell(t *testing.T) {
	const rows, cols = 4, 3
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	bServ := NewMemBlockservice()

	root, payloads := addMatrix(ctx, t, bServ, rows, cols)

	rt, err := GetRoot(ctx, bServ, root)
	require.NoError(t, err)
	require.Len(t, rt.Columns, cols)

	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			payload, err := GetCell(ctx, bServ, root, row, col)
			require.NoError(t, err)
			require.Equal(t, payloads[col][row], payload)
		}
	}

	_, err = GetCell(ctx, bServ, root, rows, 0)
	require.ErrorIs(t, err, ErrLinkOutOfRange)
	_, _, err = GetColumn(ctx, bServ, root, cols)
	require.ErrorIs(t, err, ErrLinkOutOfRange)
}

func TestGetColumnCells(t *testing.T) {
	const rows, cols = 8, 2
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
	defer cancel()
	bServ := NewMemBlockservice()

	root, payloads := addMatrix(ctx, t, bServ, rows, cols)
	colID, _, err := GetColumn(ctx, bServ, root, 1)
	require.NoError(t, err)

	cells, err := GetColumnCells(ctx, bServ, colID, 1, nil)
	require.NoError(t, err)
	require.Len(t, cells, rows)
	for i, cell := range cells {
		require.EqualValues(t, i, cell.Row)
		require.EqualValues(t, 1, cell.Col)
		require.Equal(t, payloads[1][i], cell.Data)
	}

	mapped := []uint16{0, 2, 3, 5, 6, 7, 9, 11}
	cells, err = GetColumnCells(ctx, bServ, colID, 1, mapped)
	require.NoError(t, err)
	for i, cell := range cells {
		require.Equal(t, mapped[i], cell.Row)
	}

	_, err = GetColumnCells(ctx, bServ, colID, 1, mapped[:3])
	require.Error(t, err)
}

func TestGetNode_NotFound(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	bServ := NewMemBlockservice()

	leaf, err := NewLeaf([]byte("absent"))
	require.NoError(t, err)
	_, err = GetNode(ctx, bServ, leaf.Cid())
	require.ErrorIs(t, err, ErrNodeNotFound)
}

// addMatrix publishes a random matrix directly through the blockservice and returns its root
// with the payloads indexed by [col][row].
func addMatrix(
	ctx context.Context,
	t *testing.T,
	bServ blockservice.BlockService,
	rows, cols int,
) (cid.Cid, [][][]byte) {
	payloads := make([][][]byte, cols)
	colIDs := make([]cid.Cid, cols)
	for col := range payloads {
		payloads[col] = make([][]byte, rows)
		leaves := make([]cid.Cid, rows)
		for row := range payloads[col] {
			payloads[col][row] = randBytes(t, 48)
			leaf, err := NewLeaf(payloads[col][row])
			require.NoError(t, err)
			require.NoError(t, bServ.AddBlock(ctx, leaf))
			leaves[row] = leaf.Cid()
		}
		colBlk, err := NewColumn(leaves)
		require.NoError(t, err)
		require.NoError(t, bServ.AddBlock(ctx, colBlk))
		colIDs[col] = colBlk.Cid()
	}

	rootBlk, err := NewRoot(Root{Columns: colIDs, Block: 1})
	require.NoError(t, err)
	require.NoError(t, bServ.AddBlock(ctx, rootBlk))
	return rootBlk.Cid(), payloads
}
