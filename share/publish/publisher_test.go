package publish

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/ipld"
	"github.com/celestiaorg/da-matrix/share/matrix"
	"github.com/celestiaorg/da-matrix/share/sharetest"
	"github.com/celestiaorg/da-matrix/store"
)

var errInjected = errors.New("injected failure")

func TestPublisher_Push(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	const rows, cols = 2, 2
	dm := randMatrix(ctx, t, 7, rows, cols)
	s := newTestStore(ctx, t)
	scope := s.NewPinScope()
	t.Cleanup(scope.Release)

	pub, err := NewPublisher(s)
	require.NoError(t, err)

	res, err := pub.Push(ctx, dm, nil, scope)
	require.NoError(t, err)
	require.True(t, res.Complete())
	require.Len(t, res.Columns, cols)
	// leaves, columns and the root
	require.Equal(t, rows*cols+cols+1, scope.Len())

	rt, err := ipld.GetRoot(ctx, s.Blockservice(), res.Root)
	require.NoError(t, err)
	require.EqualValues(t, 7, rt.Block)
	require.Nil(t, rt.Prev)
	require.Len(t, rt.Columns, cols)

	for col, colRes := range res.Columns {
		require.EqualValues(t, col, colRes.Index)
		require.Equal(t, []uint16{0, 1}, colRes.Rows)
		require.True(t, colRes.Complete(rows))
		require.True(t, colRes.Cid.Equals(rt.Columns[col]))

		blk, err := s.Get(ctx, colRes.Cid)
		require.NoError(t, err)
		links, err := ipld.DecodeColumn(blk)
		require.NoError(t, err)
		require.Len(t, links, rows)
		for row, link := range links {
			leaf, err := dm.Leaf(uint16(row), uint16(col))
			require.NoError(t, err)
			require.True(t, leaf.Cid().Equals(link))
		}
	}

	t.Run("links previous root", func(t *testing.T) {
		next := randMatrix(ctx, t, 8, rows, cols)
		nextRes, err := pub.Push(ctx, next, &res.Root, scope)
		require.NoError(t, err)

		rt, err := ipld.GetRoot(ctx, s.Blockservice(), nextRes.Root)
		require.NoError(t, err)
		require.NotNil(t, rt.Prev)
		require.True(t, res.Root.Equals(*rt.Prev))
	})
}

func TestPublisher_Deterministic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	dm := randMatrix(ctx, t, 1, 8, 8)

	var roots []cid.Cid
	for _, concurrency := range []int{1, 1, 4} {
		s := newTestStore(ctx, t)
		pub, err := NewPublisher(s, WithConcurrency(concurrency))
		require.NoError(t, err)

		res, err := pub.Push(ctx, dm, nil, s.NewPinScope())
		require.NoError(t, err)
		require.True(t, res.Complete())
		roots = append(roots, res.Root)
	}
	require.True(t, roots[0].Equals(roots[1]))
	require.True(t, roots[0].Equals(roots[2]))
}

func TestPublisher_DropsFailedCells(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	const rows, cols = 4, 3
	dm := randMatrix(ctx, t, 2, rows, cols)
	failed, err := dm.Leaf(1, 2)
	require.NoError(t, err)

	s := &failingStore{Store: newTestStore(ctx, t)}
	s.failOn(failed.Cid())
	pub, err := NewPublisher(s)
	require.NoError(t, err)

	res, err := pub.Push(ctx, dm, nil, s.NewPinScope())
	require.NoError(t, err)
	require.False(t, res.Complete())
	require.Equal(t, []share.Coord{{Row: 1, Col: 2}}, res.Failed)
	require.Empty(t, res.FailedColumns)

	colRes, ok := res.Column(2)
	require.True(t, ok)
	require.Equal(t, []uint16{0, 2, 3}, colRes.Rows)
	require.False(t, colRes.Complete(rows))

	// surviving leaves are linked by position, as a shorter list
	_, links, err := ipld.GetColumn(ctx, s.Blockservice(), res.Root, 2)
	require.NoError(t, err)
	require.Len(t, links, rows-1)
	for i, row := range colRes.Rows {
		leaf, err := dm.Leaf(row, 2)
		require.NoError(t, err)
		require.True(t, leaf.Cid().Equals(links[i]))
	}
}

func TestPublisher_DropsFailedColumns(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	const rows, cols = 2, 3
	dm := randMatrix(ctx, t, 3, rows, cols)

	// find out CID of the middle column
	ref := newTestStore(ctx, t)
	refPub, err := NewPublisher(ref)
	require.NoError(t, err)
	refRes, err := refPub.Push(ctx, dm, nil, ref.NewPinScope())
	require.NoError(t, err)

	s := newTestStore(ctx, t)
	pinner := &failingPinner{Pinner: s.NewPinScope()}
	pinner.failOn(refRes.Columns[1].Cid)
	pub, err := NewPublisher(s)
	require.NoError(t, err)

	res, err := pub.Push(ctx, dm, nil, pinner)
	require.NoError(t, err)
	require.Empty(t, res.Failed)
	require.Equal(t, []uint16{1}, res.FailedColumns)
	require.Len(t, res.Columns, cols-1)
	require.EqualValues(t, 0, res.Columns[0].Index)
	require.EqualValues(t, 2, res.Columns[1].Index)

	rt, err := ipld.GetRoot(ctx, s.Blockservice(), res.Root)
	require.NoError(t, err)
	require.Len(t, rt.Columns, cols-1)
	require.True(t, refRes.Columns[2].Cid.Equals(rt.Columns[1]))
	require.False(t, res.Root.Equals(refRes.Root))
}

func TestPublisher_RootFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	dm := randMatrix(ctx, t, 4, 2, 2)
	ref := newTestStore(ctx, t)
	refPub, err := NewPublisher(ref)
	require.NoError(t, err)
	refRes, err := refPub.Push(ctx, dm, nil, ref.NewPinScope())
	require.NoError(t, err)

	s := &failingStore{Store: newTestStore(ctx, t)}
	s.failOn(refRes.Root)
	pub, err := NewPublisher(s)
	require.NoError(t, err)

	res, err := pub.Push(ctx, dm, nil, s.NewPinScope())
	require.ErrorIs(t, err, errInjected)
	require.Nil(t, res)

	t.Run("released scope", func(t *testing.T) {
		scope := ref.NewPinScope()
		scope.Release()
		_, err := refPub.Push(ctx, dm, nil, scope)
		require.ErrorIs(t, err, store.ErrScopeReleased)
	})

	t.Run("malformed matrix", func(t *testing.T) {
		broken := &share.DataMatrix{Block: 1, Columns: []share.Column{{Index: 1}}}
		_, err := refPub.Push(ctx, broken, nil, ref.NewPinScope())
		require.ErrorIs(t, err, share.ErrMalformedMatrix)
		_, err = refPub.Push(ctx, nil, nil, ref.NewPinScope())
		require.ErrorIs(t, err, share.ErrMalformedMatrix)
	})
}

func TestPublisher_PushHead(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	s := newTestStore(ctx, t)
	scope := s.NewPinScope()
	t.Cleanup(scope.Release)
	pub, err := NewPublisher(s)
	require.NoError(t, err)

	first, err := pub.PushHead(ctx, randMatrix(ctx, t, 1, 2, 2), scope)
	require.NoError(t, err)
	head, err := s.Head(ctx)
	require.NoError(t, err)
	require.True(t, first.Root.Equals(head))

	rt, err := ipld.GetRoot(ctx, s.Blockservice(), first.Root)
	require.NoError(t, err)
	require.Nil(t, rt.Prev)

	second, err := pub.PushHead(ctx, randMatrix(ctx, t, 2, 2, 2), scope)
	require.NoError(t, err)
	head, err = s.Head(ctx)
	require.NoError(t, err)
	require.True(t, second.Root.Equals(head))

	rt, err = ipld.GetRoot(ctx, s.Blockservice(), second.Root)
	require.NoError(t, err)
	require.NotNil(t, rt.Prev)
	require.True(t, first.Root.Equals(*rt.Prev))

	// both matrices survive GC, as the head chains to the first
	scope.Release()
	removed, err := s.GC(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)
}

func TestPublisher_PushHead_AnyStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	s := &mapStore{blocks: make(map[cid.Cid]blocks.Block)}
	pub, err := NewPublisher(s)
	require.NoError(t, err)

	first, err := pub.PushHead(ctx, randMatrix(ctx, t, 1, 2, 2), nopPinner{})
	require.NoError(t, err)
	require.True(t, first.Root.Equals(s.head))

	second, err := pub.PushHead(ctx, randMatrix(ctx, t, 2, 2, 2), nopPinner{})
	require.NoError(t, err)
	rt, err := ipld.DecodeRoot(s.blocks[second.Root])
	require.NoError(t, err)
	require.NotNil(t, rt.Prev)
	require.True(t, first.Root.Equals(*rt.Prev))

	// failing to read the head is not the same as having none
	s.headErr = errInjected
	_, err = pub.PushHead(ctx, randMatrix(ctx, t, 3, 2, 2), nopPinner{})
	require.ErrorIs(t, err, errInjected)
	require.True(t, second.Root.Equals(s.head))
}

func randMatrix(ctx context.Context, t *testing.T, block uint64, rows, cols int) *share.DataMatrix {
	fetcher := sharetest.NewFetcher(sharetest.RandCells(t, rows, cols))
	builder, err := matrix.NewBuilder(fetcher)
	require.NoError(t, err)
	dm, err := builder.Construct(ctx, block, uint16(rows), uint16(cols))
	require.NoError(t, err)
	return dm
}

func newTestStore(ctx context.Context, t *testing.T) *store.Store {
	s, err := store.NewMemStore(ctx, store.DefaultParameters())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

// mapStore keeps blocks in a map.
type mapStore struct {
	lk      sync.Mutex
	blocks  map[cid.Cid]blocks.Block
	head    cid.Cid
	headErr error
}

func (s *mapStore) Put(_ context.Context, blk blocks.Block) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.blocks[blk.Cid()] = blk
	return nil
}

func (s *mapStore) Head(context.Context) (cid.Cid, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	switch {
	case s.headErr != nil:
		return cid.Undef, s.headErr
	case !s.head.Defined():
		return cid.Undef, share.ErrNoHead
	}
	return s.head, nil
}

func (s *mapStore) SetHead(_ context.Context, root cid.Cid) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.head = root
	return nil
}

type nopPinner struct{}

func (nopPinner) Pin(context.Context, cid.Cid) error { return nil }

// failingStore fails to put selected blocks.
type failingStore struct {
	*store.Store

	lk   sync.Mutex
	fail map[cid.Cid]struct{}
}

func (s *failingStore) failOn(id cid.Cid) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if s.fail == nil {
		s.fail = make(map[cid.Cid]struct{})
	}
	s.fail[id] = struct{}{}
}

func (s *failingStore) Put(ctx context.Context, blk blocks.Block) error {
	s.lk.Lock()
	_, fail := s.fail[blk.Cid()]
	s.lk.Unlock()
	if fail {
		return errInjected
	}
	return s.Store.Put(ctx, blk)
}

// failingPinner fails to pin selected blocks.
type failingPinner struct {
	Pinner

	lk   sync.Mutex
	fail map[cid.Cid]struct{}
}

func (p *failingPinner) failOn(id cid.Cid) {
	p.lk.Lock()
	defer p.lk.Unlock()
	if p.fail == nil {
		p.fail = make(map[cid.Cid]struct{})
	}
	p.fail[id] = struct{}{}
}

func (p *failingPinner) Pin(ctx context.Context, id cid.Cid) error {
	p.lk.Lock()
	_, fail := p.fail[id]
	p.lk.Unlock()
	if fail {
		return errInjected
	}
	return p.Pinner.Pin(ctx, id)
}
