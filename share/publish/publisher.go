package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/ipld"
)

var (
	log    = logging.Logger("share/publish")
	tracer = otel.Tracer("share/publish")
)

// Store is where the published DAG is kept. It also tracks the root of the latest publish, and
// Head reports share.ErrNoHead until there is one.
type Store interface {
	Put(context.Context, blocks.Block) error
	Head(context.Context) (cid.Cid, error)
	SetHead(context.Context, cid.Cid) error
}

// Pinner reserves blocks against garbage collection. Every block is pinned before it is stored.
// *store.PinScope implements it.
type Pinner interface {
	Pin(context.Context, cid.Cid) error
}

// Publisher writes DataMatrix into the Store as a DAG of leaves, columns and a root chained to the
// root of the previous block.
type Publisher struct {
	store  Store
	params Parameters

	// headLk serializes PushHead
	headLk sync.Mutex

	metrics *metrics
}

// NewPublisher creates a new Publisher over the given Store.
func NewPublisher(store Store, opts ...Option) (*Publisher, error) {
	params := DefaultParameters()
	for _, opt := range opts {
		opt(&params)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Publisher{
		store:  store,
		params: params,
	}, nil
}

// Push publishes the DataMatrix linking its root to 'prev', if given. Every block is pinned
// through the Pinner before it is inserted. The Pinner is owned by the caller, who decides when
// to release it.
//
// Publishing is best effort below the root: a cell that fails is omitted from its column and a
// column that fails is omitted from the root, both reported by the Result. Failing to publish the
// root fails the whole Push.
func (p *Publisher) Push(ctx context.Context, dm *share.DataMatrix, prev *cid.Cid, pinner Pinner) (*Result, error) {
	if dm == nil {
		return nil, fmt.Errorf("publish: %w: nil matrix", share.ErrMalformedMatrix)
	}
	if err := dm.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "push-matrix")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("block", dm.Block),
		attribute.Int("rows", dm.Height()),
		attribute.Int("cols", dm.Width()),
	)

	start := time.Now()
	res, err := p.pushRoot(ctx, dm, prev, pinner)
	p.metrics.observePush(ctx, time.Since(start), res, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("root", res.Root.String()),
		attribute.Int("failed_cells", len(res.Failed)),
		attribute.Int("failed_columns", len(res.FailedColumns)),
	)
	if !res.Complete() {
		log.Warnw("published matrix partially",
			"block", dm.Block,
			"root", res.Root,
			"failed_cells", len(res.Failed),
			"failed_columns", res.FailedColumns,
		)
	}
	log.Debugw("published matrix",
		"block", dm.Block,
		"root", res.Root,
		"took", time.Since(start),
	)
	return res, nil
}

// PushHead publishes the DataMatrix chained to the current head of the Store and makes the new
// root the head. The first publish into an empty Store has no previous root.
func (p *Publisher) PushHead(ctx context.Context, dm *share.DataMatrix, pinner Pinner) (*Result, error) {
	p.headLk.Lock()
	defer p.headLk.Unlock()

	var prev *cid.Cid
	head, err := p.store.Head(ctx)
	switch {
	case err == nil:
		prev = &head
	case errors.Is(err, share.ErrNoHead):
	default:
		return nil, fmt.Errorf("publish: getting head: %w", err)
	}

	res, err := p.Push(ctx, dm, prev, pinner)
	if err != nil {
		return nil, err
	}
	if err := p.store.SetHead(ctx, res.Root); err != nil {
		return nil, fmt.Errorf("publish: setting head: %w", err)
	}
	return res, nil
}

// pushRoot publishes every column and then the root linking the ones that survived.
func (p *Publisher) pushRoot(ctx context.Context, dm *share.DataMatrix, prev *cid.Cid, pinner Pinner) (*Result, error) {
	type columnOutcome struct {
		result ColumnResult
		failed []share.Coord
		err    error
	}

	outcomes := make([]columnOutcome, dm.Width())
	wp := workerpool.New(p.params.Concurrency)
	for i := range dm.Columns {
		wp.Submit(func() {
			res, failed, err := p.pushColumn(ctx, dm.Columns[i], pinner)
			outcomes[i] = columnOutcome{result: res, failed: failed, err: err}
		})
	}
	wp.StopWait()

	res := &Result{}
	links := make([]cid.Cid, 0, len(outcomes))
	for _, out := range outcomes {
		res.Failed = append(res.Failed, out.failed...)
		if out.err != nil {
			log.Debugw("dropping column", "block", dm.Block, "col", out.result.Index, "err", out.err)
			res.FailedColumns = append(res.FailedColumns, out.result.Index)
			continue
		}
		res.Columns = append(res.Columns, out.result)
		links = append(links, out.result.Cid)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := ipld.NewRoot(ipld.Root{
		Columns: links,
		Block:   dm.Block,
		Prev:    prev,
	})
	if err != nil {
		return nil, fmt.Errorf("publish: building root of block %d: %w", dm.Block, err)
	}
	if err := p.pushBlock(ctx, root, pinner); err != nil {
		return nil, fmt.Errorf("publish: root of block %d: %w", dm.Block, err)
	}
	res.Root = root.Cid()
	return res, nil
}

// pushColumn publishes every leaf of the column and then the column node linking the ones that
// survived. Failed cells are returned even when the column node itself fails.
func (p *Publisher) pushColumn(ctx context.Context, col share.Column, pinner Pinner) (ColumnResult, []share.Coord, error) {
	res := ColumnResult{
		Index: col.Index,
		Rows:  make([]uint16, 0, len(col.Leaves)),
	}
	links := make([]cid.Cid, 0, len(col.Leaves))
	var failed []share.Coord
	for row, leaf := range col.Leaves {
		coord := share.Coord{Row: uint16(row), Col: col.Index}
		if err := p.pushCell(ctx, leaf, pinner); err != nil {
			log.Debugw("dropping cell", "coord", coord, "err", err)
			failed = append(failed, coord)
			continue
		}
		res.Rows = append(res.Rows, coord.Row)
		links = append(links, leaf.Cid())
	}

	blk, err := ipld.NewColumn(links)
	if err != nil {
		return res, failed, err
	}
	if err := p.pushBlock(ctx, blk, pinner); err != nil {
		return res, failed, err
	}
	res.Cid = blk.Cid()
	return res, failed, nil
}

// pushCell publishes a single leaf.
func (p *Publisher) pushCell(ctx context.Context, leaf blocks.Block, pinner Pinner) error {
	if leaf == nil {
		return errors.New("publish: missing leaf")
	}
	return p.pushBlock(ctx, leaf, pinner)
}

// pushBlock pins and then inserts the block, so that it is never observable unpinned.
func (p *Publisher) pushBlock(ctx context.Context, blk blocks.Block, pinner Pinner) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pinner.Pin(ctx, blk.Cid()); err != nil {
		return fmt.Errorf("pinning %s: %w", blk.Cid(), err)
	}
	if err := p.store.Put(ctx, blk); err != nil {
		return fmt.Errorf("putting %s: %w", blk.Cid(), err)
	}
	p.metrics.observeBlock(ctx)
	return nil
}
