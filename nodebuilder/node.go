package nodebuilder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/celestiaorg/da-matrix/api/rpc"
	"github.com/celestiaorg/da-matrix/kate"
	"github.com/celestiaorg/da-matrix/nodebuilder/node"
	"github.com/celestiaorg/da-matrix/share/ipld"
	"github.com/celestiaorg/da-matrix/share/matrix"
	"github.com/celestiaorg/da-matrix/share/publish"
	"github.com/celestiaorg/da-matrix/share/recovery"
	"github.com/celestiaorg/da-matrix/store"
)

var (
	log   = logging.Logger("node")
	fxLog = logging.Logger("fx")
)

// ErrPartialMatrix is returned when reading back a matrix whose published DAG does not carry
// every cell. Links only keep positions, so the rows and columns behind them are unknown.
var ErrPartialMatrix = errors.New("node: matrix was published partially")

// Node keeps references to all the components constructing, publishing and serving data matrices
// in one place.
type Node struct {
	fx.In `ignore-unexported:"true"`

	Config *Config

	// rpc components
	RPCServer *rpc.Server `optional:"true"`

	// services
	Kate      kate.Module        // not optional
	AdminServ node.Module        // not optional
	Store     *store.Store       // not optional
	Builder   *matrix.Builder    // not optional
	Publisher *publish.Publisher // not optional

	// start and stop control ref internal fx.App lifecycle funcs to be called from Start and Stop
	start, stop lifecycleFunc
}

// New assembles a new Node over Store 'store'.
func New(store Store, options ...fx.Option) (*Node, error) {
	cfg, err := store.Config()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(store, cfg, options...)
}

// NewWithConfig assembles a new Node over Store 'store' and a custom config.
func NewWithConfig(store Store, cfg *Config, options ...fx.Option) (*Node, error) {
	opts := append([]fx.Option{ConstructModule(cfg, store)}, options...)
	return newNode(opts...)
}

// Start launches the Node and all its components and services.
func (n *Node) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultLifecycleTimeout)
	defer cancel()

	err := n.start(ctx)
	if err != nil {
		log.Debugf("error starting Node: %s", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("node: failed to start within timeout(%s): %w", DefaultLifecycleTimeout, err)
		}
		return fmt.Errorf("node: failed to start: %w", err)
	}

	if n.RPCServer != nil {
		log.Infow("serving kate RPC", "addr", n.RPCServer.ListenAddr())
	}
	log.Debug("started Node")
	return nil
}

// Run is a Start which blocks on the given context 'ctx' until it is canceled.
// If canceled, the Node is still in the running state and should be gracefully stopped via Stop.
func (n *Node) Run(ctx context.Context) error {
	err := n.Start(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// Stop shuts down the Node, all its running Modules/Services and returns.
// Canceling the given context earlier 'ctx' unblocks the Stop and aborts graceful shutdown forcing
// remaining Modules/Services to close immediately.
func (n *Node) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultLifecycleTimeout)
	defer cancel()

	err := n.stop(ctx)
	if err != nil {
		log.Debugf("error stopping Node: %s", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("node: failed to stop within timeout(%s): %w", DefaultLifecycleTimeout, err)
		}
		return fmt.Errorf("node: failed to stop: %w", err)
	}

	log.Debug("stopped Node")
	return nil
}

// Publish constructs the data matrix of the given block out of cells served by the kate module and
// publishes it chained to the current head. Blocks stay pinned until the head moves to the new root.
func (n *Node) Publish(ctx context.Context, block uint64) (*publish.Result, error) {
	dims, err := n.Kate.MatrixDimensions(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("node: getting dimensions of block %d: %w", block, err)
	}

	dm, err := n.Builder.Construct(ctx, block, dims.Rows, dims.Cols)
	if err != nil {
		return nil, err
	}

	scope := n.Store.NewPinScope()
	defer scope.Release()
	res, err := n.Publisher.PushHead(ctx, dm, scope)
	if err != nil {
		return nil, err
	}
	err = n.Store.PutDimensions(ctx, res.Root, store.Dimensions{Rows: dims.Rows, Cols: dims.Cols})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Head returns the root of the latest published matrix.
func (n *Node) Head(ctx context.Context) (cid.Cid, *ipld.Root, error) {
	head, err := n.Store.Head(ctx)
	if err != nil {
		return cid.Undef, nil, err
	}
	rt, err := ipld.GetRoot(ctx, n.Store.Blockservice(), head)
	if err != nil {
		return cid.Undef, nil, err
	}
	return head, rt, nil
}

// Column reads the column of the matrix behind the given root from the store and recovers its
// field elements. The matrix is checked against the dimensions recorded when it was published.
// Matrices published elsewhere are taken as complete if every column has as many rows.
func (n *Node) Column(ctx context.Context, root cid.Cid, col uint16) ([]fr.Element, error) {
	bServ := n.Store.Blockservice()
	rt, err := ipld.GetRoot(ctx, bServ, root)
	if err != nil {
		return nil, err
	}

	dims, err := n.Store.GetDimensions(ctx, root)
	switch {
	case errors.Is(err, store.ErrNoDimensions):
		if dims, err = derivedDimensions(ctx, bServ, root, rt); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	if len(rt.Columns) != int(dims.Cols) {
		return nil, fmt.Errorf("%w: %d of %d columns", ErrPartialMatrix, len(rt.Columns), dims.Cols)
	}

	colCid, links, err := ipld.GetColumn(ctx, bServ, root, int(col))
	if err != nil {
		return nil, err
	}
	if len(links) != int(dims.Rows) {
		return nil, fmt.Errorf("%w: column %d has %d of %d rows", ErrPartialMatrix, col, len(links), dims.Rows)
	}

	cells, err := ipld.GetColumnCells(ctx, bServ, colCid, col, nil)
	if err != nil {
		return nil, err
	}
	return recovery.ReconstructColumn(int(dims.Rows), cells)
}

// derivedDimensions reads dimensions out of the DAG, requiring every column to have the same
// amount of rows.
func derivedDimensions(
	ctx context.Context,
	bGetter blockservice.BlockGetter,
	root cid.Cid,
	rt *ipld.Root,
) (store.Dimensions, error) {
	dims := store.Dimensions{Cols: uint16(len(rt.Columns))}
	for i, colID := range rt.Columns {
		blk, err := ipld.GetNode(ctx, bGetter, colID)
		if err != nil {
			return store.Dimensions{}, err
		}
		links, err := ipld.DecodeColumn(blk)
		if err != nil {
			return store.Dimensions{}, err
		}
		if i == 0 {
			dims.Rows = uint16(len(links))
			continue
		}
		if len(links) != int(dims.Rows) {
			return store.Dimensions{}, fmt.Errorf("%w: column %d has %d rows, column 0 has %d",
				ErrPartialMatrix, i, len(links), dims.Rows)
		}
	}
	log.Debugw("derived matrix dimensions", "root", root, "rows", dims.Rows, "cols", dims.Cols)
	return dims, nil
}

// GC removes blocks which are neither pinned nor reachable from the head.
func (n *Node) GC(ctx context.Context) (int, error) {
	return n.Store.GC(ctx)
}

// newNode creates a new Node from given DI options.
// DI options allow initializing the Node with a customized set of components and services.
func newNode(opts ...fx.Option) (*Node, error) {
	node := new(Node)
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: fxLog.Desugar()}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
		fx.Populate(node),
		fx.Options(opts...),
	)
	if err := app.Err(); err != nil {
		return nil, err
	}

	node.start, node.stop = app.Start, app.Stop
	return node, nil
}

// lifecycleFunc defines a type for common lifecycle funcs.
type lifecycleFunc func(context.Context) error

var DefaultLifecycleTimeout = time.Minute * 2
