package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ipfs/boxo/blockservice"
	"github.com/ipfs/boxo/blockstore"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/ipfs/go-log/v2"

	"github.com/celestiaorg/da-matrix/share"
	"github.com/celestiaorg/da-matrix/share/ipld"
)

var log = logging.Logger("store")

var (
	headKey = datastore.NewKey("/matrix/head")

	ErrNoHead = share.ErrNoHead
)

// Store is a content addressed storage for matrix DAG nodes. It keeps blocks in a blockstore over
// the given datastore, reserves in-flight blocks against garbage collection through PinScopes and
// tracks the root of the latest published matrix as the head. Store is thread-safe.
type Store struct {
	ds    datastore.Batching
	bs    blockstore.Blockstore
	bServ blockservice.BlockService

	// gcLk excludes garbage collection from Put and Pin
	gcLk sync.RWMutex
	// pinLk protects pins
	pinLk sync.Mutex
	// pins keeps the amount of live scopes pinning a multihash
	pins map[string]int

	metrics *metrics
}

// NewStore creates a new Store over the given datastore.
func NewStore(ctx context.Context, params *Parameters, ds datastore.Batching) (*Store, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var bs blockstore.Blockstore = blockstore.NewBlockstore(ds)
	if params.HasCacheSize > 0 {
		var err error
		bs, err = blockstore.CachedBlockstore(ctx, bs, blockstore.CacheOpts{
			HasTwoQueueCacheSize: params.HasCacheSize,
		})
		if err != nil {
			return nil, fmt.Errorf("store: creating cached blockstore: %w", err)
		}
	}

	return &Store{
		ds:    ds,
		bs:    bs,
		bServ: ipld.NewBlockservice(bs, nil),
		pins:  make(map[string]int),
	}, nil
}

// NewMemStore creates a new Store kept in memory.
func NewMemStore(ctx context.Context, params *Parameters) (*Store, error) {
	return NewStore(ctx, params, dssync.MutexWrap(datastore.NewMapDatastore()))
}

// Blockservice gives read access to the stored DAGs.
func (s *Store) Blockservice() blockservice.BlockService {
	return s.bServ
}

// Put inserts the block into the store.
func (s *Store) Put(ctx context.Context, blk blocks.Block) error {
	s.gcLk.RLock()
	defer s.gcLk.RUnlock()

	tNow := time.Now()
	err := s.bs.Put(ctx, blk)
	s.metrics.observePut(ctx, time.Since(tNow), len(blk.RawData()), err != nil)
	if err != nil {
		return fmt.Errorf("store: putting %s: %w", blk.Cid(), err)
	}
	return nil
}

// Get returns the block behind the CID.
func (s *Store) Get(ctx context.Context, id cid.Cid) (blocks.Block, error) {
	return s.bs.Get(ctx, id)
}

// Has reports whether the block behind the CID is stored.
func (s *Store) Has(ctx context.Context, id cid.Cid) (bool, error) {
	return s.bs.Has(ctx, id)
}

// Head returns the root of the latest published matrix or ErrNoHead.
func (s *Store) Head(ctx context.Context) (cid.Cid, error) {
	raw, err := s.ds.Get(ctx, headKey)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return cid.Undef, ErrNoHead
		}
		return cid.Undef, fmt.Errorf("store: reading head: %w", err)
	}
	id, err := cid.Cast(raw)
	if err != nil {
		return cid.Undef, fmt.Errorf("store: corrupted head: %w", err)
	}
	return id, nil
}

// SetHead persists the given root as the head. The root must be stored.
func (s *Store) SetHead(ctx context.Context, root cid.Cid) error {
	has, err := s.bs.Has(ctx, root)
	if err != nil {
		return fmt.Errorf("store: checking head %s: %w", root, err)
	}
	if !has {
		return fmt.Errorf("store: head %s is not stored", root)
	}
	if err := s.ds.Put(ctx, headKey, root.Bytes()); err != nil {
		return fmt.Errorf("store: writing head: %w", err)
	}
	if err := s.ds.Sync(ctx, headKey); err != nil {
		return fmt.Errorf("store: syncing head: %w", err)
	}
	log.Debugw("head updated", "root", root)
	return nil
}

// Close releases resources held by the Store. The underlying datastore is owned by the caller
// and stays open.
func (s *Store) Close() error {
	return s.metrics.close()
}
