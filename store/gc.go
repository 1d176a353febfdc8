package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"
	format "github.com/ipfs/go-ipld-format"

	"github.com/celestiaorg/da-matrix/share/ipld"
)

// GC removes every stored block which is neither pinned by a live PinScope nor reachable from
// the head, following the chain of previous roots. It returns the amount of removed blocks.
func (s *Store) GC(ctx context.Context) (int, error) {
	s.gcLk.Lock()
	defer s.gcLk.Unlock()

	tNow := time.Now()
	live, err := s.mark(ctx)
	if err != nil {
		s.metrics.observeGC(ctx, time.Since(tNow), 0, true)
		return 0, fmt.Errorf("store: marking live blocks: %w", err)
	}

	keys, err := s.bs.AllKeysChan(ctx)
	if err != nil {
		s.metrics.observeGC(ctx, time.Since(tNow), 0, true)
		return 0, fmt.Errorf("store: listing blocks: %w", err)
	}

	var (
		removed int
		sweep   []cid.Cid
	)
	for id := range keys {
		key := string(id.Hash())
		if _, ok := live[key]; ok || s.isPinned(key) {
			continue
		}
		sweep = append(sweep, id)
	}
	for _, id := range sweep {
		if err := s.bs.DeleteBlock(ctx, id); err != nil {
			s.metrics.observeGC(ctx, time.Since(tNow), removed, true)
			return removed, fmt.Errorf("store: deleting %s: %w", id, err)
		}
		if err := s.deleteDimensions(ctx, id); err != nil {
			s.metrics.observeGC(ctx, time.Since(tNow), removed, true)
			return removed, fmt.Errorf("store: deleting dimensions of %s: %w", id, err)
		}
		removed++
	}

	s.metrics.observeGC(ctx, time.Since(tNow), removed, false)
	log.Infow("garbage collected", "removed", removed, "live", len(live), "took", time.Since(tNow))
	return removed, ctx.Err()
}

// mark walks the DAG down from the head and collects multihashes of every reachable block.
func (s *Store) mark(ctx context.Context) (map[string]struct{}, error) {
	live := make(map[string]struct{})
	head, err := s.Head(ctx)
	if errors.Is(err, ErrNoHead) {
		return live, nil
	}
	if err != nil {
		return nil, err
	}

	stack := []cid.Cid{head}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := string(id.Hash())
		if _, ok := live[key]; ok {
			continue
		}
		live[key] = struct{}{}

		blk, err := s.bs.Get(ctx, id)
		switch {
		case format.IsNotFound(err):
			// partially stored DAGs are expected, as failed leaves are never inserted
			log.Debugw("skipping missing block", "cid", id)
			continue
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", id, err)
		}
		links, err := ipld.Links(blk)
		if err != nil {
			return nil, err
		}
		stack = append(stack, links...)
	}
	return live, nil
}
