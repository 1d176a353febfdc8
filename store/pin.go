package store

import (
	"context"
	"errors"
	"sync"

	"github.com/ipfs/go-cid"
)

var ErrScopeReleased = errors.New("store: pin scope is released")

// PinScope is a caller owned reservation keeping blocks alive against garbage collection until
// released. A scope is meant to serve one publish at a time; concurrent independent publishes
// must use distinct scopes, so that releasing one does not drop blocks referenced by another.
type PinScope struct {
	store *Store

	lk       sync.Mutex
	pinned   map[string]struct{}
	released bool
}

// NewPinScope creates an empty PinScope over the Store.
func (s *Store) NewPinScope() *PinScope {
	return &PinScope{
		store:  s,
		pinned: make(map[string]struct{}),
	}
}

// Pin reserves the block behind the CID for the lifetime of the scope. The block does not have
// to be stored yet.
func (p *PinScope) Pin(_ context.Context, id cid.Cid) error {
	p.store.gcLk.RLock()
	defer p.store.gcLk.RUnlock()

	p.lk.Lock()
	defer p.lk.Unlock()
	if p.released {
		return ErrScopeReleased
	}

	key := string(id.Hash())
	if _, ok := p.pinned[key]; ok {
		return nil
	}
	p.pinned[key] = struct{}{}
	p.store.pin(key)
	return nil
}

// Len returns the amount of distinct blocks pinned by the scope.
func (p *PinScope) Len() int {
	p.lk.Lock()
	defer p.lk.Unlock()
	return len(p.pinned)
}

// Release drops every reservation of the scope. Released scope cannot be reused.
func (p *PinScope) Release() {
	p.lk.Lock()
	defer p.lk.Unlock()
	if p.released {
		return
	}
	p.released = true
	for key := range p.pinned {
		p.store.unpin(key)
	}
	p.pinned = nil
}

func (s *Store) pin(key string) {
	s.pinLk.Lock()
	defer s.pinLk.Unlock()
	s.pins[key]++
}

func (s *Store) unpin(key string) {
	s.pinLk.Lock()
	defer s.pinLk.Unlock()
	if s.pins[key] <= 1 {
		delete(s.pins, key)
		return
	}
	s.pins[key]--
}

func (s *Store) isPinned(key string) bool {
	s.pinLk.Lock()
	defer s.pinLk.Unlock()
	return s.pins[key] > 0
}

func (s *Store) pinCount() int {
	s.pinLk.Lock()
	defer s.pinLk.Unlock()
	return len(s.pins)
}
