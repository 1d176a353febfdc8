package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
)

var (
	dimsPrefix = datastore.NewKey("/matrix/dims")

	ErrNoDimensions = errors.New("store: no dimensions recorded for root")
)

// Dimensions are the rows and columns a matrix had when it was published.
type Dimensions struct {
	Rows, Cols uint16
}

// PutDimensions records the dimensions of the matrix published under the root.
func (s *Store) PutDimensions(ctx context.Context, root cid.Cid, dims Dimensions) error {
	raw := make([]byte, 4)
	binary.BigEndian.PutUint16(raw, dims.Rows)
	binary.BigEndian.PutUint16(raw[2:], dims.Cols)
	if err := s.ds.Put(ctx, dimsKey(root), raw); err != nil {
		return fmt.Errorf("store: writing dimensions of %s: %w", root, err)
	}
	return nil
}

// GetDimensions returns the dimensions recorded for the root or ErrNoDimensions.
func (s *Store) GetDimensions(ctx context.Context, root cid.Cid) (Dimensions, error) {
	raw, err := s.ds.Get(ctx, dimsKey(root))
	switch {
	case errors.Is(err, datastore.ErrNotFound):
		return Dimensions{}, ErrNoDimensions
	case err != nil:
		return Dimensions{}, fmt.Errorf("store: reading dimensions of %s: %w", root, err)
	case len(raw) != 4:
		return Dimensions{}, fmt.Errorf("store: corrupted dimensions of %s", root)
	}
	return Dimensions{
		Rows: binary.BigEndian.Uint16(raw),
		Cols: binary.BigEndian.Uint16(raw[2:]),
	}, nil
}

func (s *Store) deleteDimensions(ctx context.Context, root cid.Cid) error {
	err := s.ds.Delete(ctx, dimsKey(root))
	if err != nil && !errors.Is(err, datastore.ErrNotFound) {
		return err
	}
	return nil
}

// dimsKey is derived from the multihash, as blockstore lists keys with a raw codec.
func dimsKey(root cid.Cid) datastore.Key {
	return dimsPrefix.ChildString(root.Hash().B58String())
}
