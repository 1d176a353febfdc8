package kate

import (
	"context"
	"fmt"
)

// Dimensions of the data matrix of a block.
type Dimensions struct {
	Rows uint16
	Cols uint16
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Rows, d.Cols)
}

// Module serves cells of block data matrices, each as a field element followed by its proof.
//
// Any method signature changed here needs to also be changed in the API struct.
//
//go:generate mockgen -destination=mocks/api.go -package=mocks . Module
type Module interface {
	// QueryProof returns the payload of the cell at (row, col) of the given block.
	QueryProof(ctx context.Context, block uint64, row, col uint16) ([]byte, error)
	// MatrixDimensions returns the dimensions of the data matrix of the given block.
	MatrixDimensions(ctx context.Context, block uint64) (Dimensions, error)
}

var _ Module = (*API)(nil)

// API is a wrapper around Module for the RPC.
type API struct {
	Internal struct {
		QueryProof       func(ctx context.Context, block uint64, row, col uint16) ([]byte, error) `perm:"read"`
		MatrixDimensions func(ctx context.Context, block uint64) (Dimensions, error)              `perm:"read"`
	}
}

func (api *API) QueryProof(ctx context.Context, block uint64, row, col uint16) ([]byte, error) {
	return api.Internal.QueryProof(ctx, block, row, col)
}

func (api *API) MatrixDimensions(ctx context.Context, block uint64) (Dimensions, error) {
	return api.Internal.MatrixDimensions(ctx, block)
}
