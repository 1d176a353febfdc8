package publish

import (
	"github.com/ipfs/go-cid"

	"github.com/celestiaorg/da-matrix/share"
)

// ColumnResult describes a published column node.
type ColumnResult struct {
	Index uint16
	Cid   cid.Cid
	// Rows lists rows whose leaves are linked by the column, in link order.
	// Link position i refers to row Rows[i].
	Rows []uint16
}

// Complete reports whether every leaf of a column of the given height is linked.
func (c ColumnResult) Complete(height int) bool {
	return len(c.Rows) == height
}

// Result describes the outcome of a publish. Published DAG nodes only link surviving children by
// position, so Result is the only place telling dropped cells and columns apart from absent ones.
type Result struct {
	Root cid.Cid
	// Columns lists published columns in ascending column order.
	// Root link position i refers to column Columns[i].Index.
	Columns []ColumnResult
	// Failed lists cells that failed to be pinned or stored, in column-major order.
	Failed []share.Coord
	// FailedColumns lists columns whose own node failed to be built, pinned or stored, in
	// ascending order. Such columns are missing from the root altogether.
	FailedColumns []uint16
}

// Complete reports whether nothing was dropped.
func (r *Result) Complete() bool {
	return len(r.Failed) == 0 && len(r.FailedColumns) == 0
}

// Column returns the published column with the given index, if any.
func (r *Result) Column(index uint16) (ColumnResult, bool) {
	for _, col := range r.Columns {
		if col.Index == index {
			return col, true
		}
	}
	return ColumnResult{}, false
}
