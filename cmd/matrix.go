package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/celestiaorg/da-matrix/libs/utils"
	"github.com/celestiaorg/da-matrix/nodebuilder"
	"github.com/celestiaorg/da-matrix/share/ipld"
	"github.com/celestiaorg/da-matrix/share/publish"
)

var (
	blockFlag = "block"
	colFlag   = "col"
	rootFlag  = "root"
)

// Publish constructs a CLI command building the matrix of a block and publishing it on top of the
// current head.
func Publish(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "publish",
		Short:        "Builds the data matrix of the given block and publishes it chained to the current head.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			block, err := cmd.Flags().GetUint64(blockFlag)
			if err != nil {
				return err
			}

			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				res, err := nd.Publish(ctx, block)
				return PrintOutput(res, err, func(data interface{}) interface{} {
					return formatResult(data.(*publish.Result))
				})
			})
		},
	}
	cmd.Flags().Uint64(blockFlag, 0, "Number of the block to publish the matrix of")
	cmd.MarkFlagRequired(blockFlag) //nolint:errcheck
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

// Head constructs a CLI command printing the root of the latest published matrix.
func Head(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "head",
		Short:        "Prints the root of the latest published matrix.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				head, root, err := nd.Head(ctx)
				return PrintOutput(root, err, func(data interface{}) interface{} {
					return formatRoot(head, data.(*ipld.Root))
				})
			})
		},
	}
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

// Column constructs a CLI command reading a column of a published matrix and recovering its
// field elements.
func Column(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "column",
		Short:        "Reads a column of a published matrix and recovers its field elements.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			col, err := cmd.Flags().GetUint16(colFlag)
			if err != nil {
				return err
			}
			var root cid.Cid
			if raw := cmd.Flag(rootFlag).Value.String(); raw != "" {
				root, err = cid.Decode(raw)
				if err != nil {
					return fmt.Errorf("cmd: while parsing '%s': %w", rootFlag, err)
				}
			}

			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				if !root.Defined() {
					root, _, err = nd.Head(ctx)
					if err != nil {
						return err
					}
				}

				column, err := nd.Column(ctx, root, col)
				if err != nil {
					return PrintOutput(nil, err, nil)
				}
				elems := make([]string, len(column))
				for i := range column {
					elems[i] = column[i].String()
				}
				return PrintOutput(elems, nil, nil)
			})
		},
	}
	cmd.Flags().Uint16(colFlag, 0, "Index of the column to read")
	cmd.Flags().String(rootFlag, "", "Root of the matrix to read from (default: head)")
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

// GC constructs a CLI command removing blocks unreachable from the head.
func GC(fsets ...*flag.FlagSet) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gc",
		Short:        "Removes stored blocks which are unreachable from the head.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				removed, err := nd.GC(ctx)
				return PrintOutput(struct {
					Removed int `json:"removed"`
				}{removed}, err, nil)
			})
		},
	}
	for _, set := range fsets {
		cmd.Flags().AddFlagSet(set)
	}
	return cmd
}

// withNode runs the given func over a started Node, which is stopped right after.
func withNode(cmd *cobra.Command, fn func(context.Context, *nodebuilder.Node) error) (err error) {
	ctx := cmd.Context()

	cfg := NodeConfig(ctx)
	// one-shot commands never serve
	cfg.RPC.Enabled = false

	store, err := nodebuilder.OpenStore(StorePath(ctx))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	nd, err := nodebuilder.NewWithConfig(store, &cfg, NodeOptions(ctx)...)
	if err != nil {
		return err
	}
	if err = nd.Start(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, nd.Stop(utils.ResetContextOnError(ctx)))
	}()

	return fn(ctx, nd)
}

func formatResult(res *publish.Result) interface{} {
	type column struct {
		Index uint16   `json:"index"`
		Cid   string   `json:"cid"`
		Rows  []uint16 `json:"rows,omitempty"`
	}
	type result struct {
		Root          string   `json:"root"`
		Columns       []column `json:"columns"`
		Failed        []string `json:"failed_cells,omitempty"`
		FailedColumns []uint16 `json:"failed_columns,omitempty"`
	}

	out := result{
		Root:          res.Root.String(),
		Columns:       make([]column, len(res.Columns)),
		FailedColumns: res.FailedColumns,
	}
	for i, col := range res.Columns {
		out.Columns[i] = column{Index: col.Index, Cid: col.Cid.String()}
		// rows are only worth printing when some are missing
		if len(res.Failed) != 0 {
			out.Columns[i].Rows = col.Rows
		}
	}
	for _, coord := range res.Failed {
		out.Failed = append(out.Failed, coord.String())
	}
	return out
}

func formatRoot(head cid.Cid, root *ipld.Root) interface{} {
	type formatted struct {
		Root    string   `json:"root"`
		Block   int64    `json:"block"`
		Prev    string   `json:"prev,omitempty"`
		Columns []string `json:"columns"`
	}

	out := formatted{
		Root:    head.String(),
		Block:   root.Block,
		Columns: make([]string, len(root.Columns)),
	}
	if root.Prev != nil {
		out.Prev = root.Prev.String()
	}
	for i, col := range root.Columns {
		out.Columns[i] = col.String()
	}
	return out
}
