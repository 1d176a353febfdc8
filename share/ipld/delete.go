package ipld

import (
	"context"
	"errors"

	"github.com/ipfs/boxo/blockservice"
	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
)

// DeleteNode deletes the Node behind the CID. It also recursively deletes all other Nodes linked
// behind the Node. Matrix roots are deleted together with their columns and leaves, but the
// link to the previous root is not followed.
func DeleteNode(ctx context.Context, bserv blockservice.BlockService, id cid.Cid) error {
	blk, err := GetNode(ctx, bserv, id)
	if err != nil {
		if errors.Is(err, ErrNodeNotFound) {
			return nil
		}
		return err
	}

	links, err := children(blk)
	if err != nil {
		return err
	}
	for _, lnk := range links {
		if err := DeleteNode(ctx, bserv, lnk); err != nil {
			return err
		}
	}

	return bserv.DeleteBlock(ctx, id)
}

func children(blk blocks.Block) ([]cid.Cid, error) {
	if rt, err := DecodeRoot(blk); err == nil {
		return rt.Columns, nil
	}
	return Links(blk)
}
