package ipld

import (
	"bytes"
	"errors"
	"fmt"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-multihash"
	_ "github.com/multiformats/go-multihash/register/blake3"
)

const (
	// Codec is the multicodec every node of the matrix DAG is serialized with.
	Codec = cid.DagCBOR
	// HashCode is the multihash function every node of the matrix DAG is addressed by.
	HashCode = multihash.BLAKE3
	// HashSize is the digest size of HashCode.
	HashSize = 32
)

// Keys of the matrix root map.
const (
	columnsKey = "columns"
	blockKey   = "block"
	prevKey    = "prev"
)

// Prefix is the CID prefix shared by all nodes of the matrix DAG.
var Prefix = cid.Prefix{
	Version:  1,
	Codec:    Codec,
	MhType:   HashCode,
	MhLength: HashSize,
}

var ErrMalformedNode = errors.New("ipld: malformed node")

// Root is the decoded form of a matrix root node.
type Root struct {
	// Columns links column nodes in ascending column order, as published.
	Columns []cid.Cid
	// Block is the number of the block the matrix belongs to.
	Block int64
	// Prev links the root of the previous block, if any.
	Prev *cid.Cid
}

// NewLeaf wraps a cell payload into a content addressed leaf node.
func NewLeaf(payload []byte) (blocks.Block, error) {
	return encode(basicnode.NewBytes(payload))
}

// NewColumn encodes the ordered list of leaf links as a column node.
func NewColumn(leaves []cid.Cid) (blocks.Block, error) {
	nd, err := qp.BuildList(basicnode.Prototype.Any, int64(len(leaves)), func(la datamodel.ListAssembler) {
		for _, leaf := range leaves {
			qp.ListEntry(la, qp.Link(cidlink.Link{Cid: leaf}))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ipld: building column: %w", err)
	}
	return encode(nd)
}

// NewRoot encodes the matrix root map with exactly the 'columns', 'block' and 'prev' keys.
// A nil Prev is encoded as an explicit null.
func NewRoot(root Root) (blocks.Block, error) {
	nd, err := qp.BuildMap(basicnode.Prototype.Any, 3, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, columnsKey, qp.List(int64(len(root.Columns)), func(la datamodel.ListAssembler) {
			for _, col := range root.Columns {
				qp.ListEntry(la, qp.Link(cidlink.Link{Cid: col}))
			}
		}))
		qp.MapEntry(ma, blockKey, qp.Int(root.Block))
		if root.Prev != nil {
			qp.MapEntry(ma, prevKey, qp.Link(cidlink.Link{Cid: *root.Prev}))
		} else {
			qp.MapEntry(ma, prevKey, qp.Null())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("ipld: building root: %w", err)
	}
	return encode(nd)
}

// DecodeLeaf returns the cell payload kept in the leaf node.
func DecodeLeaf(blk blocks.Block) ([]byte, error) {
	nd, err := decode(blk)
	if err != nil {
		return nil, err
	}
	payload, err := nd.AsBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: leaf %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	return payload, nil
}

// DecodeColumn returns the ordered leaf links kept in the column node.
func DecodeColumn(blk blocks.Block) ([]cid.Cid, error) {
	nd, err := decode(blk)
	if err != nil {
		return nil, err
	}
	links, err := linkList(nd)
	if err != nil {
		return nil, fmt.Errorf("%w: column %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	return links, nil
}

// DecodeRoot decodes the matrix root node.
func DecodeRoot(blk blocks.Block) (*Root, error) {
	nd, err := decode(blk)
	if err != nil {
		return nil, err
	}
	if nd.Kind() != datamodel.Kind_Map || nd.Length() != 3 {
		return nil, fmt.Errorf("%w: root %s is not a three key map", ErrMalformedNode, blk.Cid())
	}

	root := &Root{}
	cols, err := nd.LookupByString(columnsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	if root.Columns, err = linkList(cols); err != nil {
		return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
	}

	block, err := nd.LookupByString(blockKey)
	if err != nil {
		return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	if root.Block, err = block.AsInt(); err != nil {
		return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
	}

	prev, err := nd.LookupByString(prevKey)
	if err != nil {
		return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	if !prev.IsNull() {
		id, err := asCid(prev)
		if err != nil {
			return nil, fmt.Errorf("%w: root %s: %w", ErrMalformedNode, blk.Cid(), err)
		}
		root.Prev = &id
	}
	return root, nil
}

// Links returns every link found in the given node regardless of its kind.
func Links(blk blocks.Block) ([]cid.Cid, error) {
	nd, err := decode(blk)
	if err != nil {
		return nil, err
	}
	var links []cid.Cid
	err = collectLinks(nd, &links)
	return links, err
}

func collectLinks(nd datamodel.Node, links *[]cid.Cid) error {
	switch nd.Kind() {
	case datamodel.Kind_Link:
		id, err := asCid(nd)
		if err != nil {
			return err
		}
		*links = append(*links, id)
	case datamodel.Kind_List:
		it := nd.ListIterator()
		for !it.Done() {
			_, val, err := it.Next()
			if err != nil {
				return err
			}
			if err = collectLinks(val, links); err != nil {
				return err
			}
		}
	case datamodel.Kind_Map:
		it := nd.MapIterator()
		for !it.Done() {
			_, val, err := it.Next()
			if err != nil {
				return err
			}
			if err = collectLinks(val, links); err != nil {
				return err
			}
		}
	}
	return nil
}

func linkList(nd datamodel.Node) ([]cid.Cid, error) {
	if nd.Kind() != datamodel.Kind_List {
		return nil, fmt.Errorf("expected list, got %s", nd.Kind())
	}
	links := make([]cid.Cid, 0, nd.Length())
	it := nd.ListIterator()
	for !it.Done() {
		_, val, err := it.Next()
		if err != nil {
			return nil, err
		}
		id, err := asCid(val)
		if err != nil {
			return nil, err
		}
		links = append(links, id)
	}
	return links, nil
}

func asCid(nd datamodel.Node) (cid.Cid, error) {
	lnk, err := nd.AsLink()
	if err != nil {
		return cid.Undef, err
	}
	cl, ok := lnk.(cidlink.Link)
	if !ok {
		return cid.Undef, fmt.Errorf("unexpected link type %T", lnk)
	}
	return cl.Cid, nil
}

func encode(nd datamodel.Node) (blocks.Block, error) {
	var buf bytes.Buffer
	if err := dagcbor.Encode(nd, &buf); err != nil {
		return nil, fmt.Errorf("ipld: encoding node: %w", err)
	}
	data := buf.Bytes()
	id, err := Prefix.Sum(data)
	if err != nil {
		return nil, fmt.Errorf("ipld: hashing node: %w", err)
	}
	blk, err := blocks.NewBlockWithCid(data, id)
	if err != nil {
		return nil, fmt.Errorf("ipld: wrapping node: %w", err)
	}
	return blk, nil
}

func decode(blk blocks.Block) (datamodel.Node, error) {
	if blk.Cid().Prefix().Codec != Codec {
		return nil, fmt.Errorf("%w: %s is not dag-cbor", ErrMalformedNode, blk.Cid())
	}
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(blk.RawData())); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrMalformedNode, blk.Cid(), err)
	}
	return nb.Build(), nil
}
