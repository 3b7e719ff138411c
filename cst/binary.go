package cst

import (
	"encoding/binary"
	"fmt"

	"github.com/dekarrin/gofortran/rule"
)

// Binary encoding for Node, consumed by the cstcache package via
// rezi.EncBinary/rezi.DecBinary: implement encoding.BinaryMarshaler/
// BinaryUnmarshaler on the domain type and let rezi own the envelope.
//
// The encoding is self-contained and recursive: a length-prefixed string
// for Tag, a four-byte big-endian integer for Kind, length-prefixed strings for Sep and the two
// Delims, a count-prefixed Items vector where each Item is a one-byte
// discriminator (absent/leaf/child) followed by its payload. Src is not
// carried across the wire — it exists only to point a syntax error at
// source text, and a cached tree is by definition one that already parsed
// cleanly.

const (
	itemAbsent byte = iota
	itemLeaf
	itemChild
)

// MarshalBinary implements encoding.BinaryMarshaler.
func (n *Node) MarshalBinary() ([]byte, error) {
	var buf []byte
	n.encodeInto(&buf)
	return buf, nil
}

func (n *Node) encodeInto(buf *[]byte) {
	if n == nil {
		putString(buf, "")
		putUint32(buf, 0)
		return
	}
	putString(buf, string(n.Tag))
	putUint32(buf, uint32(n.Kind))
	putString(buf, n.Sep)
	putString(buf, n.Delims[0])
	putString(buf, n.Delims[1])
	putUint32(buf, uint32(len(n.Items)))
	for _, it := range n.Items {
		switch {
		case it.absent:
			*buf = append(*buf, itemAbsent)
		case it.child != nil:
			*buf = append(*buf, itemChild)
			it.child.encodeInto(buf)
		default:
			*buf = append(*buf, itemLeaf)
			putString(buf, it.leaf)
		}
	}
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (n *Node) UnmarshalBinary(data []byte) error {
	decoded, rest, err := decodeNode(data)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return fmt.Errorf("cst: %d trailing bytes after decoding node", len(rest))
	}
	if decoded == nil {
		*n = Node{}
		return nil
	}
	*n = *decoded
	return nil
}

func decodeNode(data []byte) (*Node, []byte, error) {
	tag, data, err := takeString(data)
	if err != nil {
		return nil, nil, err
	}
	kind, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	if tag == "" && kind == 0 {
		// encodeInto writes exactly tag="" + kind=0 and nothing else for a
		// nil *Node; every real node has a non-empty Tag, so this shape is
		// an unambiguous nil sentinel.
		return nil, data, nil
	}
	sep, data, err := takeString(data)
	if err != nil {
		return nil, nil, err
	}
	d0, data, err := takeString(data)
	if err != nil {
		return nil, nil, err
	}
	d1, data, err := takeString(data)
	if err != nil {
		return nil, nil, err
	}
	count, data, err := takeUint32(data)
	if err != nil {
		return nil, nil, err
	}
	items := make([]Item, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 1 {
			return nil, nil, fmt.Errorf("cst: truncated item discriminator")
		}
		disc := data[0]
		data = data[1:]
		switch disc {
		case itemAbsent:
			items = append(items, AbsentItem())
		case itemLeaf:
			var leaf string
			leaf, data, err = takeString(data)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, LeafItem(leaf))
		case itemChild:
			var child *Node
			child, data, err = decodeNode(data)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, NodeItem(child))
		default:
			return nil, nil, fmt.Errorf("cst: unknown item discriminator %d", disc)
		}
	}
	n := &Node{
		Tag:    rule.Tag(tag),
		Kind:   rule.Kind(kind),
		Sep:    sep,
		Delims: [2]string{d0, d1},
		Items:  items,
	}
	return n, data, nil
}

func putUint32(buf *[]byte, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	*buf = append(*buf, tmp[:]...)
}

func takeUint32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("cst: truncated uint32")
	}
	return binary.BigEndian.Uint32(data[:4]), data[4:], nil
}

func putString(buf *[]byte, s string) {
	putUint32(buf, uint32(len(s)))
	*buf = append(*buf, s...)
}

func takeString(data []byte) (string, []byte, error) {
	n, data, err := takeUint32(data)
	if err != nil {
		return "", nil, err
	}
	if uint32(len(data)) < n {
		return "", nil, fmt.Errorf("cst: truncated string of declared length %d", n)
	}
	return string(data[:n]), data[n:], nil
}
