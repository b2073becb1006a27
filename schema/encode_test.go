package schema

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ionos-cloud/netlinklib/wire"
)

func TestAttrEncodesSizeAutomatically(t *testing.T) {
	b, err := Attr(tAttr, 3, wire.U32, wire.Uint(0x01020304)).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(b) != tAttr.Size()+4 {
		t.Fatalf("expected %d bytes, got %d", tAttr.Size()+4, len(b))
	}
	vals, err := tAttr.Unpack(b)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if size, _ := tAttr.SizeValue(vals); size != len(b) {
		t.Fatalf("size field %d, want %d", size, len(b))
	}
	if tag, _ := tAttr.TagValue(vals); tag != 3 {
		t.Fatalf("tag field %d, want 3", tag)
	}
}

func TestExplicitSizeIsNotOverwritten(t *testing.T) {
	n := &EncodeNode{
		Layout: tAttr,
		Values: map[string]wire.Value{
			"alen": wire.Uint(99),
			"atyp": wire.Uint(1),
		},
		Raw: []byte{0xaa},
	}
	b, err := n.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	vals, _ := tAttr.Unpack(b)
	if size, _ := tAttr.SizeValue(vals); size != 99 {
		t.Fatalf("explicit size overwritten: %d", size)
	}
}

func TestNestPadsChildrenToAlignment(t *testing.T) {
	// A 1-byte payload makes the inner attribute 5 bytes; its sibling
	// must start on the next 4-byte boundary.
	n := Nest(tAttr, 1,
		&EncodeNode{
			Layout: tAttr,
			Values: map[string]wire.Value{"atyp": wire.Uint(2)},
			Raw:    []byte{0xaa},
		},
		Attr(tAttr, 3, wire.U32, wire.Uint(7)),
	)
	b, err := n.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// outer 4 + inner 5 + 3 pad + sibling 8
	if len(b) != 20 {
		t.Fatalf("expected 20 bytes, got %d", len(b))
	}
	vals, _ := tAttr.Unpack(b)
	if size, _ := tAttr.SizeValue(vals); size != 20 {
		t.Fatalf("outer size %d, want 20", size)
	}
	if !bytes.Equal(b[9:12], []byte{0, 0, 0}) {
		t.Fatalf("expected zero padding after inner attribute, got %x", b[9:12])
	}
	sibling, err := tAttr.Unpack(b[12:])
	if err != nil {
		t.Fatalf("unpack sibling: %v", err)
	}
	if tag, _ := tAttr.TagValue(sibling); tag != 3 {
		t.Fatalf("sibling tag %d, want 3", tag)
	}
}

func TestEncodeRejectsMixedPayloads(t *testing.T) {
	n := &EncodeNode{
		Layout:  tAttr,
		Payload: &Literal{Codec: wire.U32, V: wire.Uint(1)},
		Raw:     []byte{1},
	}
	if _, err := n.Encode(); !errors.Is(err, ErrBadSchema) {
		t.Fatalf("expected ErrBadSchema, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := &EncodeNode{
		Layout: tHead,
		Values: map[string]wire.Value{"family": wire.Uint(2)},
		Children: []*EncodeNode{
			Attr(tAttr, 1, wire.U32, wire.Uint(11)),
			Nest(tAttr, 2, Attr(tAttr, 7, wire.U32, wire.Uint(77))),
		},
	}
	b, err := enc.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := MustDecode(&DecodeNode[[]string]{
		Layout: tHead,
		Children: []*DecodeNode[[]string]{
			record(1),
			{
				Layout:   tAttr,
				Tag:      2,
				Children: []*DecodeNode[[]string]{record(7)},
			},
		},
	})
	got, _, err := dec.Parse(nil, b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0] != "1=11" || got[1] != "7=77" {
		t.Fatalf("round trip mismatch: %v", got)
	}
}
