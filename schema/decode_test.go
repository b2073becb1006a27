package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ionos-cloud/netlinklib/wire"
)

var (
	tAttr = wire.MustLayout(wire.LayoutConfig{
		Name: "attr",
		Fields: []wire.Field{
			{Name: "alen", Codec: wire.U16},
			{Name: "atyp", Codec: wire.U16},
		},
		SizeField: "alen",
		TagField:  "atyp",
		Align:     4,
	})
	tHead = wire.MustLayout(wire.LayoutConfig{
		Name: "head",
		Fields: []wire.Field{
			{Name: "family", Codec: wire.U8},
			{Name: "kind", Codec: wire.U8},
		},
	})
)

func attrBytes(t *testing.T, tag uint64, payload []byte) []byte {
	t.Helper()
	hdr, err := tAttr.Pack(map[string]wire.Value{
		"alen": wire.Uint(uint64(tAttr.Size() + len(payload))),
		"atyp": wire.Uint(tag),
	})
	if err != nil {
		t.Fatalf("pack attr header: %v", err)
	}
	b := append(hdr, payload...)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

func u32bytes(t *testing.T, v uint32) []byte {
	t.Helper()
	b, err := wire.U32.Encode(wire.Uint(uint64(v)))
	if err != nil {
		t.Fatalf("encode u32: %v", err)
	}
	return b
}

// record appends "tag=value" for each captured leaf.
func record(tag uint64) *DecodeNode[[]string] {
	return &DecodeNode[[]string]{
		Layout: tAttr,
		Tag:    tag,
		Value: &Capture[[]string]{
			Codec: wire.U32,
			Set: func(acc []string, v wire.Value) ([]string, error) {
				return append(acc, fmt.Sprintf("%d=%d", tag, v.Uint)), nil
			},
		},
	}
}

func TestDispatchSkipsUnknownTags(t *testing.T) {
	root := MustDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{record(1), record(2)},
	})
	data := append(attrBytes(t, 2, u32bytes(t, 20)),
		append(attrBytes(t, 5, u32bytes(t, 50)),
			attrBytes(t, 1, u32bytes(t, 10))...)...)

	got, _, err := root.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"2=20", "1=10"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestHeaderCallbacksRunInFieldOrder(t *testing.T) {
	node := MustDecode(&DecodeNode[[]string]{
		Layout: tHead,
		Callbacks: map[string]Callback[[]string]{
			"kind": func(acc []string, v wire.Value) ([]string, error) {
				return append(acc, "kind"), nil
			},
			"family": func(acc []string, v wire.Value) ([]string, error) {
				return append(acc, "family"), nil
			},
		},
	})
	got, _, err := node.Parse(nil, []byte{2, 7})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0] != "family" || got[1] != "kind" {
		t.Fatalf("expected declared field order, got %v", got)
	}
}

func TestSizeFieldBoundsPayloadAndRemainder(t *testing.T) {
	leaf := MustDecode(record(1))
	data := append(attrBytes(t, 1, u32bytes(t, 10)), 0xff, 0xee)

	got, rest, err := leaf.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0] != "1=10" {
		t.Fatalf("expected captured value, got %v", got)
	}
	if len(rest) != 2 || rest[0] != 0xff {
		t.Fatalf("expected 2 remainder bytes, got %x", rest)
	}
}

func TestChildlessNodeConsumesHeaderOnly(t *testing.T) {
	node := MustDecode(&DecodeNode[[]string]{Layout: tHead})
	data := []byte{1, 2, 3, 4, 5}
	_, rest, err := node.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rest) != 3 {
		t.Fatalf("expected 3 remainder bytes, got %d", len(rest))
	}
}

func TestMalformedSizes(t *testing.T) {
	leaf := MustDecode(record(1))

	short := attrBytes(t, 1, u32bytes(t, 10))
	hdr, _ := tAttr.Pack(map[string]wire.Value{
		"alen": wire.Uint(2), // below header size
		"atyp": wire.Uint(1),
	})
	if _, _, err := leaf.Parse(nil, hdr); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for undersized element, got %v", err)
	}

	if _, _, err := leaf.Parse(nil, short[:len(short)-2]); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for oversized element, got %v", err)
	}
}

func TestUnionResolvesFromAccumulatorState(t *testing.T) {
	inner := MustDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{record(7)},
	})
	root := MustDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{
			{
				Layout: tAttr,
				Tag:    1,
				Value: &Capture[[]string]{
					Codec: wire.CStr,
					Set: func(acc []string, v wire.Value) ([]string, error) {
						return append(acc, "kind:"+v.Str), nil
					},
				},
			},
			{
				Layout: tAttr,
				Tag:    2,
				Resolve: func(acc []string) (*DecodeNode[[]string], error) {
					for _, s := range acc {
						if s == "kind:inner" {
							return inner, nil
						}
					}
					return nil, nil
				},
			},
		},
	})

	data := append(attrBytes(t, 1, []byte("inner\x00")),
		attrBytes(t, 2, attrBytes(t, 7, u32bytes(t, 77)))...)
	got, _, err := root.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[1] != "7=77" {
		t.Fatalf("expected resolved union capture, got %v", got)
	}

	// An unrecognized selector skips the payload without error.
	data = append(attrBytes(t, 1, []byte("other\x00")),
		attrBytes(t, 2, attrBytes(t, 7, u32bytes(t, 77)))...)
	got, _, err = root.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected skipped union payload, got %v", got)
	}
}

func TestStopParsingContainedInList(t *testing.T) {
	cancel := &DecodeNode[[]string]{
		Layout: tAttr,
		Tag:    2,
		Value: &Capture[[]string]{
			Codec: wire.U32,
			Set: func(acc []string, v wire.Value) ([]string, error) {
				return nil, StopParsing
			},
		},
	}
	root := MustDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{record(1), cancel, record(3)},
	})
	data := append(attrBytes(t, 1, u32bytes(t, 10)),
		append(attrBytes(t, 2, u32bytes(t, 20)),
			attrBytes(t, 3, u32bytes(t, 30))...)...)

	got, _, err := root.Parse(nil, data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 2 || got[0] != "1=10" || got[1] != "3=30" {
		t.Fatalf("expected cancelled element dropped, got %v", got)
	}
}

func TestStopParsingPropagatesFromHeader(t *testing.T) {
	node := MustDecode(&DecodeNode[[]string]{
		Layout: tHead,
		Callbacks: map[string]Callback[[]string]{
			"family": func(acc []string, v wire.Value) ([]string, error) {
				return nil, StopParsing
			},
		},
	})
	if _, _, err := node.Parse(nil, []byte{1, 2}); !errors.Is(err, StopParsing) {
		t.Fatalf("expected StopParsing, got %v", err)
	}
}

func TestBadSchemaMixedRoles(t *testing.T) {
	_, err := NewDecode(&DecodeNode[[]string]{
		Layout:   tAttr,
		Value:    &Capture[[]string]{Codec: wire.U32},
		Children: []*DecodeNode[[]string]{record(1)},
	})
	if !errors.Is(err, ErrBadSchema) {
		t.Fatalf("expected ErrBadSchema, got %v", err)
	}
}

func TestBadSchemaDuplicateTags(t *testing.T) {
	_, err := NewDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{record(1), record(1)},
	})
	if !errors.Is(err, ErrBadSchema) {
		t.Fatalf("expected ErrBadSchema, got %v", err)
	}
}

func TestBadSchemaUntaggedSiblings(t *testing.T) {
	_, err := NewDecode(&DecodeNode[[]string]{
		Children: []*DecodeNode[[]string]{
			{Layout: tHead},
			{Layout: tHead},
		},
	})
	if !errors.Is(err, ErrBadSchema) {
		t.Fatalf("expected ErrBadSchema, got %v", err)
	}
}

func TestBadSchemaCallbackOnUnknownField(t *testing.T) {
	_, err := NewDecode(&DecodeNode[[]string]{
		Layout: tHead,
		Callbacks: map[string]Callback[[]string]{
			"bogus": func(acc []string, v wire.Value) ([]string, error) { return acc, nil },
		},
	})
	if !errors.Is(err, ErrBadSchema) {
		t.Fatalf("expected ErrBadSchema, got %v", err)
	}
}
