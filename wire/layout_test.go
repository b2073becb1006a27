package wire

import (
	"bytes"
	"errors"
	"testing"
)

func testLayout(t *testing.T) *Layout {
	t.Helper()
	l, err := NewLayout(LayoutConfig{
		Name: "hdr",
		Fields: []Field{
			{Name: "len", Codec: U16},
			{Name: "typ", Codec: U16},
			{Name: "pad", Codec: Pad(2)},
			{Name: "idx", Codec: I16},
		},
		SizeField: "len",
		TagField:  "typ",
		Align:     4,
	})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return l
}

func TestLayoutPackUnpackRoundTrip(t *testing.T) {
	l := testLayout(t)
	b, err := l.Pack(map[string]Value{
		"len": Uint(8),
		"typ": Uint(3),
		"idx": Int(-7),
	})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if len(b) != l.Size() {
		t.Fatalf("packed %d bytes, layout size %d", len(b), l.Size())
	}
	vals, err := l.Unpack(b)
	if err != nil {
		t.Fatalf("unpack: %v", err)
	}
	if size, ok := l.SizeValue(vals); !ok || size != 8 {
		t.Fatalf("size value %d, ok=%v", size, ok)
	}
	if tag, ok := l.TagValue(vals); !ok || tag != 3 {
		t.Fatalf("tag value %d, ok=%v", tag, ok)
	}
	i, _ := l.Index("idx")
	if vals[i].Int != -7 {
		t.Fatalf("idx %d", vals[i].Int)
	}
}

func TestLayoutPackZeroFillsMissing(t *testing.T) {
	l := testLayout(t)
	b, err := l.Pack(map[string]Value{"typ": Uint(1)})
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	want := make([]byte, l.Size())
	vals, _ := l.Unpack(b)
	if size, _ := l.SizeValue(vals); size != 0 {
		t.Fatalf("expected zero filled size, got %d", size)
	}
	b[2], b[3] = 0, 0
	if !bytes.Equal(b, want) {
		t.Fatalf("expected zeros outside typ, got %x", b)
	}
}

func TestLayoutPackUnknownField(t *testing.T) {
	l := testLayout(t)
	_, err := l.Pack(map[string]Value{"bogus": Uint(1)})
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestLayoutUnpackShortBuffer(t *testing.T) {
	l := testLayout(t)
	_, err := l.Unpack(make([]byte, l.Size()-1))
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
}

func TestLayoutRejectsVariableWidthField(t *testing.T) {
	_, err := NewLayout(LayoutConfig{
		Name:   "bad",
		Fields: []Field{{Name: "name", Codec: CStr}},
	})
	if !errors.Is(err, ErrBadLayout) {
		t.Fatalf("expected ErrBadLayout, got %v", err)
	}
}

func TestLayoutRejectsDuplicateNames(t *testing.T) {
	_, err := NewLayout(LayoutConfig{
		Name: "bad",
		Fields: []Field{
			{Name: "a", Codec: U8},
			{Name: "a", Codec: U8},
		},
	})
	if !errors.Is(err, ErrBadLayout) {
		t.Fatalf("expected ErrBadLayout, got %v", err)
	}
}

func TestLayoutRejectsNonIntegerTag(t *testing.T) {
	_, err := NewLayout(LayoutConfig{
		Name: "bad",
		Fields: []Field{
			{Name: "addr", Codec: IP4},
		},
		TagField: "addr",
	})
	if !errors.Is(err, ErrBadLayout) {
		t.Fatalf("expected ErrBadLayout, got %v", err)
	}
}
