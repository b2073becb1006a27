package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
)

// FieldCodec encodes and decodes one scalar value. Width is in bytes; a
// zero Width means the codec consumes (or produces) a variable amount and
// may only appear in attribute payloads, never inside a fixed layout.
// A nil Order means host byte order.
type FieldCodec struct {
	Kind  Kind
	Width int
	Order binary.ByteOrder
}

// Predefined codecs covering the scalar shapes found in rtnetlink headers
// and attributes.
var (
	U8    = FieldCodec{Kind: KindUint, Width: 1}
	U16   = FieldCodec{Kind: KindUint, Width: 2}
	U32   = FieldCodec{Kind: KindUint, Width: 4}
	U64   = FieldCodec{Kind: KindUint, Width: 8}
	U16BE = FieldCodec{Kind: KindUint, Width: 2, Order: binary.BigEndian}
	U32BE = FieldCodec{Kind: KindUint, Width: 4, Order: binary.BigEndian}
	I8    = FieldCodec{Kind: KindInt, Width: 1}
	I16   = FieldCodec{Kind: KindInt, Width: 2}
	I32   = FieldCodec{Kind: KindInt, Width: 4}
	IP    = FieldCodec{Kind: KindAddr}
	IP4   = FieldCodec{Kind: KindAddr4, Width: 4}
	IP6   = FieldCodec{Kind: KindAddr6, Width: 16}
	MAC   = FieldCodec{Kind: KindHardware}
	CStr  = FieldCodec{Kind: KindString}
	Raw   = FieldCodec{Kind: KindBytes}
)

// Pad is a filler codec of n zero bytes.
func Pad(n int) FieldCodec { return FieldCodec{Kind: KindPad, Width: n} }

func (c FieldCodec) order() binary.ByteOrder {
	if c.Order == nil {
		return binary.NativeEndian
	}
	return c.Order
}

// Decode interprets b as one value. Fixed-width codecs fail with
// ErrShortBuffer when b is shorter than Width; variable-width codecs
// consume all of b.
func (c FieldCodec) Decode(b []byte) (Value, error) {
	if c.Width > 0 && len(b) < c.Width {
		return Value{}, fmt.Errorf("%w: %s needs %d bytes, have %d",
			ErrShortBuffer, c.Kind, c.Width, len(b))
	}
	switch c.Kind {
	case KindUint:
		u, err := c.uint(b)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindUint, Uint: u}, nil
	case KindInt:
		u, err := c.uint(b)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInt, Int: signExtend(u, c.Width)}, nil
	case KindAddr:
		switch len(b) {
		case 4:
			return Value{Kind: KindAddr, Addr: netip.AddrFrom4([4]byte(b))}, nil
		case 16:
			return Value{Kind: KindAddr, Addr: netip.AddrFrom16([16]byte(b))}, nil
		}
		return Value{}, fmt.Errorf("%w: address of %d bytes", ErrBadValue, len(b))
	case KindAddr4:
		return Value{Kind: KindAddr4, Addr: netip.AddrFrom4([4]byte(b[:4]))}, nil
	case KindAddr6:
		return Value{Kind: KindAddr6, Addr: netip.AddrFrom16([16]byte(b[:16]))}, nil
	case KindHardware:
		hw := make(net.HardwareAddr, len(b))
		copy(hw, b)
		return Value{Kind: KindHardware, HW: hw}, nil
	case KindString:
		raw := b
		if c.Width > 0 {
			raw = b[:c.Width]
		}
		return Value{Kind: KindString, Str: string(bytes.TrimRight(raw, "\x00"))}, nil
	case KindBytes:
		raw := b
		if c.Width > 0 {
			raw = b[:c.Width]
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return Value{Kind: KindBytes, Raw: out}, nil
	case KindPad:
		return Value{Kind: KindPad}, nil
	}
	return Value{}, fmt.Errorf("%w: codec kind %d", ErrBadValue, c.Kind)
}

// Encode renders v as bytes. Fixed-width codecs always produce exactly
// Width bytes.
func (c FieldCodec) Encode(v Value) ([]byte, error) {
	switch c.Kind {
	case KindUint, KindInt:
		var u uint64
		switch v.Kind {
		case KindUint:
			u = v.Uint
		case KindInt:
			u = uint64(v.Int)
		default:
			return nil, c.mismatch(v)
		}
		return c.putUint(u)
	case KindAddr, KindAddr4, KindAddr6:
		if v.Kind != KindAddr && v.Kind != KindAddr4 && v.Kind != KindAddr6 {
			return nil, c.mismatch(v)
		}
		if !v.Addr.IsValid() {
			return nil, fmt.Errorf("%w: invalid address", ErrBadValue)
		}
		b := v.Addr.AsSlice()
		if c.Width > 0 && len(b) != c.Width {
			return nil, fmt.Errorf("%w: address of %d bytes, codec wants %d",
				ErrBadValue, len(b), c.Width)
		}
		return b, nil
	case KindHardware:
		if v.Kind != KindHardware {
			return nil, c.mismatch(v)
		}
		out := make([]byte, len(v.HW))
		copy(out, v.HW)
		return out, nil
	case KindString:
		if v.Kind != KindString {
			return nil, c.mismatch(v)
		}
		if c.Width > 0 {
			if len(v.Str)+1 > c.Width {
				return nil, fmt.Errorf("%w: string %q exceeds %d bytes",
					ErrBadValue, v.Str, c.Width)
			}
			out := make([]byte, c.Width)
			copy(out, v.Str)
			return out, nil
		}
		// NUL terminated, as the kernel expects for IFLA_IFNAME and friends.
		out := make([]byte, len(v.Str)+1)
		copy(out, v.Str)
		return out, nil
	case KindBytes:
		if v.Kind != KindBytes {
			return nil, c.mismatch(v)
		}
		if c.Width > 0 && len(v.Raw) != c.Width {
			return nil, fmt.Errorf("%w: %d raw bytes, codec wants %d",
				ErrBadValue, len(v.Raw), c.Width)
		}
		out := make([]byte, len(v.Raw))
		copy(out, v.Raw)
		return out, nil
	case KindPad:
		return make([]byte, c.Width), nil
	}
	return nil, fmt.Errorf("%w: codec kind %d", ErrBadValue, c.Kind)
}

func (c FieldCodec) mismatch(v Value) error {
	return fmt.Errorf("%w: %s value for %s codec", ErrBadValue, v.Kind, c.Kind)
}

func (c FieldCodec) uint(b []byte) (uint64, error) {
	o := c.order()
	switch c.Width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(o.Uint16(b)), nil
	case 4:
		return uint64(o.Uint32(b)), nil
	case 8:
		return o.Uint64(b), nil
	}
	return 0, fmt.Errorf("%w: integer width %d", ErrBadValue, c.Width)
}

func (c FieldCodec) putUint(u uint64) ([]byte, error) {
	o := c.order()
	out := make([]byte, c.Width)
	switch c.Width {
	case 1:
		out[0] = byte(u)
	case 2:
		o.PutUint16(out, uint16(u))
	case 4:
		o.PutUint32(out, uint32(u))
	case 8:
		o.PutUint64(out, u)
	default:
		return nil, fmt.Errorf("%w: integer width %d", ErrBadValue, c.Width)
	}
	return out, nil
}

func signExtend(u uint64, width int) int64 {
	shift := uint(64 - width*8)
	return int64(u<<shift) >> shift
}
