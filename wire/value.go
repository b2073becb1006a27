package wire

import (
	"fmt"
	"net"
	"net/netip"
)

// Kind discriminates the semantic type of a decoded field value.
type Kind uint8

const (
	KindNone Kind = iota
	KindUint
	KindInt
	KindAddr // IPv4 or IPv6, discriminated by payload length
	KindAddr4
	KindAddr6
	KindHardware
	KindString
	KindBytes
	KindPad // filler, carries no value
)

func (k Kind) String() string {
	switch k {
	case KindUint:
		return "uint"
	case KindInt:
		return "int"
	case KindAddr:
		return "addr"
	case KindAddr4:
		return "addr4"
	case KindAddr6:
		return "addr6"
	case KindHardware:
		return "hardware"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindPad:
		return "pad"
	default:
		return "none"
	}
}

// Value is one decoded (or to-be-encoded) field value. Exactly the member
// selected by Kind is meaningful.
type Value struct {
	Kind Kind
	Uint uint64
	Int  int64
	Addr netip.Addr
	HW   net.HardwareAddr
	Str  string
	Raw  []byte
}

func Uint(v uint64) Value     { return Value{Kind: KindUint, Uint: v} }
func Int(v int64) Value       { return Value{Kind: KindInt, Int: v} }
func Addr(a netip.Addr) Value { return Value{Kind: KindAddr, Addr: a} }
func String(s string) Value   { return Value{Kind: KindString, Str: s} }
func Bytes(b []byte) Value    { return Value{Kind: KindBytes, Raw: b} }

func Hardware(hw net.HardwareAddr) Value { return Value{Kind: KindHardware, HW: hw} }

func (v Value) GoString() string {
	switch v.Kind {
	case KindUint:
		return fmt.Sprintf("wire.Uint(%d)", v.Uint)
	case KindInt:
		return fmt.Sprintf("wire.Int(%d)", v.Int)
	case KindAddr, KindAddr4, KindAddr6:
		return fmt.Sprintf("wire.Addr(%s)", v.Addr)
	case KindHardware:
		return fmt.Sprintf("wire.Hardware(%s)", v.HW)
	case KindString:
		return fmt.Sprintf("wire.String(%q)", v.Str)
	case KindBytes:
		return fmt.Sprintf("wire.Bytes(%x)", v.Raw)
	default:
		return "wire.Value{}"
	}
}
