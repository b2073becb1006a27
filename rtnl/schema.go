package rtnl

import (
	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/wire"
)

// set adapts a plain setter into a schema callback for the common case
// of a field that cannot fail.
func set[A any](f func(A, wire.Value)) schema.Callback[A] {
	return func(a A, v wire.Value) (A, error) {
		f(a, v)
		return a, nil
	}
}

// attr declares one scalar rtattr leaf in a decode table.
func attr[A any](tag uint64, codec wire.FieldCodec, f func(A, wire.Value)) *schema.DecodeNode[A] {
	return &schema.DecodeNode[A]{
		Layout: defs.RtAttr,
		Tag:    tag,
		Value:  &schema.Capture[A]{Codec: codec, Set: set(f)},
	}
}
