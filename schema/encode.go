package schema

import (
	"fmt"

	"github.com/ionos-cloud/netlinklib/wire"
)

// Literal is a scalar payload value for an encode node.
type Literal struct {
	Codec wire.FieldCodec
	V     wire.Value
}

// EncodeNode is one node of an encode schema tree: a header layout with
// literal field values, plus either a scalar payload or child elements.
// Encode nodes hold no callbacks; the decode and encode roles are
// separate types and cannot be mixed within a subtree.
type EncodeNode struct {
	Layout *wire.Layout
	// Values holds literal header field values. The layout's size field
	// is filled in automatically from the encoded payload length unless
	// set here explicitly.
	Values  map[string]wire.Value
	Payload *Literal
	// Raw is a pre-encoded payload used verbatim. Mutually exclusive
	// with Payload and Children.
	Raw      []byte
	Children []*EncodeNode
}

// Attr builds the common case of one tagged scalar attribute.
func Attr(layout *wire.Layout, tag uint64, codec wire.FieldCodec, v wire.Value) *EncodeNode {
	return &EncodeNode{
		Layout:  layout,
		Values:  map[string]wire.Value{layout.TagFieldName(): wire.Uint(tag)},
		Payload: &Literal{Codec: codec, V: v},
	}
}

// Nest builds one tagged attribute whose payload is the given children.
func Nest(layout *wire.Layout, tag uint64, children ...*EncodeNode) *EncodeNode {
	return &EncodeNode{
		Layout:   layout,
		Values:   map[string]wire.Value{layout.TagFieldName(): wire.Uint(tag)},
		Children: children,
	}
}

// Encode serializes the node: packed header bytes followed by the
// payload, children in declared order, each child padded to its own
// layout alignment. No padding is invented beyond declared alignment.
func (n *EncodeNode) Encode() ([]byte, error) {
	body, err := n.body()
	if err != nil {
		return nil, err
	}
	if n.Layout == nil {
		return body, nil
	}
	values := n.Values
	if name := n.Layout.SizeFieldName(); name != "" {
		if _, set := values[name]; !set {
			values = make(map[string]wire.Value, len(n.Values)+1)
			for k, v := range n.Values {
				values[k] = v
			}
			values[name] = wire.Uint(uint64(n.Layout.Size() + len(body)))
		}
	}
	hdr, err := n.Layout.Pack(values)
	if err != nil {
		return nil, err
	}
	return append(hdr, body...), nil
}

func (n *EncodeNode) body() ([]byte, error) {
	set := 0
	for _, b := range []bool{n.Payload != nil, n.Raw != nil, len(n.Children) > 0} {
		if b {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("%w: encode node mixes payload/raw/children", ErrBadSchema)
	}
	switch {
	case n.Payload != nil:
		return n.Payload.Codec.Encode(n.Payload.V)
	case n.Raw != nil:
		return n.Raw, nil
	}
	var out []byte
	for _, c := range n.Children {
		b, err := c.Encode()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
		if c.Layout != nil {
			if pad := alignUp(len(b), c.Layout.Align()) - len(b); pad > 0 {
				out = append(out, make([]byte, pad)...)
			}
		}
	}
	return out, nil
}
