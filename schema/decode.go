package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ionos-cloud/netlinklib/wire"
)

// Callback consumes one decoded value and returns the next accumulator.
// The engine only ever uses the returned value; callbacks may mutate and
// return the same object or return a replacement.
type Callback[A any] func(accum A, v wire.Value) (A, error)

// UnionFunc picks the concrete schema for a union element from state the
// accumulator already holds. Returning a nil node skips the element's
// payload without error.
type UnionFunc[A any] func(accum A) (*DecodeNode[A], error)

// Capture decodes a leaf element's payload with Codec and hands the
// value to Set.
type Capture[A any] struct {
	Codec wire.FieldCodec
	Set   Callback[A]
}

// DecodeNode is one node of a decode schema tree.
//
// Exactly one of Value, Resolve or Children describes the payload:
// Value captures a scalar leaf, Resolve defers to a union, Children
// descend into sub-elements. A node with none of them discards its
// payload unparsed. Nodes are compiled on first parse and immutable
// afterwards.
type DecodeNode[A any] struct {
	// Layout is the node's fixed header. Nil declares a headerless
	// body, such as the attribute list resolved for a union payload.
	Layout *wire.Layout
	// Tag is this node's declared tag among its siblings.
	Tag uint64
	// Callbacks maps header field names to callbacks invoked with the
	// decoded field values, in declared field order.
	Callbacks map[string]Callback[A]
	Value     *Capture[A]
	Resolve   UnionFunc[A]
	Children  []*DecodeNode[A]

	once       sync.Once
	compileErr error
	fieldCBs   []fieldCallback[A]
	elem       *wire.Layout // shared element header of tagged children
	byTag      map[uint64]*DecodeNode[A]
}

type fieldCallback[A any] struct {
	idx int
	fn  Callback[A]
}

// NewDecode compiles the tree rooted at n, surfacing construction errors
// eagerly rather than at first parse.
func NewDecode[A any](n *DecodeNode[A]) (*DecodeNode[A], error) {
	if err := n.compile(); err != nil {
		return nil, err
	}
	return n, nil
}

// MustDecode is NewDecode for schema tables built at package init.
func MustDecode[A any](n *DecodeNode[A]) *DecodeNode[A] {
	n, err := NewDecode(n)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *DecodeNode[A]) compile() error {
	n.once.Do(func() { n.compileErr = n.build() })
	return n.compileErr
}

func (n *DecodeNode[A]) build() error {
	roles := 0
	for _, set := range []bool{n.Value != nil, n.Resolve != nil, len(n.Children) > 0} {
		if set {
			roles++
		}
	}
	if roles > 1 {
		return fmt.Errorf("%w: node %q mixes value/union/children payloads",
			ErrBadSchema, n.name())
	}
	if len(n.Callbacks) > 0 && n.Layout == nil {
		return fmt.Errorf("%w: node %q has callbacks but no layout",
			ErrBadSchema, n.name())
	}
	for name, fn := range n.Callbacks {
		i, ok := n.Layout.Index(name)
		if !ok {
			return fmt.Errorf("%w: node %q callback on unknown field %q",
				ErrBadSchema, n.name(), name)
		}
		n.fieldCBs = append(n.fieldCBs, fieldCallback[A]{idx: i, fn: fn})
	}
	sort.Slice(n.fieldCBs, func(i, j int) bool {
		return n.fieldCBs[i].idx < n.fieldCBs[j].idx
	})

	if len(n.Children) == 0 {
		return nil
	}
	elem := n.Children[0].Layout
	tagged := elem != nil && elem.HasTagField()
	if !tagged {
		if len(n.Children) > 1 {
			return fmt.Errorf("%w: node %q has %d children but no tag dispatch",
				ErrBadSchema, n.name(), len(n.Children))
		}
		return n.Children[0].compile()
	}
	if !elem.HasSizeField() {
		return fmt.Errorf("%w: element layout %s has no size field",
			ErrBadSchema, elem.Name())
	}
	n.elem = elem
	n.byTag = make(map[uint64]*DecodeNode[A], len(n.Children))
	for _, c := range n.Children {
		if c.Layout != elem {
			return fmt.Errorf("%w: node %q children do not share element layout %s",
				ErrBadSchema, n.name(), elem.Name())
		}
		if _, dup := n.byTag[c.Tag]; dup {
			return fmt.Errorf("%w: node %q declares tag %d twice",
				ErrBadSchema, n.name(), c.Tag)
		}
		n.byTag[c.Tag] = c
		if err := c.compile(); err != nil {
			return err
		}
	}
	return nil
}

func (n *DecodeNode[A]) name() string {
	if n.Layout != nil {
		return n.Layout.Name()
	}
	return "(headerless)"
}

// Parse unpacks one element (header plus payload) from the front of data
// and returns the resulting accumulator together with the bytes past the
// element. A StopParsing error carries the cancellation signal; the
// accumulator result is then meaningless and the caller must fall back
// to the value it held before the call.
func (n *DecodeNode[A]) Parse(accum A, data []byte) (A, []byte, error) {
	var zero A
	if err := n.compile(); err != nil {
		return zero, nil, err
	}

	var (
		vals     []wire.Value
		consumed int
	)
	if n.Layout != nil {
		var err error
		if vals, err = n.Layout.Unpack(data); err != nil {
			return zero, nil, err
		}
		consumed = n.Layout.Size()
	}
	for _, cb := range n.fieldCBs {
		var err error
		if accum, err = cb.fn(accum, vals[cb.idx]); err != nil {
			return zero, nil, err
		}
	}

	payload, remainder, err := n.split(vals, consumed, data)
	if err != nil {
		return zero, nil, err
	}

	switch {
	case n.Value != nil:
		v, err := n.Value.Codec.Decode(payload)
		if err != nil {
			return zero, nil, err
		}
		if accum, err = n.Value.Set(accum, v); err != nil {
			return zero, nil, err
		}
	case n.Resolve != nil:
		body, err := n.Resolve(accum)
		if err != nil {
			return zero, nil, err
		}
		if body != nil {
			if accum, _, err = body.Parse(accum, payload); err != nil {
				return zero, nil, err
			}
		}
	case n.elem != nil:
		if accum, err = n.dispatch(accum, payload); err != nil {
			return zero, nil, err
		}
	case len(n.Children) == 1:
		if accum, _, err = n.Children[0].Parse(accum, payload); err != nil {
			return zero, nil, err
		}
	}
	return accum, remainder, nil
}

// split applies the payload length precedence: explicit size field,
// then header-only for childless nodes, then the remainder of the buffer.
func (n *DecodeNode[A]) split(vals []wire.Value, consumed int, data []byte) ([]byte, []byte, error) {
	if n.Layout != nil {
		if size, ok := n.Layout.SizeValue(vals); ok {
			if size < consumed {
				return nil, nil, fmt.Errorf("%w: %s size %d below header size %d",
					ErrMalformed, n.Layout.Name(), size, consumed)
			}
			if size > len(data) {
				return nil, nil, fmt.Errorf("%w: %s size %d exceeds %d available",
					ErrMalformed, n.Layout.Name(), size, len(data))
			}
			return data[consumed:size], data[size:], nil
		}
	}
	if n.Value == nil && n.Resolve == nil && len(n.Children) == 0 {
		return nil, data[consumed:], nil
	}
	return data[consumed:], nil, nil
}

// dispatch walks a payload of tagged elements, parsing the ones with a
// matching child schema and skipping the rest by their own declared
// length. A child cancelling via StopParsing loses only its own
// accumulator updates.
func (n *DecodeNode[A]) dispatch(accum A, payload []byte) (A, error) {
	var zero A
	hdr := n.elem.Size()
	for len(payload) > 0 {
		evals, err := n.elem.Unpack(payload)
		if err != nil {
			return zero, err
		}
		size, _ := n.elem.SizeValue(evals)
		if size < hdr || size > len(payload) {
			return zero, fmt.Errorf("%w: %s size %d within %d available",
				ErrMalformed, n.elem.Name(), size, len(payload))
		}
		if child, ok := n.lookup(evals); ok {
			next, _, err := child.Parse(accum, payload[:size])
			switch {
			case err == nil:
				accum = next
			case errors.Is(err, StopParsing):
				// Contained: this element contributes nothing.
			default:
				return zero, err
			}
		}
		adv := alignUp(size, n.elem.Align())
		if adv > len(payload) {
			adv = len(payload)
		}
		payload = payload[adv:]
	}
	return accum, nil
}

func (n *DecodeNode[A]) lookup(evals []wire.Value) (*DecodeNode[A], bool) {
	tag, _ := n.elem.TagValue(evals)
	c, ok := n.byTag[tag]
	return c, ok
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) &^ (align - 1)
}
