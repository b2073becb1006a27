package wire

import "fmt"

// Field is one named slot in a Layout.
type Field struct {
	Name  string
	Codec FieldCodec
}

// LayoutConfig declares a fixed header shape.
type LayoutConfig struct {
	Name   string
	Fields []Field
	// SizeField names the field carrying the total element length
	// (header plus payload), e.g. nlmsg_len or rta_len.
	SizeField string
	// TagField names the field whose value selects a child schema,
	// e.g. rta_type.
	TagField string
	// Align is the boundary elements with this header are padded to
	// when they appear in a list. Zero means unaligned.
	Align int
}

// Layout is an immutable fixed header template: ordered named fields,
// total size, optional size and tag field designations.
type Layout struct {
	name    string
	fields  []Field
	size    int
	align   int
	index   map[string]int
	sizeIdx int
	tagIdx  int
}

// NewLayout validates cfg and builds the layout. Every field must have a
// fixed width; size and tag fields, when designated, must exist and be
// integer valued.
func NewLayout(cfg LayoutConfig) (*Layout, error) {
	l := &Layout{
		name:    cfg.Name,
		fields:  append([]Field(nil), cfg.Fields...),
		align:   cfg.Align,
		index:   make(map[string]int, len(cfg.Fields)),
		sizeIdx: -1,
		tagIdx:  -1,
	}
	if l.align == 0 {
		l.align = 1
	}
	for i, f := range l.fields {
		if f.Codec.Width <= 0 {
			return nil, fmt.Errorf("%w: %s.%s has no fixed width",
				ErrBadLayout, cfg.Name, f.Name)
		}
		if f.Codec.Kind != KindPad {
			if _, dup := l.index[f.Name]; dup {
				return nil, fmt.Errorf("%w: %s.%s declared twice",
					ErrBadLayout, cfg.Name, f.Name)
			}
			l.index[f.Name] = i
		}
		l.size += f.Codec.Width
	}
	var err error
	if l.sizeIdx, err = l.designate(cfg.SizeField); err != nil {
		return nil, err
	}
	if l.tagIdx, err = l.designate(cfg.TagField); err != nil {
		return nil, err
	}
	return l, nil
}

// MustLayout is NewLayout for layout tables built at package init.
func MustLayout(cfg LayoutConfig) *Layout {
	l, err := NewLayout(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) designate(name string) (int, error) {
	if name == "" {
		return -1, nil
	}
	i, ok := l.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %s designates unknown field %q",
			ErrBadLayout, l.name, name)
	}
	k := l.fields[i].Codec.Kind
	if k != KindUint && k != KindInt {
		return -1, fmt.Errorf("%w: %s.%s is not integer valued",
			ErrBadLayout, l.name, name)
	}
	return i, nil
}

func (l *Layout) Name() string { return l.name }

// Size is the total fixed size of the header in bytes.
func (l *Layout) Size() int { return l.size }

// Align is the element boundary alignment.
func (l *Layout) Align() int { return l.align }

// NumFields returns the number of declared fields, padding included.
func (l *Layout) NumFields() int { return len(l.fields) }

// FieldAt returns the i-th declared field.
func (l *Layout) FieldAt(i int) Field { return l.fields[i] }

// Index looks a field position up by name.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// HasSizeField reports whether a size field is designated.
func (l *Layout) HasSizeField() bool { return l.sizeIdx >= 0 }

// HasTagField reports whether a tag field is designated.
func (l *Layout) HasTagField() bool { return l.tagIdx >= 0 }

// Unpack decodes the header at the front of b. The returned values are
// aligned with the declared field order. Fails with ErrShortBuffer when b
// is shorter than Size.
func (l *Layout) Unpack(b []byte) ([]Value, error) {
	if len(b) < l.size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d",
			ErrShortBuffer, l.name, l.size, len(b))
	}
	vals := make([]Value, len(l.fields))
	off := 0
	for i, f := range l.fields {
		v, err := f.Codec.Decode(b[off : off+f.Codec.Width])
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", l.name, f.Name, err)
		}
		vals[i] = v
		off += f.Codec.Width
	}
	return vals, nil
}

// Pack encodes a header from the given field values. Fields absent from
// values are zero filled, matching the kernel convention of zeroed
// reserved header members.
func (l *Layout) Pack(values map[string]Value) ([]byte, error) {
	for name := range values {
		if _, ok := l.index[name]; !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, l.name, name)
		}
	}
	out := make([]byte, 0, l.size)
	for _, f := range l.fields {
		v, ok := values[f.Name]
		if !ok || f.Codec.Kind == KindPad {
			out = append(out, make([]byte, f.Codec.Width)...)
			continue
		}
		b, err := f.Codec.Encode(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", l.name, f.Name, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// SizeValue extracts the designated size field from unpacked values.
func (l *Layout) SizeValue(vals []Value) (int, bool) {
	if l.sizeIdx < 0 {
		return 0, false
	}
	return int(asUint(vals[l.sizeIdx])), true
}

// TagValue extracts the designated tag field from unpacked values.
func (l *Layout) TagValue(vals []Value) (uint64, bool) {
	if l.tagIdx < 0 {
		return 0, false
	}
	return asUint(vals[l.tagIdx]), true
}

// SizeFieldName returns the designated size field name, if any.
func (l *Layout) SizeFieldName() string {
	if l.sizeIdx < 0 {
		return ""
	}
	return l.fields[l.sizeIdx].Name
}

// TagFieldName returns the designated tag field name, if any.
func (l *Layout) TagFieldName() string {
	if l.tagIdx < 0 {
		return ""
	}
	return l.fields[l.tagIdx].Name
}

func asUint(v Value) uint64 {
	if v.Kind == KindInt {
		return uint64(v.Int)
	}
	return v.Uint
}
