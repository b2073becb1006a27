package wire

import "errors"

var (
	ErrShortBuffer  = errors.New("wire: short buffer")
	ErrBadValue     = errors.New("wire: bad value")
	ErrBadLayout    = errors.New("wire: bad layout")
	ErrUnknownField = errors.New("wire: unknown field")
)
