package schema

import "errors"

var (
	// StopParsing is the cancellation signal. A callback returning it
	// aborts the subtree whose callback raised it; the enclosing element
	// dispatch loop drops that element's accumulator updates and moves
	// on to the next element. It is a control signal, not a failure.
	StopParsing = errors.New("schema: stop parsing")

	// ErrBadSchema reports a tree that violates construction invariants.
	ErrBadSchema = errors.New("schema: bad schema")

	// ErrMalformed reports wire data whose declared element sizes do not
	// fit the buffer that carries them.
	ErrMalformed = errors.New("schema: malformed element")
)
