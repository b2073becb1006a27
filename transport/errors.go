package transport

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrDumpInterrupted reports that the kernel set NLM_F_DUMP_INTR on
	// a dump reply: the dump raced with a table change and must be
	// restarted from the beginning. Messages received before the error
	// were already delivered to the caller.
	ErrDumpInterrupted = errors.New("transport: dump interrupted by the kernel")

	// ErrShortMessage reports a receive buffer that ends inside a
	// message or a message shorter than its own header claims.
	ErrShortMessage = errors.New("transport: truncated netlink message")

	// ErrUnexpectedType reports a reply message of a type the request
	// did not ask for.
	ErrUnexpectedType = errors.New("transport: unexpected message type")
)

// OpError is a kernel-reported failure: the errno carried by an
// nlmsgerr reply.
type OpError struct {
	Op    string
	Errno unix.Errno
}

func (e *OpError) Error() string {
	return fmt.Sprintf("transport: %s: %s", e.Op, e.Errno.Error())
}

func (e *OpError) Unwrap() error { return e.Errno }

// errnoFromKernel maps the signed errno carried in nlmsgerr (negative
// on failure) to a unix.Errno.
func errnoFromKernel(v int64) unix.Errno {
	if v < 0 {
		v = -v
	}
	return unix.Errno(v)
}
