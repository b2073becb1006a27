package rtnl

import "errors"

var (
	// ErrNotFound reports that the kernel has no object matching the
	// lookup, mapped from ENODEV and ESRCH acknowledgments.
	ErrNotFound = errors.New("rtnl: no such object")

	// ErrUnsupportedKind reports a link kind this package cannot
	// serialize creation data for.
	ErrUnsupportedKind = errors.New("rtnl: unsupported link kind")
)
