// Package wire owns the lowest layer of the netlink codec: scalar field
// codecs and fixed binary header layouts.
//
// Ownership boundary:
// - scalar encode/decode (integers, addresses, strings)
// - declarative fixed-header layouts with size/tag field designation
//
// Layouts and codecs are immutable once constructed and safe to share
// across concurrent parses.
package wire
