// Package rtnl is the rtnetlink surface: typed accumulators for links,
// routes, neighbors and qdiscs, the schema tables that decode kernel
// dumps into them, and the request builders for change operations.
//
// Ownership boundary:
// - the schema tables for RTM_* message families
// - accumulator structs and their flattening rules (multipath routes)
// - request serialization for add/del/set operations
// - the multicast event monitor
//
// Everything here is policy on top of schema and transport; no wire
// bytes are interpreted outside the tables in this package.
package rtnl
