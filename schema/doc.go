// Package schema owns the generic netlink parse/serialize engine.
//
// Ownership boundary:
// - decode trees: recursive descent over fixed headers and tagged
//   type-length-value elements, driving caller callbacks
// - encode trees: literal header values serialized back to wire bytes
// - union resolution from accumulator state
// - the StopParsing cancellation signal
//
// Schema trees are built once, compiled on first use, and shared
// immutably across any number of parses. The accumulator threaded
// through a parse is caller owned and never inspected by the engine.
package schema
