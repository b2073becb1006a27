// Package transport owns the netlink socket and the outer message
// framing around the schema engine.
//
// Ownership boundary:
// - AF_NETLINK socket lifecycle (dial, bind, multicast subscription)
// - nlmsghdr framing of requests and received messages
// - dump reassembly across multi-part replies, NLMSG_DONE termination
// - kernel errno surfacing from nlmsgerr acknowledgments
// - the dump-interrupted retry condition
//
// The engine packages below this one never touch a socket; transport
// hands each message payload to a caller-supplied function and leaves
// parsing policy to the caller.
package transport
