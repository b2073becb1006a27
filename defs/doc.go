// Package defs is the symbol table the codec engine is parameterized by:
// numeric constants lifted from the Linux uapi headers and the header
// layouts of the kernel structs that appear on the rtnetlink wire.
//
// The constants in defs.go are produced offline from linux/netlink.h,
// linux/rtnetlink.h, linux/if_link.h, linux/if_tunnel.h, linux/neighbour.h
// and linux/pkt_sched.h. Layouts that cannot be derived mechanically are
// maintained by hand in layouts.go.
package defs
