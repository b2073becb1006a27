package defs

import "github.com/ionos-cloud/netlinklib/wire"

// Header layouts for the kernel structs carried on the rtnetlink wire.
// Field order, widths and padding mirror the uapi struct definitions;
// all integers are host byte order, as the kernel sends them.

// NlMsgHdr is struct nlmsghdr.
var NlMsgHdr = wire.MustLayout(wire.LayoutConfig{
	Name: "nlmsghdr",
	Fields: []wire.Field{
		{Name: "nlmsg_len", Codec: wire.U32},
		{Name: "nlmsg_type", Codec: wire.U16},
		{Name: "nlmsg_flags", Codec: wire.U16},
		{Name: "nlmsg_seq", Codec: wire.U32},
		{Name: "nlmsg_pid", Codec: wire.U32},
	},
	SizeField: "nlmsg_len",
	TagField:  "nlmsg_type",
	Align:     NLMSG_ALIGNTO,
})

// NlMsgErr is the scalar head of struct nlmsgerr; the original request
// header follows it and is not part of this layout. It cannot be
// generated because the uapi declares it as a nested container.
var NlMsgErr = wire.MustLayout(wire.LayoutConfig{
	Name: "nlmsgerr",
	Fields: []wire.Field{
		{Name: "error", Codec: wire.I32},
	},
})

// RtAttr is struct rtattr, the element header of every attribute list.
var RtAttr = wire.MustLayout(wire.LayoutConfig{
	Name: "rtattr",
	Fields: []wire.Field{
		{Name: "rta_len", Codec: wire.U16},
		{Name: "rta_type", Codec: wire.U16},
	},
	SizeField: "rta_len",
	TagField:  "rta_type",
	Align:     RTA_ALIGNTO,
})

// RtGenMsg is struct rtgenmsg, the one-byte family selector of wildcard
// dump requests.
var RtGenMsg = wire.MustLayout(wire.LayoutConfig{
	Name: "rtgenmsg",
	Fields: []wire.Field{
		{Name: "rtgen_family", Codec: wire.U8},
	},
})

// IfInfoMsg is struct ifinfomsg.
var IfInfoMsg = wire.MustLayout(wire.LayoutConfig{
	Name: "ifinfomsg",
	Fields: []wire.Field{
		{Name: "ifi_family", Codec: wire.U8},
		{Name: "__ifi_pad", Codec: wire.Pad(1)},
		{Name: "ifi_type", Codec: wire.U16},
		{Name: "ifi_index", Codec: wire.I32},
		{Name: "ifi_flags", Codec: wire.U32},
		{Name: "ifi_change", Codec: wire.U32},
	},
})

// RtMsg is struct rtmsg.
var RtMsg = wire.MustLayout(wire.LayoutConfig{
	Name: "rtmsg",
	Fields: []wire.Field{
		{Name: "rtm_family", Codec: wire.U8},
		{Name: "rtm_dst_len", Codec: wire.U8},
		{Name: "rtm_src_len", Codec: wire.U8},
		{Name: "rtm_tos", Codec: wire.U8},
		{Name: "rtm_table", Codec: wire.U8},
		{Name: "rtm_protocol", Codec: wire.U8},
		{Name: "rtm_scope", Codec: wire.U8},
		{Name: "rtm_type", Codec: wire.U8},
		{Name: "rtm_flags", Codec: wire.U32},
	},
})

// RtNextHop is struct rtnexthop, the element header of RTA_MULTIPATH.
var RtNextHop = wire.MustLayout(wire.LayoutConfig{
	Name: "rtnexthop",
	Fields: []wire.Field{
		{Name: "rtnh_len", Codec: wire.U16},
		{Name: "rtnh_flags", Codec: wire.U8},
		{Name: "rtnh_hops", Codec: wire.U8},
		{Name: "rtnh_ifindex", Codec: wire.I32},
	},
	SizeField: "rtnh_len",
	Align:     RTA_ALIGNTO,
})

// NdMsg is struct ndmsg.
var NdMsg = wire.MustLayout(wire.LayoutConfig{
	Name: "ndmsg",
	Fields: []wire.Field{
		{Name: "ndm_family", Codec: wire.U8},
		{Name: "ndm_pad1", Codec: wire.Pad(1)},
		{Name: "ndm_pad2", Codec: wire.Pad(2)},
		{Name: "ndm_ifindex", Codec: wire.I32},
		{Name: "ndm_state", Codec: wire.U16},
		{Name: "ndm_flags", Codec: wire.U8},
		{Name: "ndm_type", Codec: wire.U8},
	},
})

// TcMsg is struct tcmsg.
var TcMsg = wire.MustLayout(wire.LayoutConfig{
	Name: "tcmsg",
	Fields: []wire.Field{
		{Name: "tcm_family", Codec: wire.U8},
		{Name: "__tcm_pad", Codec: wire.Pad(3)},
		{Name: "tcm_ifindex", Codec: wire.I32},
		{Name: "tcm_handle", Codec: wire.U32},
		{Name: "tcm_parent", Codec: wire.U32},
		{Name: "tcm_info", Codec: wire.U32},
	},
})

// GenlMsgHdr is struct genlmsghdr, the fixed header of generic netlink
// family payloads.
var GenlMsgHdr = wire.MustLayout(wire.LayoutConfig{
	Name: "genlmsghdr",
	Fields: []wire.Field{
		{Name: "cmd", Codec: wire.U8},
		{Name: "version", Codec: wire.U8},
		{Name: "reserved", Codec: wire.Pad(2)},
	},
})

// TcHtbGlob is struct tc_htb_glob, the TCA_HTB_INIT payload.
var TcHtbGlob = wire.MustLayout(wire.LayoutConfig{
	Name: "tc_htb_glob",
	Fields: []wire.Field{
		{Name: "version", Codec: wire.U32},
		{Name: "rate2quantum", Codec: wire.U32},
		{Name: "defcls", Codec: wire.U32},
		{Name: "debug", Codec: wire.U32},
		{Name: "direct_pkts", Codec: wire.U32},
	},
})
