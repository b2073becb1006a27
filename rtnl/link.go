package rtnl

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/transport"
	"github.com/ionos-cloud/netlinklib/wire"
)

// Link is one network interface as reported by RTM_NEWLINK.
type Link struct {
	Index       int32
	Family      uint8
	DevType     uint16
	Flags       uint32
	Name        string
	MTU         uint32
	MasterIndex int32
	LinkIndex   int32
	TxQLen      uint32
	OperState   uint8
	Group       uint32
	Addr        net.HardwareAddr
	Broadcast   net.HardwareAddr

	// Kind and the matching member below come from IFLA_LINKINFO; only
	// the member for Kind is populated.
	Kind   string
	VRF    *VRF
	ERSpan *ERSpan
}

// Up reports whether the interface is administratively up.
func (l *Link) Up() bool { return l.Flags&defs.IFF_UP != 0 }

// VRF is the IFLA_INFO_DATA payload of a vrf link.
type VRF struct {
	Table uint32
}

// ERSpan is the IFLA_INFO_DATA payload of erspan and ip6erspan links.
// Keys and flag masks are in network byte order on the wire.
type ERSpan struct {
	LinkIndex int32
	Local     netip.Addr
	Remote    netip.Addr
	TTL       uint8
	IKey      uint32
	OKey      uint32
	IFlags    uint16
	OFlags    uint16
	Version   uint8
	Index     uint32
	Dir       uint8
	HWID      uint16
}

func linkInfoData(l *Link) (*schema.DecodeNode[*Link], error) {
	switch l.Kind {
	case "vrf":
		return vrfData, nil
	case "erspan", "ip6erspan":
		return erspanData, nil
	}
	return nil, nil
}

var vrfData = schema.MustDecode(&schema.DecodeNode[*Link]{
	Children: []*schema.DecodeNode[*Link]{
		attr(defs.IFLA_VRF_TABLE, wire.U32, func(l *Link, v wire.Value) {
			if l.VRF == nil {
				l.VRF = &VRF{}
			}
			l.VRF.Table = uint32(v.Uint)
		}),
	},
})

func erspan(l *Link) *ERSpan {
	if l.ERSpan == nil {
		l.ERSpan = &ERSpan{}
	}
	return l.ERSpan
}

var erspanData = schema.MustDecode(&schema.DecodeNode[*Link]{
	Children: []*schema.DecodeNode[*Link]{
		attr(defs.IFLA_GRE_LINK, wire.U32, func(l *Link, v wire.Value) { erspan(l).LinkIndex = int32(v.Uint) }),
		attr(defs.IFLA_GRE_LOCAL, wire.IP, func(l *Link, v wire.Value) { erspan(l).Local = v.Addr }),
		attr(defs.IFLA_GRE_REMOTE, wire.IP, func(l *Link, v wire.Value) { erspan(l).Remote = v.Addr }),
		attr(defs.IFLA_GRE_TTL, wire.U8, func(l *Link, v wire.Value) { erspan(l).TTL = uint8(v.Uint) }),
		attr(defs.IFLA_GRE_IKEY, wire.U32BE, func(l *Link, v wire.Value) { erspan(l).IKey = uint32(v.Uint) }),
		attr(defs.IFLA_GRE_OKEY, wire.U32BE, func(l *Link, v wire.Value) { erspan(l).OKey = uint32(v.Uint) }),
		attr(defs.IFLA_GRE_IFLAGS, wire.U16BE, func(l *Link, v wire.Value) { erspan(l).IFlags = uint16(v.Uint) }),
		attr(defs.IFLA_GRE_OFLAGS, wire.U16BE, func(l *Link, v wire.Value) { erspan(l).OFlags = uint16(v.Uint) }),
		attr(defs.IFLA_GRE_ERSPAN_VER, wire.U8, func(l *Link, v wire.Value) { erspan(l).Version = uint8(v.Uint) }),
		attr(defs.IFLA_GRE_ERSPAN_INDEX, wire.U32, func(l *Link, v wire.Value) { erspan(l).Index = uint32(v.Uint) }),
		attr(defs.IFLA_GRE_ERSPAN_DIR, wire.U8, func(l *Link, v wire.Value) { erspan(l).Dir = uint8(v.Uint) }),
		attr(defs.IFLA_GRE_ERSPAN_HWID, wire.U16, func(l *Link, v wire.Value) { erspan(l).HWID = uint16(v.Uint) }),
	},
})

var linkDecode = schema.MustDecode(&schema.DecodeNode[*Link]{
	Layout: defs.IfInfoMsg,
	Callbacks: map[string]schema.Callback[*Link]{
		"ifi_family": set(func(l *Link, v wire.Value) { l.Family = uint8(v.Uint) }),
		"ifi_type":   set(func(l *Link, v wire.Value) { l.DevType = uint16(v.Uint) }),
		"ifi_index":  set(func(l *Link, v wire.Value) { l.Index = int32(v.Int) }),
		"ifi_flags":  set(func(l *Link, v wire.Value) { l.Flags = uint32(v.Uint) }),
	},
	Children: []*schema.DecodeNode[*Link]{
		attr(defs.IFLA_IFNAME, wire.CStr, func(l *Link, v wire.Value) { l.Name = v.Str }),
		attr(defs.IFLA_MTU, wire.U32, func(l *Link, v wire.Value) { l.MTU = uint32(v.Uint) }),
		attr(defs.IFLA_MASTER, wire.U32, func(l *Link, v wire.Value) { l.MasterIndex = int32(v.Uint) }),
		attr(defs.IFLA_LINK, wire.U32, func(l *Link, v wire.Value) { l.LinkIndex = int32(v.Uint) }),
		attr(defs.IFLA_TXQLEN, wire.U32, func(l *Link, v wire.Value) { l.TxQLen = uint32(v.Uint) }),
		attr(defs.IFLA_OPERSTATE, wire.U8, func(l *Link, v wire.Value) { l.OperState = uint8(v.Uint) }),
		attr(defs.IFLA_GROUP, wire.U32, func(l *Link, v wire.Value) { l.Group = uint32(v.Uint) }),
		attr(defs.IFLA_ADDRESS, wire.MAC, func(l *Link, v wire.Value) { l.Addr = v.HW }),
		attr(defs.IFLA_BROADCAST, wire.MAC, func(l *Link, v wire.Value) { l.Broadcast = v.HW }),
		{
			Layout: defs.RtAttr,
			Tag:    defs.IFLA_LINKINFO,
			Children: []*schema.DecodeNode[*Link]{
				attr(defs.IFLA_INFO_KIND, wire.CStr, func(l *Link, v wire.Value) { l.Kind = v.Str }),
				{Layout: defs.RtAttr, Tag: defs.IFLA_INFO_DATA, Resolve: linkInfoData},
			},
		},
	},
})

// linkNameDecode is the reduced table for name-only dumps; everything
// past the two captured values is skipped by tag.
var linkNameDecode = schema.MustDecode(&schema.DecodeNode[*Link]{
	Layout: defs.IfInfoMsg,
	Callbacks: map[string]schema.Callback[*Link]{
		"ifi_index": set(func(l *Link, v wire.Value) { l.Index = int32(v.Int) }),
	},
	Children: []*schema.DecodeNode[*Link]{
		attr(defs.IFLA_IFNAME, wire.CStr, func(l *Link, v wire.Value) { l.Name = v.Str }),
	},
})

func linkDumpBody() ([]byte, error) {
	n := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Values: map[string]wire.Value{"ifi_family": wire.Uint(defs.AF_UNSPEC)},
	}
	return n.Encode()
}

// GetLinks dumps all interfaces. With nameOnly set, only Index and Name
// are populated, which keeps large dumps cheap.
func GetLinks(c *transport.Conn, nameOnly bool) ([]*Link, error) {
	table := linkDecode
	if nameOnly {
		table = linkNameDecode
	}
	body, err := linkDumpBody()
	if err != nil {
		return nil, err
	}
	var links []*Link
	err = c.Dump(defs.RTM_GETLINK, defs.RTM_NEWLINK, body, func(p []byte) error {
		l := &Link{}
		if _, _, err := table.Parse(l, p); err != nil {
			if errors.Is(err, schema.StopParsing) {
				return nil
			}
			return err
		}
		links = append(links, l)
		return nil
	})
	if err != nil {
		return links, err
	}
	return links, nil
}

// LinkLookup resolves an interface name to its index. A missing
// interface is ErrNotFound.
func LinkLookup(c *transport.Conn, name string) (int32, error) {
	req := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String(name)),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return 0, err
	}
	replies, err := c.Transact("link lookup", defs.RTM_GETLINK, defs.RTM_NEWLINK, 0, body)
	if err != nil {
		if errors.Is(err, unix.ENODEV) {
			return 0, fmt.Errorf("%w: link %q", ErrNotFound, name)
		}
		return 0, err
	}
	if len(replies) == 0 {
		return 0, fmt.Errorf("%w: link %q", ErrNotFound, name)
	}
	l := &Link{}
	if _, _, err := linkNameDecode.Parse(l, replies[0]); err != nil {
		return 0, err
	}
	return l.Index, nil
}

func linkInfoNode(l *Link) (*schema.EncodeNode, error) {
	var data []*schema.EncodeNode
	switch l.Kind {
	case "vrf":
		if l.VRF == nil {
			return nil, fmt.Errorf("rtnl: vrf link %q has no table", l.Name)
		}
		data = append(data,
			schema.Attr(defs.RtAttr, defs.IFLA_VRF_TABLE, wire.U32, wire.Uint(uint64(l.VRF.Table))))
	case "erspan", "ip6erspan":
		e := l.ERSpan
		if e == nil {
			return nil, fmt.Errorf("rtnl: %s link %q has no tunnel data", l.Kind, l.Name)
		}
		data = append(data,
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_LINK, wire.U32, wire.Uint(uint64(e.LinkIndex))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_LOCAL, wire.IP, wire.Addr(e.Local)),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_REMOTE, wire.IP, wire.Addr(e.Remote)),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_TTL, wire.U8, wire.Uint(uint64(e.TTL))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_IKEY, wire.U32BE, wire.Uint(uint64(e.IKey))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_OKEY, wire.U32BE, wire.Uint(uint64(e.OKey))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_IFLAGS, wire.U16BE, wire.Uint(uint64(e.IFlags))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_OFLAGS, wire.U16BE, wire.Uint(uint64(e.OFlags))),
			schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_VER, wire.U8, wire.Uint(uint64(e.Version))),
		)
		if e.Version == 1 {
			data = append(data,
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_INDEX, wire.U32, wire.Uint(uint64(e.Index))))
		} else {
			data = append(data,
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_DIR, wire.U8, wire.Uint(uint64(e.Dir))),
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_HWID, wire.U16, wire.Uint(uint64(e.HWID))))
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, l.Kind)
	}
	return schema.Nest(defs.RtAttr, defs.IFLA_LINKINFO,
		schema.Attr(defs.RtAttr, defs.IFLA_INFO_KIND, wire.CStr, wire.String(l.Kind)),
		schema.Nest(defs.RtAttr, defs.IFLA_INFO_DATA, data...),
	), nil
}

// LinkAdd creates the interface described by l and returns its index.
// Kernels from 6.3 echo the new interface back; older ones get a
// lookup by name instead.
func LinkAdd(c *transport.Conn, l *Link) (int32, error) {
	info, err := linkInfoNode(l)
	if err != nil {
		return 0, err
	}
	req := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Values: map[string]wire.Value{
			"ifi_family": wire.Uint(uint64(l.Family)),
			"ifi_flags":  wire.Uint(uint64(l.Flags)),
			"ifi_change": wire.Uint(uint64(l.Flags)),
		},
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String(l.Name)),
			info,
		},
	}
	body, err := req.Encode()
	if err != nil {
		return 0, err
	}
	flags := uint16(defs.NLM_F_CREATE | defs.NLM_F_EXCL | defs.NLM_F_ECHO)
	replies, err := c.Transact("link add", defs.RTM_NEWLINK, defs.RTM_NEWLINK, flags, body)
	if err != nil {
		return 0, err
	}
	if len(replies) > 0 {
		echoed := &Link{}
		if _, _, err := linkNameDecode.Parse(echoed, replies[0]); err != nil {
			return 0, err
		}
		return echoed.Index, nil
	}
	return LinkLookup(c, l.Name)
}

// LinkDel removes the named interface.
func LinkDel(c *transport.Conn, name string) error {
	req := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String(name)),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return err
	}
	_, err = c.Transact("link del", defs.RTM_DELLINK, defs.RTM_NEWLINK, 0, body)
	if errors.Is(err, unix.ENODEV) {
		return fmt.Errorf("%w: link %q", ErrNotFound, name)
	}
	return err
}

// LinkSetUp flips the administrative state of an interface.
func LinkSetUp(c *transport.Conn, index int32, up bool) error {
	var flags uint64
	if up {
		flags = defs.IFF_UP
	}
	req := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Values: map[string]wire.Value{
			"ifi_index":  wire.Int(int64(index)),
			"ifi_flags":  wire.Uint(flags),
			"ifi_change": wire.Uint(defs.IFF_UP),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return err
	}
	_, err = c.Transact("link set", defs.RTM_NEWLINK, defs.RTM_NEWLINK, 0, body)
	return err
}

// LinkSetMaster moves an interface under a master device (a vrf or a
// bridge); a zero master index releases it.
func LinkSetMaster(c *transport.Conn, index, master int32) error {
	req := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Values: map[string]wire.Value{"ifi_index": wire.Int(int64(index))},
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.IFLA_MASTER, wire.U32, wire.Uint(uint64(master))),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return err
	}
	_, err = c.Transact("link set master", defs.RTM_NEWLINK, defs.RTM_NEWLINK, 0, body)
	return err
}
