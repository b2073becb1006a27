package rtnl

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/wire"
)

func linkMessage(t *testing.T, children ...*schema.EncodeNode) []byte {
	t.Helper()
	n := &schema.EncodeNode{
		Layout: defs.IfInfoMsg,
		Values: map[string]wire.Value{
			"ifi_family": wire.Uint(defs.AF_UNSPEC),
			"ifi_index":  wire.Int(4),
			"ifi_flags":  wire.Uint(defs.IFF_UP | defs.IFF_RUNNING),
		},
		Children: children,
	}
	b, err := n.Encode()
	require.NoError(t, err)
	return b
}

func TestParseLinkMessage(t *testing.T) {
	b := linkMessage(t,
		schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String("vrf-blue")),
		schema.Attr(defs.RtAttr, defs.IFLA_MTU, wire.U32, wire.Uint(65575)),
		schema.Nest(defs.RtAttr, defs.IFLA_LINKINFO,
			schema.Attr(defs.RtAttr, defs.IFLA_INFO_KIND, wire.CStr, wire.String("vrf")),
			schema.Nest(defs.RtAttr, defs.IFLA_INFO_DATA,
				schema.Attr(defs.RtAttr, defs.IFLA_VRF_TABLE, wire.U32, wire.Uint(1042)),
			),
		),
	)

	l := &Link{}
	_, _, err := linkDecode.Parse(l, b)
	require.NoError(t, err)

	require.Equal(t, int32(4), l.Index)
	require.Equal(t, "vrf-blue", l.Name)
	require.Equal(t, uint32(65575), l.MTU)
	require.True(t, l.Up())
	require.Equal(t, "vrf", l.Kind)
	require.NotNil(t, l.VRF)
	require.Equal(t, uint32(1042), l.VRF.Table)
	require.Nil(t, l.ERSpan)
}

func TestParseLinkERSpan(t *testing.T) {
	b := linkMessage(t,
		schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String("ers1")),
		schema.Nest(defs.RtAttr, defs.IFLA_LINKINFO,
			schema.Attr(defs.RtAttr, defs.IFLA_INFO_KIND, wire.CStr, wire.String("erspan")),
			schema.Nest(defs.RtAttr, defs.IFLA_INFO_DATA,
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_LOCAL, wire.IP, wire.Addr(netip.MustParseAddr("192.0.2.1"))),
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_REMOTE, wire.IP, wire.Addr(netip.MustParseAddr("192.0.2.2"))),
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_IKEY, wire.U32BE, wire.Uint(100)),
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_VER, wire.U8, wire.Uint(1)),
				schema.Attr(defs.RtAttr, defs.IFLA_GRE_ERSPAN_INDEX, wire.U32, wire.Uint(7)),
			),
		),
	)

	l := &Link{}
	_, _, err := linkDecode.Parse(l, b)
	require.NoError(t, err)

	require.Equal(t, "erspan", l.Kind)
	require.NotNil(t, l.ERSpan)
	require.Equal(t, netip.MustParseAddr("192.0.2.1"), l.ERSpan.Local)
	require.Equal(t, netip.MustParseAddr("192.0.2.2"), l.ERSpan.Remote)
	require.Equal(t, uint32(100), l.ERSpan.IKey)
	require.Equal(t, uint8(1), l.ERSpan.Version)
	require.Equal(t, uint32(7), l.ERSpan.Index)
	require.Nil(t, l.VRF)
}

func TestUnknownLinkKindIsSkipped(t *testing.T) {
	b := linkMessage(t,
		schema.Nest(defs.RtAttr, defs.IFLA_LINKINFO,
			schema.Attr(defs.RtAttr, defs.IFLA_INFO_KIND, wire.CStr, wire.String("bond")),
			schema.Nest(defs.RtAttr, defs.IFLA_INFO_DATA,
				schema.Attr(defs.RtAttr, defs.IFLA_VRF_TABLE, wire.U32, wire.Uint(99)),
			),
		),
	)

	l := &Link{}
	_, _, err := linkDecode.Parse(l, b)
	require.NoError(t, err)
	require.Equal(t, "bond", l.Kind)
	require.Nil(t, l.VRF)
	require.Nil(t, l.ERSpan)
}

func TestNameOnlyTableCapturesNameAndIndex(t *testing.T) {
	b := linkMessage(t,
		schema.Attr(defs.RtAttr, defs.IFLA_IFNAME, wire.CStr, wire.String("eth0")),
		schema.Attr(defs.RtAttr, defs.IFLA_MTU, wire.U32, wire.Uint(1500)),
	)

	l := &Link{}
	_, _, err := linkNameDecode.Parse(l, b)
	require.NoError(t, err)
	require.Equal(t, int32(4), l.Index)
	require.Equal(t, "eth0", l.Name)
	require.Zero(t, l.MTU)
}

func TestLinkInfoNodeRejectsUnknownKind(t *testing.T) {
	_, err := linkInfoNode(&Link{Name: "x", Kind: "bridge"})
	require.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestLinkInfoNodeRoundTrip(t *testing.T) {
	info, err := linkInfoNode(&Link{
		Name: "vrf-red",
		Kind: "vrf",
		VRF:  &VRF{Table: 7},
	})
	require.NoError(t, err)

	b := linkMessage(t, info)
	l := &Link{}
	_, _, err = linkDecode.Parse(l, b)
	require.NoError(t, err)
	require.Equal(t, "vrf", l.Kind)
	require.Equal(t, uint32(7), l.VRF.Table)
}
