package rtnl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/wire"
)

func qdiscMessage(t *testing.T, kind string, options *schema.EncodeNode) []byte {
	t.Helper()
	n := &schema.EncodeNode{
		Layout: defs.TcMsg,
		Values: map[string]wire.Value{
			"tcm_ifindex": wire.Int(3),
			"tcm_handle":  wire.Uint(0x10000),
			"tcm_parent":  wire.Uint(defs.TC_H_ROOT),
		},
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.TCA_KIND, wire.CStr, wire.String(kind)),
		},
	}
	if options != nil {
		n.Children = append(n.Children, options)
	}
	b, err := n.Encode()
	require.NoError(t, err)
	return b
}

func htbOptionsNode(defcls uint32) *schema.EncodeNode {
	return schema.Nest(defs.RtAttr, defs.TCA_OPTIONS,
		&schema.EncodeNode{
			Layout: defs.RtAttr,
			Values: map[string]wire.Value{"rta_type": wire.Uint(defs.TCA_HTB_INIT)},
			Children: []*schema.EncodeNode{
				{
					Layout: defs.TcHtbGlob,
					Values: map[string]wire.Value{
						"version":      wire.Uint(3),
						"rate2quantum": wire.Uint(10),
						"defcls":       wire.Uint(uint64(defcls)),
					},
				},
			},
		},
		schema.Attr(defs.RtAttr, defs.TCA_HTB_DIRECT_QLEN, wire.U32, wire.Uint(1000)),
	)
}

func TestParseHTBQdisc(t *testing.T) {
	b := qdiscMessage(t, "htb", htbOptionsNode(0x30))

	q := &Qdisc{}
	_, _, err := qdiscDecode.Parse(q, b)
	require.NoError(t, err)

	require.Equal(t, int32(3), q.IfIndex)
	require.Equal(t, uint32(0x10000), q.Handle)
	require.Equal(t, uint32(defs.TC_H_ROOT), q.Parent)
	require.Equal(t, "htb", q.Kind)
	require.NotNil(t, q.HTB)
	require.Equal(t, uint32(3), q.HTB.Version)
	require.Equal(t, uint32(10), q.HTB.Rate2Quantum)
	require.Equal(t, uint32(0x30), q.HTB.DefCls)
	require.Equal(t, uint32(1000), q.HTB.DirectQlen)
}

func TestUnknownQdiscOptionsAreSkipped(t *testing.T) {
	// fq_codel options would not parse as htb; the union must skip them.
	b := qdiscMessage(t, "fq_codel", schema.Nest(defs.RtAttr, defs.TCA_OPTIONS,
		schema.Attr(defs.RtAttr, 1, wire.U32, wire.Uint(10240)),
	))

	q := &Qdisc{}
	_, _, err := qdiscDecode.Parse(q, b)
	require.NoError(t, err)
	require.Equal(t, "fq_codel", q.Kind)
	require.Nil(t, q.HTB)
}
