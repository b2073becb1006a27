package rtnl

import (
	"errors"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/transport"
	"github.com/ionos-cloud/netlinklib/wire"
)

// Qdisc is one queueing discipline as reported by RTM_NEWQDISC.
type Qdisc struct {
	Family  uint8
	IfIndex int32
	Handle  uint32
	Parent  uint32
	Kind    string
	HTB     *HTB
}

// HTB is the TCA_OPTIONS payload of an htb qdisc.
type HTB struct {
	Version      uint32
	Rate2Quantum uint32
	DefCls       uint32
	DirectPkts   uint32
	DirectQlen   uint32
}

func (q *Qdisc) htb() *HTB {
	if q.HTB == nil {
		q.HTB = &HTB{}
	}
	return q.HTB
}

func qdiscOptions(q *Qdisc) (*schema.DecodeNode[*Qdisc], error) {
	if q.Kind == "htb" {
		return htbOptions, nil
	}
	return nil, nil
}

// htbOptions descends into TCA_HTB_INIT, whose payload is the fixed
// struct tc_htb_glob rather than another attribute list.
var htbOptions = schema.MustDecode(&schema.DecodeNode[*Qdisc]{
	Children: []*schema.DecodeNode[*Qdisc]{
		{
			Layout: defs.RtAttr,
			Tag:    defs.TCA_HTB_INIT,
			Children: []*schema.DecodeNode[*Qdisc]{
				{
					Layout: defs.TcHtbGlob,
					Callbacks: map[string]schema.Callback[*Qdisc]{
						"version":      set(func(q *Qdisc, v wire.Value) { q.htb().Version = uint32(v.Uint) }),
						"rate2quantum": set(func(q *Qdisc, v wire.Value) { q.htb().Rate2Quantum = uint32(v.Uint) }),
						"defcls":       set(func(q *Qdisc, v wire.Value) { q.htb().DefCls = uint32(v.Uint) }),
						"direct_pkts":  set(func(q *Qdisc, v wire.Value) { q.htb().DirectPkts = uint32(v.Uint) }),
					},
				},
			},
		},
		attr(defs.TCA_HTB_DIRECT_QLEN, wire.U32, func(q *Qdisc, v wire.Value) { q.htb().DirectQlen = uint32(v.Uint) }),
	},
})

var qdiscDecode = schema.MustDecode(&schema.DecodeNode[*Qdisc]{
	Layout: defs.TcMsg,
	Callbacks: map[string]schema.Callback[*Qdisc]{
		"tcm_family":  set(func(q *Qdisc, v wire.Value) { q.Family = uint8(v.Uint) }),
		"tcm_ifindex": set(func(q *Qdisc, v wire.Value) { q.IfIndex = int32(v.Int) }),
		"tcm_handle":  set(func(q *Qdisc, v wire.Value) { q.Handle = uint32(v.Uint) }),
		"tcm_parent":  set(func(q *Qdisc, v wire.Value) { q.Parent = uint32(v.Uint) }),
	},
	Children: []*schema.DecodeNode[*Qdisc]{
		attr(defs.TCA_KIND, wire.CStr, func(q *Qdisc, v wire.Value) { q.Kind = v.Str }),
		{Layout: defs.RtAttr, Tag: defs.TCA_OPTIONS, Resolve: qdiscOptions},
	},
})

// GetQdiscs dumps the queueing disciplines of every interface.
func GetQdiscs(c *transport.Conn) ([]*Qdisc, error) {
	req := &schema.EncodeNode{
		Layout: defs.TcMsg,
		Values: map[string]wire.Value{"tcm_family": wire.Uint(defs.AF_UNSPEC)},
	}
	body, err := req.Encode()
	if err != nil {
		return nil, err
	}
	var qdiscs []*Qdisc
	err = c.Dump(defs.RTM_GETQDISC, defs.RTM_NEWQDISC, body, func(p []byte) error {
		q := &Qdisc{}
		if _, _, err := qdiscDecode.Parse(q, p); err != nil {
			if errors.Is(err, schema.StopParsing) {
				return nil
			}
			return err
		}
		qdiscs = append(qdiscs, q)
		return nil
	})
	return qdiscs, err
}

// QdiscAddHTB installs an htb root qdisc on an interface. defcls is the
// minor class id unclassified traffic falls into.
func QdiscAddHTB(c *transport.Conn, ifindex int32, handle uint32, defcls uint32) error {
	req := &schema.EncodeNode{
		Layout: defs.TcMsg,
		Values: map[string]wire.Value{
			"tcm_ifindex": wire.Int(int64(ifindex)),
			"tcm_handle":  wire.Uint(uint64(handle)),
			"tcm_parent":  wire.Uint(defs.TC_H_ROOT),
		},
		Children: []*schema.EncodeNode{
			schema.Attr(defs.RtAttr, defs.TCA_KIND, wire.CStr, wire.String("htb")),
			schema.Nest(defs.RtAttr, defs.TCA_OPTIONS,
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
			),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return err
	}
	flags := uint16(defs.NLM_F_CREATE | defs.NLM_F_EXCL)
	_, err = c.Transact("qdisc add", defs.RTM_NEWQDISC, defs.RTM_NEWQDISC, flags, body)
	return err
}

// QdiscDel removes the root qdisc of an interface.
func QdiscDel(c *transport.Conn, ifindex int32) error {
	req := &schema.EncodeNode{
		Layout: defs.TcMsg,
		Values: map[string]wire.Value{
			"tcm_ifindex": wire.Int(int64(ifindex)),
			"tcm_parent":  wire.Uint(defs.TC_H_ROOT),
		},
	}
	body, err := req.Encode()
	if err != nil {
		return err
	}
	_, err = c.Transact("qdisc del", defs.RTM_DELQDISC, defs.RTM_NEWQDISC, 0, body)
	return err
}
