package rtnl

import (
	"errors"
	"net"
	"net/netip"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/transport"
	"github.com/ionos-cloud/netlinklib/wire"
)

// Neighbor is one ARP/NDP cache entry as reported by RTM_NEWNEIGH.
type Neighbor struct {
	Family  uint8
	IfIndex int32
	State   uint16
	Flags   uint8
	Type    uint8
	Dst     netip.Addr
	LLAddr  net.HardwareAddr
}

// Reachable reports whether the entry resolves to a usable address.
func (n *Neighbor) Reachable() bool {
	return n.State&(defs.NUD_REACHABLE|defs.NUD_STALE|defs.NUD_DELAY|
		defs.NUD_PROBE|defs.NUD_PERMANENT|defs.NUD_NOARP) != 0
}

var neighDecode = schema.MustDecode(&schema.DecodeNode[*Neighbor]{
	Layout: defs.NdMsg,
	Callbacks: map[string]schema.Callback[*Neighbor]{
		"ndm_family":  set(func(n *Neighbor, v wire.Value) { n.Family = uint8(v.Uint) }),
		"ndm_ifindex": set(func(n *Neighbor, v wire.Value) { n.IfIndex = int32(v.Int) }),
		"ndm_state":   set(func(n *Neighbor, v wire.Value) { n.State = uint16(v.Uint) }),
		"ndm_flags":   set(func(n *Neighbor, v wire.Value) { n.Flags = uint8(v.Uint) }),
		"ndm_type":    set(func(n *Neighbor, v wire.Value) { n.Type = uint8(v.Uint) }),
	},
	Children: []*schema.DecodeNode[*Neighbor]{
		attr(defs.NDA_DST, wire.IP, func(n *Neighbor, v wire.Value) { n.Dst = v.Addr }),
		attr(defs.NDA_LLADDR, wire.MAC, func(n *Neighbor, v wire.Value) { n.LLAddr = v.HW }),
	},
})

// GetNeighbors dumps the neighbor cache for one address family;
// defs.AF_UNSPEC dumps all families.
func GetNeighbors(c *transport.Conn, family uint8) ([]*Neighbor, error) {
	req := &schema.EncodeNode{
		Layout: defs.NdMsg,
		Values: map[string]wire.Value{"ndm_family": wire.Uint(uint64(family))},
	}
	body, err := req.Encode()
	if err != nil {
		return nil, err
	}
	var neighbors []*Neighbor
	err = c.Dump(defs.RTM_GETNEIGH, defs.RTM_NEWNEIGH, body, func(p []byte) error {
		n := &Neighbor{}
		if _, _, err := neighDecode.Parse(n, p); err != nil {
			if errors.Is(err, schema.StopParsing) {
				return nil
			}
			return err
		}
		neighbors = append(neighbors, n)
		return nil
	})
	return neighbors, err
}
