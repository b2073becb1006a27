package rtnl

import (
	"errors"
	"fmt"
	"net/netip"

	"golang.org/x/sys/unix"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/transport"
	"github.com/ionos-cloud/netlinklib/wire"
)

// Route is one routing table entry as reported by RTM_NEWROUTE. A
// kernel entry with an RTA_MULTIPATH payload is flattened into one
// Route per nexthop before it reaches the caller.
type Route struct {
	Family   uint8
	DstLen   uint8
	SrcLen   uint8
	TOS      uint8
	Table    uint32
	Protocol uint8
	Scope    uint8
	Type     uint8
	Flags    uint32
	Dst      netip.Addr
	Gateway  netip.Addr
	PrefSrc  netip.Addr
	Priority uint32
	OifIndex int32
	NextHops []NextHop

	multipath []byte
}

// NextHop is one leg of a multipath route.
type NextHop struct {
	IfIndex int32
	Gateway netip.Addr
	Weight  uint8
	Flags   uint8
}

// RouteFilter narrows a dump. Zero values match everything.
type RouteFilter struct {
	// Tables keeps routes from any of the listed tables; empty keeps all.
	Tables      []uint32
	OifIndex    int32
	Protocol    uint8
	Scope       uint8
	ScopeSet    bool
	UnicastOnly bool
}

func (f *RouteFilter) matchTable(table uint32) bool {
	if f == nil || len(f.Tables) == 0 {
		return true
	}
	for _, t := range f.Tables {
		if t == table {
			return true
		}
	}
	return false
}

// routeQuery threads the active filter through the accumulator so the
// schema callbacks can cancel non-matching messages early.
type routeQuery struct {
	route  *Route
	filter *RouteFilter
}

var routeDecode = schema.MustDecode(&schema.DecodeNode[*routeQuery]{
	Layout: defs.RtMsg,
	Callbacks: map[string]schema.Callback[*routeQuery]{
		"rtm_family":   set(func(q *routeQuery, v wire.Value) { q.route.Family = uint8(v.Uint) }),
		"rtm_dst_len":  set(func(q *routeQuery, v wire.Value) { q.route.DstLen = uint8(v.Uint) }),
		"rtm_src_len":  set(func(q *routeQuery, v wire.Value) { q.route.SrcLen = uint8(v.Uint) }),
		"rtm_tos":      set(func(q *routeQuery, v wire.Value) { q.route.TOS = uint8(v.Uint) }),
		"rtm_table":    set(func(q *routeQuery, v wire.Value) { q.route.Table = uint32(v.Uint) }),
		"rtm_protocol": func(q *routeQuery, v wire.Value) (*routeQuery, error) {
			q.route.Protocol = uint8(v.Uint)
			if q.filter != nil && q.filter.Protocol != 0 && q.route.Protocol != q.filter.Protocol {
				return nil, schema.StopParsing
			}
			return q, nil
		},
		// RT_SCOPE_UNIVERSE is zero, so the scope filter needs its own
		// armed flag.
		"rtm_scope": func(q *routeQuery, v wire.Value) (*routeQuery, error) {
			q.route.Scope = uint8(v.Uint)
			if q.filter != nil && q.filter.ScopeSet && q.route.Scope != q.filter.Scope {
				return nil, schema.StopParsing
			}
			return q, nil
		},
		"rtm_flags":    set(func(q *routeQuery, v wire.Value) { q.route.Flags = uint32(v.Uint) }),
		"rtm_type": func(q *routeQuery, v wire.Value) (*routeQuery, error) {
			q.route.Type = uint8(v.Uint)
			if q.filter != nil && q.filter.UnicastOnly && q.route.Type != defs.RTN_UNICAST {
				return nil, schema.StopParsing
			}
			return q, nil
		},
	},
	Children: []*schema.DecodeNode[*routeQuery]{
		attr(defs.RTA_DST, wire.IP, func(q *routeQuery, v wire.Value) { q.route.Dst = v.Addr }),
		attr(defs.RTA_GATEWAY, wire.IP, func(q *routeQuery, v wire.Value) { q.route.Gateway = v.Addr }),
		attr(defs.RTA_PREFSRC, wire.IP, func(q *routeQuery, v wire.Value) { q.route.PrefSrc = v.Addr }),
		attr(defs.RTA_PRIORITY, wire.U32, func(q *routeQuery, v wire.Value) { q.route.Priority = uint32(v.Uint) }),
		attr(defs.RTA_TABLE, wire.U32, func(q *routeQuery, v wire.Value) { q.route.Table = uint32(v.Uint) }),
		{
			Layout: defs.RtAttr,
			Tag:    defs.RTA_OIF,
			Value: &schema.Capture[*routeQuery]{Codec: wire.U32,
				Set: func(q *routeQuery, v wire.Value) (*routeQuery, error) {
					q.route.OifIndex = int32(v.Uint)
					if q.filter != nil && q.filter.OifIndex != 0 && q.route.OifIndex != q.filter.OifIndex {
						return nil, schema.StopParsing
					}
					return q, nil
				}},
		},
		attr(defs.RTA_MULTIPATH, wire.Raw, func(q *routeQuery, v wire.Value) { q.route.multipath = v.Raw }),
	},
})

// nexthopAttrs decodes the attribute list that trails each rtnexthop.
var nexthopAttrs = schema.MustDecode(&schema.DecodeNode[*NextHop]{
	Children: []*schema.DecodeNode[*NextHop]{
		attr(defs.RTA_GATEWAY, wire.IP, func(nh *NextHop, v wire.Value) { nh.Gateway = v.Addr }),
	},
})

// parseNextHops walks an RTA_MULTIPATH payload. rtnexthop carries its
// own length but no tag, so the list cannot be tag-dispatched and is
// walked here by declared element length.
func parseNextHops(raw []byte) ([]NextHop, error) {
	hdr := defs.RtNextHop.Size()
	var hops []NextHop
	for len(raw) > 0 {
		vals, err := defs.RtNextHop.Unpack(raw)
		if err != nil {
			return nil, err
		}
		size, _ := defs.RtNextHop.SizeValue(vals)
		if size < hdr || size > len(raw) {
			return nil, fmt.Errorf("rtnl: rtnexthop length %d within %d available", size, len(raw))
		}
		flagsIdx, _ := defs.RtNextHop.Index("rtnh_flags")
		hopsIdx, _ := defs.RtNextHop.Index("rtnh_hops")
		ifIdx, _ := defs.RtNextHop.Index("rtnh_ifindex")
		nh := NextHop{
			Flags: uint8(vals[flagsIdx].Uint),
			// rtnh_hops stores weight-1.
			Weight:  uint8(vals[hopsIdx].Uint) + 1,
			IfIndex: int32(vals[ifIdx].Int),
		}
		if _, _, err := nexthopAttrs.Parse(&nh, raw[hdr:size]); err != nil {
			return nil, err
		}
		hops = append(hops, nh)
		adv := size
		if pad := size % defs.RTA_ALIGNTO; pad != 0 {
			adv += defs.RTA_ALIGNTO - pad
		}
		if adv > len(raw) {
			adv = len(raw)
		}
		raw = raw[adv:]
	}
	return hops, nil
}

// flatten expands a multipath route into one Route per nexthop, the
// shape route daemons expect to diff against their own RIB.
func flatten(r *Route) ([]*Route, error) {
	if r.multipath == nil {
		return []*Route{r}, nil
	}
	hops, err := parseNextHops(r.multipath)
	if err != nil {
		return nil, err
	}
	r.multipath = nil
	r.NextHops = hops
	out := make([]*Route, 0, len(hops))
	for _, nh := range hops {
		leg := *r
		leg.Gateway = nh.Gateway
		leg.OifIndex = nh.IfIndex
		out = append(out, &leg)
	}
	return out, nil
}

func routeDumpBody(family uint8) ([]byte, error) {
	n := &schema.EncodeNode{
		Layout: defs.RtMsg,
		Values: map[string]wire.Value{"rtm_family": wire.Uint(uint64(family))},
	}
	return n.Encode()
}

// GetRoutes dumps the routing table for one address family. filter may
// be nil. Entries a filter callback cancels are dropped without
// aborting the dump; a table filter is applied after parsing because
// RTA_TABLE overrides the header field for tables above 255.
func GetRoutes(c *transport.Conn, family uint8, filter *RouteFilter) ([]*Route, error) {
	body, err := routeDumpBody(family)
	if err != nil {
		return nil, err
	}
	var routes []*Route
	err = c.Dump(defs.RTM_GETROUTE, defs.RTM_NEWROUTE, body, func(p []byte) error {
		q := &routeQuery{route: &Route{}, filter: filter}
		if _, _, err := routeDecode.Parse(q, p); err != nil {
			if errors.Is(err, schema.StopParsing) {
				return nil
			}
			return err
		}
		if !filter.matchTable(q.route.Table) {
			return nil
		}
		legs, err := flatten(q.route)
		if err != nil {
			return err
		}
		routes = append(routes, legs...)
		return nil
	})
	return routes, err
}

func routeRequest(r *Route) ([]byte, error) {
	table := r.Table
	if table == 0 {
		table = defs.RT_TABLE_MAIN
	}
	hdrTable := table
	if hdrTable > 255 {
		hdrTable = defs.RT_TABLE_UNSPEC
	}
	proto := r.Protocol
	if proto == 0 {
		proto = defs.RTPROT_BOOT
	}
	typ := r.Type
	if typ == 0 {
		typ = defs.RTN_UNICAST
	}
	req := &schema.EncodeNode{
		Layout: defs.RtMsg,
		Values: map[string]wire.Value{
			"rtm_family":   wire.Uint(uint64(r.Family)),
			"rtm_dst_len":  wire.Uint(uint64(r.DstLen)),
			"rtm_table":    wire.Uint(uint64(hdrTable)),
			"rtm_protocol": wire.Uint(uint64(proto)),
			"rtm_scope":    wire.Uint(uint64(r.Scope)),
			"rtm_type":     wire.Uint(uint64(typ)),
		},
	}
	if r.Dst.IsValid() {
		req.Children = append(req.Children,
			schema.Attr(defs.RtAttr, defs.RTA_DST, wire.IP, wire.Addr(r.Dst)))
	}
	if table > 255 {
		req.Children = append(req.Children,
			schema.Attr(defs.RtAttr, defs.RTA_TABLE, wire.U32, wire.Uint(uint64(table))))
	}
	if r.Priority != 0 {
		req.Children = append(req.Children,
			schema.Attr(defs.RtAttr, defs.RTA_PRIORITY, wire.U32, wire.Uint(uint64(r.Priority))))
	}
	switch {
	case len(r.NextHops) > 1:
		hops := make([]*schema.EncodeNode, 0, len(r.NextHops))
		for _, nh := range r.NextHops {
			weight := nh.Weight
			if weight == 0 {
				weight = 1
			}
			hop := &schema.EncodeNode{
				Layout: defs.RtNextHop,
				Values: map[string]wire.Value{
					"rtnh_hops":    wire.Uint(uint64(weight - 1)),
					"rtnh_ifindex": wire.Int(int64(nh.IfIndex)),
				},
			}
			if nh.Gateway.IsValid() {
				hop.Children = []*schema.EncodeNode{
					schema.Attr(defs.RtAttr, defs.RTA_GATEWAY, wire.IP, wire.Addr(nh.Gateway)),
				}
			}
			hops = append(hops, hop)
		}
		req.Children = append(req.Children, schema.Nest(defs.RtAttr, defs.RTA_MULTIPATH, hops...))
	case len(r.NextHops) == 1:
		nh := r.NextHops[0]
		if nh.Gateway.IsValid() {
			req.Children = append(req.Children,
				schema.Attr(defs.RtAttr, defs.RTA_GATEWAY, wire.IP, wire.Addr(nh.Gateway)))
		}
		if nh.IfIndex != 0 {
			req.Children = append(req.Children,
				schema.Attr(defs.RtAttr, defs.RTA_OIF, wire.U32, wire.Uint(uint64(nh.IfIndex))))
		}
	default:
		if r.Gateway.IsValid() {
			req.Children = append(req.Children,
				schema.Attr(defs.RtAttr, defs.RTA_GATEWAY, wire.IP, wire.Addr(r.Gateway)))
		}
		if r.OifIndex != 0 {
			req.Children = append(req.Children,
				schema.Attr(defs.RtAttr, defs.RTA_OIF, wire.U32, wire.Uint(uint64(r.OifIndex))))
		}
	}
	return req.Encode()
}

// RouteAdd installs a route, replacing an existing entry for the same
// destination.
func RouteAdd(c *transport.Conn, r *Route) error {
	body, err := routeRequest(r)
	if err != nil {
		return err
	}
	flags := uint16(defs.NLM_F_CREATE | defs.NLM_F_REPLACE)
	_, err = c.Transact("route add", defs.RTM_NEWROUTE, defs.RTM_NEWROUTE, flags, body)
	return err
}

// RouteDel removes a route. A missing route is ErrNotFound.
func RouteDel(c *transport.Conn, r *Route) error {
	body, err := routeRequest(r)
	if err != nil {
		return err
	}
	_, err = c.Transact("route del", defs.RTM_DELROUTE, defs.RTM_NEWROUTE, 0, body)
	if errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("%w: route to %s", ErrNotFound, r.Dst)
	}
	return err
}
