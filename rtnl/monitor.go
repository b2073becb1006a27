package rtnl

import (
	"errors"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/schema"
	"github.com/ionos-cloud/netlinklib/transport"
)

// Event is one multicast notification. Deleted reports RTM_DEL*
// messages; exactly one of the object members is non-nil.
type Event struct {
	Deleted  bool
	Link     *Link
	Route    *Route
	Neighbor *Neighbor
}

// MonitorGroups is the subscription mask covering every event type
// Monitor can decode.
var MonitorGroups = []uint32{
	defs.RTMGRP_LINK,
	defs.RTMGRP_NEIGH,
	defs.RTMGRP_IPV4_ROUTE,
	defs.RTMGRP_IPV6_ROUTE,
}

// Monitor decodes multicast events on a listener connection and hands
// them to handle until handle returns transport.ErrStopListening or an
// error occurs. Events the schema cancels are dropped silently.
func Monitor(c *transport.Conn, handle func(Event) error) error {
	deliver := func(deleted bool, fill func([]byte) (Event, error)) func([]byte) error {
		return func(p []byte) error {
			ev, err := fill(p)
			if errors.Is(err, schema.StopParsing) {
				return nil
			}
			if err != nil {
				return err
			}
			ev.Deleted = deleted
			return handle(ev)
		}
	}
	link := func(p []byte) (Event, error) {
		l := &Link{}
		_, _, err := linkDecode.Parse(l, p)
		return Event{Link: l}, err
	}
	route := func(p []byte) (Event, error) {
		q := &routeQuery{route: &Route{}}
		if _, _, err := routeDecode.Parse(q, p); err != nil {
			return Event{}, err
		}
		if q.route.multipath != nil {
			hops, err := parseNextHops(q.route.multipath)
			if err != nil {
				return Event{}, err
			}
			q.route.NextHops = hops
			q.route.multipath = nil
		}
		return Event{Route: q.route}, nil
	}
	neigh := func(p []byte) (Event, error) {
		n := &Neighbor{}
		_, _, err := neighDecode.Parse(n, p)
		return Event{Neighbor: n}, err
	}
	return c.Events(map[uint16]func([]byte) error{
		defs.RTM_NEWLINK:  deliver(false, link),
		defs.RTM_DELLINK:  deliver(true, link),
		defs.RTM_NEWROUTE: deliver(false, route),
		defs.RTM_DELROUTE: deliver(true, route),
		defs.RTM_NEWNEIGH: deliver(false, neigh),
		defs.RTM_DELNEIGH: deliver(true, neigh),
	})
}
