package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/rtnl"
	"github.com/ionos-cloud/netlinklib/transport"
)

var (
	briefLinks  bool
	routeTable  uint32
	routeOif    int32
	unicastOnly bool
	ipv6        bool
)

func family() uint8 {
	if ipv6 {
		return defs.AF_INET6
	}
	return defs.AF_INET
}

func withConn(fn func(*transport.Conn) error) error {
	c, err := transport.Dial(defs.NETLINK_ROUTE)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List network interfaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(func(c *transport.Conn) error {
			links, err := rtnl.GetLinks(c, briefLinks)
			if err != nil && !errors.Is(err, transport.ErrDumpInterrupted) {
				return err
			}
			for _, l := range links {
				if briefLinks {
					fmt.Printf("%d: %s\n", l.Index, l.Name)
					continue
				}
				state := "DOWN"
				if l.Up() {
					state = "UP"
				}
				fmt.Printf("%d: %s %s mtu %d", l.Index, l.Name, state, l.MTU)
				if l.Kind != "" {
					fmt.Printf(" kind %s", l.Kind)
				}
				if l.VRF != nil {
					fmt.Printf(" table %d", l.VRF.Table)
				}
				if l.MasterIndex != 0 {
					fmt.Printf(" master %d", l.MasterIndex)
				}
				fmt.Println()
			}
			return err
		})
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(func(c *transport.Conn) error {
			table := routeTable
			if table == 0 {
				table = cfg.routeTable
			}
			filter := &rtnl.RouteFilter{
				OifIndex:    routeOif,
				UnicastOnly: unicastOnly,
			}
			if table != 0 {
				filter.Tables = []uint32{table}
			}
			routes, err := rtnl.GetRoutes(c, family(), filter)
			if err != nil && !errors.Is(err, transport.ErrDumpInterrupted) {
				return err
			}
			for _, r := range routes {
				dst := "default"
				if r.Dst.IsValid() {
					dst = fmt.Sprintf("%s/%d", r.Dst, r.DstLen)
				}
				fmt.Printf("%s table %d", dst, r.Table)
				if r.Gateway.IsValid() {
					fmt.Printf(" via %s", r.Gateway)
				}
				if r.OifIndex != 0 {
					fmt.Printf(" dev %d", r.OifIndex)
				}
				fmt.Println()
			}
			return err
		})
	},
}

var neighCmd = &cobra.Command{
	Use:   "neigh",
	Short: "List neighbor cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(func(c *transport.Conn) error {
			neighbors, err := rtnl.GetNeighbors(c, family())
			if err != nil && !errors.Is(err, transport.ErrDumpInterrupted) {
				return err
			}
			for _, n := range neighbors {
				fmt.Printf("%s dev %d lladdr %s state 0x%02x\n",
					n.Dst, n.IfIndex, n.LLAddr, n.State)
			}
			return err
		})
	},
}

var qdiscsCmd = &cobra.Command{
	Use:   "qdiscs",
	Short: "List queueing disciplines",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(func(c *transport.Conn) error {
			qdiscs, err := rtnl.GetQdiscs(c)
			if err != nil && !errors.Is(err, transport.ErrDumpInterrupted) {
				return err
			}
			for _, q := range qdiscs {
				fmt.Printf("dev %d %s handle %x:", q.IfIndex, q.Kind, q.Handle>>16)
				if q.HTB != nil {
					fmt.Printf(" default %x direct_qlen %d", q.HTB.DefCls, q.HTB.DirectQlen)
				}
				fmt.Println()
			}
			return err
		})
	},
}

func init() {
	linksCmd.Flags().BoolVar(&briefLinks, "brief", false, "names and indexes only")
	routesCmd.Flags().Uint32Var(&routeTable, "table", 0, "routing table id")
	routesCmd.Flags().Int32Var(&routeOif, "oif", 0, "output interface index")
	routesCmd.Flags().BoolVar(&unicastOnly, "unicast", false, "unicast routes only")
	for _, cmd := range []*cobra.Command{routesCmd, neighCmd} {
		cmd.Flags().BoolVarP(&ipv6, "ipv6", "6", false, "IPv6 family")
	}
}
