package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ionos-cloud/netlinklib/defs"
	"github.com/ionos-cloud/netlinklib/internal/observability"
	"github.com/ionos-cloud/netlinklib/rtnl"
	"github.com/ionos-cloud/netlinklib/transport"
)

var metricsAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Stream link, route and neighbor events",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := metricsAddr
		if addr == "" {
			addr = cfg.metricsAddr
		}
		if addr != "" {
			observability.RegisterMetrics()
			go func() {
				http.Handle("/metrics", promhttp.Handler())
				if err := http.ListenAndServe(addr, nil); err != nil {
					log.Error().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
				}
			}()
		}

		c, err := transport.DialListener(defs.NETLINK_ROUTE, rtnl.MonitorGroups...)
		if err != nil {
			return err
		}
		defer c.Close()

		return rtnl.Monitor(c, func(ev rtnl.Event) error {
			op := "new"
			if ev.Deleted {
				op = "del"
			}
			switch {
			case ev.Link != nil:
				fmt.Printf("link %s %d: %s\n", op, ev.Link.Index, ev.Link.Name)
			case ev.Route != nil:
				dst := "default"
				if ev.Route.Dst.IsValid() {
					dst = fmt.Sprintf("%s/%d", ev.Route.Dst, ev.Route.DstLen)
				}
				fmt.Printf("route %s %s table %d\n", op, dst, ev.Route.Table)
			case ev.Neighbor != nil:
				fmt.Printf("neigh %s %s dev %d\n", op, ev.Neighbor.Dst, ev.Neighbor.IfIndex)
			}
			return nil
		})
	},
}

func init() {
	monitorCmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address")
}
