package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ionos-cloud/netlinklib/rtnl"
	"github.com/ionos-cloud/netlinklib/transport"
)

var vrfCmd = &cobra.Command{
	Use:   "vrf",
	Short: "Manage vrf devices",
}

var vrfAddCmd = &cobra.Command{
	Use:   "add NAME TABLE",
	Short: "Create a vrf device bound to a routing table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("table id %q: %w", args[1], err)
		}
		return withConn(func(c *transport.Conn) error {
			index, err := rtnl.LinkAdd(c, &rtnl.Link{
				Name: args[0],
				Kind: "vrf",
				VRF:  &rtnl.VRF{Table: uint32(table)},
			})
			if err != nil {
				return err
			}
			if err := rtnl.LinkSetUp(c, index, true); err != nil {
				return err
			}
			fmt.Printf("%d: %s table %d\n", index, args[0], table)
			return nil
		})
	},
}

var vrfDelCmd = &cobra.Command{
	Use:   "del NAME",
	Short: "Delete a vrf device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withConn(func(c *transport.Conn) error {
			return rtnl.LinkDel(c, args[0])
		})
	},
}

func init() {
	vrfCmd.AddCommand(vrfAddCmd, vrfDelCmd)
}
