package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ionos-cloud/netlinklib/internal/observability"
)

var (
	cfgPath string
	verbose bool
	cfg     config
)

var rootCmd = &cobra.Command{
	Use:           "nlctl",
	Short:         "Inspect and change kernel network state over rtnetlink",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = loadConfig(cfgPath); err != nil {
			return err
		}
		level := cfg.logLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		observability.InitLogger("nlctl", level)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to nlctl.toml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(linksCmd, routesCmd, neighCmd, qdiscsCmd, monitorCmd, vrfCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nlctl: %v\n", err)
		os.Exit(1)
	}
}
