package main

import (
	"fmt"
	"os"

	"github.com/GrainArc/TrackArt/config"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "trackart",
	Short: "Turn SVG drawings into GPS art tracks",
	Long: `trackart converts SVG path drawings into latitude/longitude tracks that can
be resized to a target path length, rotated and stretched, then exported as
GPX, GeoJSON or DXF. It runs as a one-shot converter or as an HTTP service
with live WebSocket editing.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.InitLogger(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func main() {
	defer config.SyncLogger()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
