package main

import (
	"errors"
	"os"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/routers"
	"github.com/GrainArc/TrackArt/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket editing service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "config.xml", "path to the XML config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		config.Log.Warnf("config %s not found, using defaults", configPath)
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		if err := config.InitLogger(cfg.LogLevel); err != nil {
			return err
		}
	}
	config.MainConfig = cfg

	if err := config.InitDatabase(cfg); err != nil {
		return err
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := services.NewSessionCache(cfg.MaxSessions, cfg.SessionLifetime())
	defer sessions.Close()
	art := services.NewArtService(sessions, config.GetDB(), services.PlacementFromConfig(cfg))
	export := services.NewExportService(cfg.Download)

	r := routers.NewEngine(art, export)
	config.Log.Infof("trackart listening on %s", cfg.MainRouter)
	return r.Run(cfg.MainRouter)
}
