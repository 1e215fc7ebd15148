package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/edgezone/internal/api"
	"github.com/dgallion1/edgezone/internal/config"
	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	Long: `Starts the edgezone HTTP API. Configuration comes from the environment:

  PORT              listen port (default 8090)
  EDGEZONE_API_KEY  bearer token required on /api routes
  MAX_UPLOAD_BYTES  upload cap in bytes (default 32MB)
  ZONE_PRESET       YAML file overriding the zone fill parameters
  RENDER_SIZE       preview canvas size in pixels (default 1024)`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// --zone-preset wins over ZONE_PRESET.
	preset := cfg.ZonePreset
	if zonePreset != "" {
		preset = zonePreset
	}
	zone := kicad.DefaultZoneParams()
	if preset != "" {
		var err error
		zone, err = kicad.LoadZoneParams(preset)
		if err != nil {
			return fmt.Errorf("load zone preset: %w", err)
		}
	}

	srv := api.NewServer(zone, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting edgezone", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
