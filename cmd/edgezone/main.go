package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	logJSON    bool
	zonePreset string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "edgezone",
	Short: "Turn KiCad board outlines into copper zones",
	Long: `edgezone reads a .kicad_pcb file, chains the loose Edge.Cuts lines and
arcs into one connected outline, and splices a copper zone bounded by that
outline back into the board.

The original board is never modified; the edited copy is written next to it.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON instead of text")
	rootCmd.PersistentFlags().StringVar(&zonePreset, "zone-preset", "", "YAML file overriding the default zone fill parameters")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Diagnostics go to stderr so stdout stays
// clean for --pts-only output.
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel()}
	if logJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadZone resolves the zone fill preset from --zone-preset, falling back to
// the built-in defaults.
func loadZone() (kicad.ZoneParams, error) {
	if zonePreset == "" {
		return kicad.DefaultZoneParams(), nil
	}
	zone, err := kicad.LoadZoneParams(zonePreset)
	if err != nil {
		return kicad.ZoneParams{}, fmt.Errorf("load zone preset: %w", err)
	}
	return zone, nil
}
