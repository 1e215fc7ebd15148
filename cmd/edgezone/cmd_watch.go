package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/edgezone/internal/pipeline"
	"github.com/dgallion1/edgezone/internal/watch"
	"github.com/spf13/cobra"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch <board.kicad_pcb>",
	Short: "Re-convert the board every time it changes",
	Long: `Converts the board once, then keeps watching it and re-converts on
every save until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Output path (default <input>_edited.kicad_pcb)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	zone, err := loadZone()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	return watch.Watch(ctx, args[0], pipeline.Options{Output: watchOutput, Zone: zone}, log)
}
