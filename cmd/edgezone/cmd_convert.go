package main

import (
	"fmt"

	"github.com/dgallion1/edgezone/internal/config"
	"github.com/dgallion1/edgezone/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	convertOutput  string
	convertPtsOnly bool
	convertWorkers int
)

var convertCmd = &cobra.Command{
	Use:   "convert <board.kicad_pcb> [more boards...]",
	Short: "Chain the board outline and splice in a copper zone",
	Long: `Extracts the Edge.Cuts lines and arcs from each board, chains them into
one connected outline and writes a copy of the board with a copper zone
bounded by that outline.

Segments that cannot be reached from the first one are reported and left
out of the zone.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output path (single board only; default <input>_edited.kicad_pcb)")
	convertCmd.Flags().BoolVar(&convertPtsOnly, "pts-only", false, "Print the chained point list to stdout instead of writing a board")
	// WORKER_COUNT sets the default so batch jobs can be tuned without flags.
	convertCmd.Flags().IntVar(&convertWorkers, "workers", config.Load().WorkerCount, "Concurrent conversions when given multiple boards")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := newLogger()

	if convertOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output requires a single input board")
	}

	if convertPtsOnly {
		for _, path := range args {
			res, _, err := pipeline.InspectFile(path, log)
			if err != nil {
				return err
			}
			fmt.Println(res.Pts)
		}
		return nil
	}

	zone, err := loadZone()
	if err != nil {
		return err
	}
	opts := pipeline.Options{Output: convertOutput, Zone: zone}

	if len(args) == 1 {
		res, err := pipeline.Convert(args[0], opts, log)
		if err != nil {
			return err
		}
		log.Info("board converted",
			"output", res.Output,
			"zone_id", res.ZoneID,
			"chained", res.Chained,
			"unmatched", res.Unmatched,
			"closed", res.Closed,
		)
		return nil
	}

	items := pipeline.RunBatch(cmd.Context(), args, opts, convertWorkers, log)
	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			continue
		}
		log.Info("board converted", "input", it.Result.Input, "output", it.Result.Output, "closed", it.Result.Closed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d boards failed", failed, len(items))
	}
	return nil
}
