package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/edgezone/internal/kicad"
	"github.com/dgallion1/edgezone/internal/outline"
)

// Options control a single board conversion.
type Options struct {
	Output string           // destination path; empty means <input>_edited.kicad_pcb
	Zone   kicad.ZoneParams // fill parameters for the generated zone
}

// Result reports one converted board.
type Result struct {
	Input     string `json:"input,omitempty"`
	Output    string `json:"output,omitempty"`
	ZoneID    string `json:"zone_id,omitempty"`
	Pts       string `json:"pts,omitempty"`
	Segments  int    `json:"segments"`
	Chained   int    `json:"chained"`
	Unmatched int    `json:"unmatched"`
	Skipped   int    `json:"skipped"`
	Closed    bool   `json:"closed"`
}

// Inspect parses board content and chains its outline without modifying
// anything. The returned chain feeds rendering; the Result carries the
// counts and the formatted point list.
func Inspect(data []byte, log *slog.Logger) (Result, outline.Chain, error) {
	var res Result

	root, err := kicad.ParseBoard(data)
	if err != nil {
		return res, nil, err
	}
	segs, skipped, err := kicad.Outline(root)
	if err != nil {
		return res, nil, fmt.Errorf("extract outline: %w", err)
	}
	res.Segments = len(segs)
	res.Skipped = skipped
	if skipped > 0 {
		log.Warn("ignoring edge items that are not lines or arcs", "count", skipped)
	}
	if len(segs) == 0 {
		return res, nil, kicad.ErrNoOutline
	}

	chain, rest := outline.Build(segs)
	res.Chained = len(chain)
	res.Unmatched = len(rest)
	res.Closed = chain.Closed()
	if len(rest) > 0 {
		log.Warn("outline segments left unchained", "count", len(rest))
	}
	res.Pts = kicad.FormatPts(chain)
	return res, chain, nil
}

// InspectFile reads a board file and chains its outline.
func InspectFile(path string, log *slog.Logger) (Result, outline.Chain, error) {
	if !kicad.IsSupportedExtension(path) {
		return Result{Input: path}, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Input: path}, nil, fmt.Errorf("read board: %w", err)
	}
	res, chain, err := Inspect(data, log.With("path", path))
	res.Input = path
	return res, chain, err
}

// ConvertBytes runs the full edge-to-zone pipeline on in-memory board
// content and returns the new board bytes.
func ConvertBytes(data []byte, zone kicad.ZoneParams, log *slog.Logger) ([]byte, Result, error) {
	res, _, err := Inspect(data, log)
	if err != nil {
		return nil, res, err
	}
	entity, id := kicad.BuildZone(res.Pts, zone)
	out, err := kicad.InsertZone(data, entity)
	if err != nil {
		return nil, res, err
	}
	res.ZoneID = id
	return out, res, nil
}

// Convert reads a board file, splices in the boundary zone and writes the
// result next to the input, or to opts.Output when set.
func Convert(path string, opts Options, log *slog.Logger) (Result, error) {
	if !kicad.IsSupportedExtension(path) {
		return Result{Input: path}, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Input: path}, fmt.Errorf("read board: %w", err)
	}

	out, res, err := ConvertBytes(data, opts.Zone, log.With("path", path))
	res.Input = path
	if err != nil {
		return res, err
	}

	dest := opts.Output
	if dest == "" {
		dest = kicad.DefaultOutputPath(path)
	}
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return res, fmt.Errorf("write %s: %w", dest, err)
	}
	res.Output = dest
	return res, nil
}
