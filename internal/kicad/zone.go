package kicad

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrNoInsertPoint reports a board document with no closing parenthesis to
// splice a zone before.
var ErrNoInsertPoint = errors.New("board has no closing parenthesis")

// ZoneParams are the fill parameters of a generated copper zone.
type ZoneParams struct {
	Net           int      `yaml:"net"`
	NetName       string   `yaml:"net_name"`
	Layers        []string `yaml:"layers"`
	HatchPitch    float64  `yaml:"hatch_pitch"`
	Clearance     float64  `yaml:"clearance"`
	MinThickness  float64  `yaml:"min_thickness"`
	ThermalGap    float64  `yaml:"thermal_gap"`
	ThermalBridge float64  `yaml:"thermal_bridge_width"`
	IslandRemoval int      `yaml:"island_removal_mode"`
	IslandAreaMin float64  `yaml:"island_area_min"`
}

// DefaultZoneParams returns the parameters used when no preset is given: an
// unassigned zone covering both outer copper layers.
func DefaultZoneParams() ZoneParams {
	return ZoneParams{
		Net:           0,
		NetName:       "",
		Layers:        []string{"F.Cu", "B.Cu"},
		HatchPitch:    0.5,
		Clearance:     0.5,
		MinThickness:  0.25,
		ThermalGap:    0.5,
		ThermalBridge: 0.5,
		IslandRemoval: 1,
		IslandAreaMin: 10,
	}
}

// LoadZoneParams reads a YAML preset and overlays it on the defaults, so a
// preset only needs to name the fields it changes.
func LoadZoneParams(path string) (ZoneParams, error) {
	p := DefaultZoneParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("zone preset: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("zone preset %s: %w", path, err)
	}
	if len(p.Layers) == 0 {
		p.Layers = []string{"F.Cu", "B.Cu"}
	}
	return p, nil
}

// BuildZone renders a filled copper zone bounded by the pts point list and
// returns it together with the UUID assigned to it. The layout matches what
// KiCad writes, so re-saving the board in KiCad produces a minimal diff.
func BuildZone(pts string, p ZoneParams) (zone string, id string) {
	id = uuid.New().String()

	var b strings.Builder
	b.WriteString("  (zone\n")
	fmt.Fprintf(&b, "    (net %d)\n", p.Net)
	fmt.Fprintf(&b, "    (net_name %q)\n", p.NetName)
	b.WriteString("    (layers")
	for _, l := range p.Layers {
		fmt.Fprintf(&b, " %q", l)
	}
	b.WriteString(")\n")
	fmt.Fprintf(&b, "    (uuid %q)\n", id)
	fmt.Fprintf(&b, "    (hatch edge %s)\n", formatCoord(p.HatchPitch))
	b.WriteString("    (connect_pads\n")
	fmt.Fprintf(&b, "      (clearance %s)\n", formatCoord(p.Clearance))
	b.WriteString("    )\n")
	fmt.Fprintf(&b, "    (min_thickness %s)\n", formatCoord(p.MinThickness))
	b.WriteString("    (filled_areas_thickness no)\n")
	b.WriteString("    (fill\n")
	fmt.Fprintf(&b, "      (thermal_gap %s)\n", formatCoord(p.ThermalGap))
	fmt.Fprintf(&b, "      (thermal_bridge_width %s)\n", formatCoord(p.ThermalBridge))
	fmt.Fprintf(&b, "      (island_removal_mode %d)\n", p.IslandRemoval)
	fmt.Fprintf(&b, "      (island_area_min %s)\n", formatCoord(p.IslandAreaMin))
	b.WriteString("    )\n")
	b.WriteString("    (polygon\n")
	fmt.Fprintf(&b, "      %s\n", pts)
	b.WriteString("    )\n")
	b.WriteString("  )")
	return b.String(), id
}

// InsertZone splices a rendered zone entity into board content, immediately
// before the document's final closing parenthesis.
func InsertZone(board []byte, zone string) ([]byte, error) {
	i := bytes.LastIndexByte(board, ')')
	if i < 0 {
		return nil, ErrNoInsertPoint
	}
	out := make([]byte, 0, len(board)+len(zone)+2)
	out = append(out, board[:i]...)
	out = append(out, '\n')
	out = append(out, zone...)
	out = append(out, '\n')
	out = append(out, board[i:]...)
	return out, nil
}

// DefaultOutputPath names the converted copy of a board file: the input path
// with _edited appended to the base name.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_edited" + ext
}
