package kicad

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dgallion1/edgezone/internal/outline"
)

// EdgeCutsLayer is the KiCad layer that carries the board outline.
const EdgeCutsLayer = "Edge.Cuts"

// ErrNoOutline reports a board with nothing drawn on Edge.Cuts that could be
// chained into a boundary.
var ErrNoOutline = errors.New("no outline segments on Edge.Cuts")

// SupportedExtensions lists board file extensions the tool accepts.
var SupportedExtensions = map[string]bool{
	".kicad_pcb": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ParseBoard parses data as a KiCad board document.
func ParseBoard(data []byte) (*Node, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid board file: %w", err)
	}
	if root.Name != "kicad_pcb" {
		return nil, fmt.Errorf("not a kicad_pcb document (top-level %q)", root.Name)
	}
	return root, nil
}

// Outline collects the Edge.Cuts segments of a parsed board in file order.
// gr_line items become lines and gr_arc items three-point arcs. Other
// graphics drawn on Edge.Cuts (rectangles, circles, text) have no single
// start and end to chain by; they are counted in skipped and left out.
func Outline(root *Node) (segs []outline.Segment, skipped int, err error) {
	for _, item := range root.Children {
		switch item.Name {
		case "gr_line", "gr_arc":
		case "gr_rect", "gr_circle", "gr_curve", "gr_poly", "gr_text":
			if layerOf(item) == EdgeCutsLayer {
				skipped++
			}
			continue
		default:
			continue
		}
		if layerOf(item) != EdgeCutsLayer {
			continue
		}

		start, err := pointAt(item, "start")
		if err != nil {
			return nil, skipped, err
		}
		end, err := pointAt(item, "end")
		if err != nil {
			return nil, skipped, err
		}

		if item.Name == "gr_arc" {
			mid, err := pointAt(item, "mid")
			if err != nil {
				return nil, skipped, err
			}
			segs = append(segs, outline.Arc{A: start, Mid: mid, B: end})
		} else {
			segs = append(segs, outline.Line{A: start, B: end})
		}
	}
	return segs, skipped, nil
}

func layerOf(item *Node) string {
	layer := item.Child("layer")
	if layer == nil {
		return ""
	}
	return layer.Atom(0)
}

func pointAt(item *Node, name string) (outline.Point, error) {
	c := item.Child(name)
	if c == nil {
		return outline.Point{}, fmt.Errorf("%s: missing (%s ...)", item.Name, name)
	}
	x, err := c.Float(0)
	if err != nil {
		return outline.Point{}, fmt.Errorf("%s: %w", item.Name, err)
	}
	y, err := c.Float(1)
	if err != nil {
		return outline.Point{}, fmt.Errorf("%s: %w", item.Name, err)
	}
	return outline.Point{X: x, Y: y}, nil
}
