package kicad

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dgallion1/edgezone/internal/outline"
)

func TestFormatPts_Empty(t *testing.T) {
	got := FormatPts(nil)
	if got != "(pts )" {
		t.Errorf("expected %q, got %q", "(pts )", got)
	}
}

func TestFormatPts_Triangle(t *testing.T) {
	chain, rest := outline.Build([]outline.Segment{
		outline.Line{A: outline.Point{X: 0, Y: 0}, B: outline.Point{X: 4, Y: 0}},
		outline.Line{A: outline.Point{X: 4, Y: 0}, B: outline.Point{X: 2, Y: 3}},
		outline.Line{A: outline.Point{X: 2, Y: 3}, B: outline.Point{X: 0, Y: 0}},
	})
	if len(rest) != 0 {
		t.Fatalf("expected no leftovers, got %d", len(rest))
	}

	got := FormatPts(chain)
	want := "(pts (xy 0 0) (xy 4 0) (xy 2 3) (xy 0 0) )"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatPts_ArcStartIsPreviousPoint(t *testing.T) {
	// The arc is drawn (4,0)->(2,0) but chained in reverse, so its start
	// directive must be the chain's previous point (2,0).
	chain, _ := outline.Build([]outline.Segment{
		outline.Line{A: outline.Point{X: 0, Y: 0}, B: outline.Point{X: 2, Y: 0}},
		outline.Arc{A: outline.Point{X: 4, Y: 0}, Mid: outline.Point{X: 3, Y: 1}, B: outline.Point{X: 2, Y: 0}},
	})
	if len(chain) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(chain))
	}

	got := FormatPts(chain)
	want := "(pts (xy 0 0) (xy 2 0) (arc (start 2 0) (mid 3 1) (end 4 0) ) )"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatPts_LeadingArc(t *testing.T) {
	// A chain that opens with an arc takes its start from the seed's origin.
	chain, _ := outline.Build([]outline.Segment{
		outline.Arc{A: outline.Point{X: 1, Y: 0}, Mid: outline.Point{X: 2, Y: 1}, B: outline.Point{X: 3, Y: 0}},
	})
	got := FormatPts(chain)
	want := "(pts (xy 1 0) (arc (start 1 0) (mid 2 1) (end 3 0) ) )"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatPts_FullPrecision(t *testing.T) {
	third := 1.0 / 3.0
	chain := outline.Chain{
		{Seg: outline.Line{A: outline.Point{X: 146.05, Y: -0.35}, B: outline.Point{X: third, Y: 1e-7}}},
	}
	got := FormatPts(chain)

	if !strings.Contains(got, "146.05 -0.35") {
		t.Errorf("expected plain decimal coordinates, got %q", got)
	}
	if strings.ContainsAny(got, "eE") {
		t.Errorf("expected no exponent notation, got %q", got)
	}

	// Every rendered coordinate must parse back to the exact input bits.
	var nums []float64
	for _, f := range strings.Fields(got) {
		f = strings.Trim(f, "()")
		if f == "" || f == "pts" || f == "xy" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			t.Fatalf("coordinate %q did not parse: %v", f, err)
		}
		nums = append(nums, v)
	}
	want := []float64{146.05, -0.35, third, 1e-7}
	if len(nums) != len(want) {
		t.Fatalf("expected %d coordinates, got %d in %q", len(want), len(nums), got)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Errorf("coordinate %d: expected %v to round-trip, got %v", i, want[i], nums[i])
		}
	}
}

func TestFormatPts_Deterministic(t *testing.T) {
	segs := []outline.Segment{
		outline.Line{A: outline.Point{X: 0, Y: 0}, B: outline.Point{X: 4, Y: 0}},
		outline.Arc{A: outline.Point{X: 4, Y: 0}, Mid: outline.Point{X: 5, Y: 2}, B: outline.Point{X: 4, Y: 4}},
		outline.Line{A: outline.Point{X: 4, Y: 4}, B: outline.Point{X: 0, Y: 0}},
	}
	chain, _ := outline.Build(segs)
	first := FormatPts(chain)
	for i := 0; i < 50; i++ {
		chain, _ := outline.Build(segs)
		if got := FormatPts(chain); got != first {
			t.Fatalf("run %d: output differs:\n%q\n%q", i, got, first)
		}
	}
}
