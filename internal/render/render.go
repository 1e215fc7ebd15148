package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/jbeda/geom"
	"github.com/llgcode/draw2d/draw2dsvg"

	"github.com/dgallion1/edgezone/internal/outline"
)

// Options control preview rendering.
type Options struct {
	Size        int     // longest canvas edge in pixels
	Padding     int     // border around the outline in pixels
	LineWidth   float64 // stroke width in pixels
	Supersample int     // PNG oversampling factor, downscaled with Lanczos
}

// DefaultOptions returns the preview defaults.
func DefaultOptions() Options {
	return Options{
		Size:        1024,
		Padding:     16,
		LineWidth:   2,
		Supersample: 2,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Size <= 0 {
		o.Size = d.Size
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	if o.Supersample <= 0 {
		o.Supersample = d.Supersample
	}
	return o
}

// PNG renders the chained outline onto a white canvas. Arcs are drawn as true
// circular arcs through their recorded midpoints.
func PNG(c outline.Chain, opts Options) (image.Image, error) {
	opts = opts.withDefaults()
	if len(c) == 0 {
		return nil, fmt.Errorf("nothing to render: empty chain")
	}

	ss := opts.Supersample
	size := opts.Size * ss
	pad := opts.Padding * ss
	lw := opts.LineWidth * float64(ss)

	box := bounds(c)
	w, h, scale := fit(box, size, pad)

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.Translate(float64(pad), float64(pad))
	dc.Scale(scale, scale)
	dc.Translate(-box.Min.X, -box.Min.Y)

	start := c[0].From()
	dc.MoveTo(start.X, start.Y)
	for _, e := range c {
		if a, ok := e.Seg.(outline.Arc); ok {
			drawArc(dc, e, a)
		} else {
			to := e.To()
			dc.LineTo(to.X, to.Y)
		}
	}
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(lw)
	dc.Stroke()

	im := dc.Image()
	if ss > 1 {
		im = imaging.Resize(im, w/ss, h/ss, imaging.Lanczos)
	}
	return im, nil
}

// SavePNG renders and writes a PNG preview.
func SavePNG(path string, c outline.Chain, opts Options) error {
	im, err := PNG(c, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, im)
}

// EncodePNG renders the chain and streams it to w as PNG.
func EncodePNG(w io.Writer, c outline.Chain, opts Options) error {
	im, err := PNG(c, opts)
	if err != nil {
		return err
	}
	return imaging.Encode(w, im, imaging.PNG)
}

// SaveSVG writes an SVG preview of the chain, with arcs flattened into short
// line segments.
func SaveSVG(path string, c outline.Chain, opts Options) error {
	opts = opts.withDefaults()
	if len(c) == 0 {
		return fmt.Errorf("nothing to render: empty chain")
	}

	box := bounds(c)
	w, h, scale := fit(box, opts.Size, opts.Padding)

	svg := draw2dsvg.NewSvg()
	svg.Width = strconv.Itoa(w)
	svg.Height = strconv.Itoa(h)
	gc := draw2dsvg.NewGraphicContext(svg)
	gc.SetStrokeColor(color.Black)
	gc.SetLineWidth(opts.LineWidth)
	gc.Translate(float64(opts.Padding), float64(opts.Padding))
	gc.Scale(scale, scale)
	gc.Translate(-box.Min.X, -box.Min.Y)

	start := c[0].From()
	gc.MoveTo(start.X, start.Y)
	for _, e := range c {
		if a, ok := e.Seg.(outline.Arc); ok {
			for _, p := range flattenArc(e, a) {
				gc.LineTo(p.X, p.Y)
			}
		}
		to := e.To()
		gc.LineTo(to.X, to.Y)
	}
	gc.Stroke()

	return draw2dsvg.SaveToSvgFile(path, svg)
}

// bounds frames the chain. Vertices plus arc midpoints are close enough for a
// preview; the padding absorbs the sliver of arc that can bulge past them.
func bounds(c outline.Chain) geom.Rect {
	first := c[0].From()
	r := geom.Rect{Min: coord(first), Max: coord(first)}
	for _, e := range c {
		r.ExpandToContainCoord(coord(e.To()))
		if a, ok := e.Seg.(outline.Arc); ok {
			r.ExpandToContainCoord(coord(a.Mid))
		}
	}
	return r
}

func coord(p outline.Point) geom.Coord {
	return geom.Coord{X: p.X, Y: p.Y}
}

// fit scales the bounding box into a size px canvas with pad borders.
func fit(box geom.Rect, size, pad int) (w, h int, scale float64) {
	pw := box.Width()
	ph := box.Height()
	if pw <= 0 {
		pw = 1
	}
	if ph <= 0 {
		ph = 1
	}
	inner := float64(size - pad*2)
	if inner < 1 {
		inner = 1
	}
	scale = math.Min(inner/pw, inner/ph)
	w = int(pw*scale) + pad*2
	h = int(ph*scale) + pad*2
	return w, h, scale
}

// drawArc appends a circular arc through the recorded midpoint. Collinear
// points have no circumcenter and fall back to a straight edge.
func drawArc(dc *gg.Context, e outline.Edge, a outline.Arc) {
	from, to := e.From(), e.To()
	cx, cy, r, ok := circumcenter(from, a.Mid, to)
	if !ok {
		dc.LineTo(to.X, to.Y)
		return
	}
	a0, a1 := sweep(cx, cy, from, a.Mid, to)
	dc.DrawArc(cx, cy, r, a0, a1)
}

// flattenArc samples the interior of an arc for renderers without a native
// arc primitive. Endpoints are left to the caller's MoveTo/LineTo.
func flattenArc(e outline.Edge, a outline.Arc) []outline.Point {
	from, to := e.From(), e.To()
	cx, cy, r, ok := circumcenter(from, a.Mid, to)
	if !ok {
		return nil
	}
	a0, a1 := sweep(cx, cy, from, a.Mid, to)
	n := int(math.Ceil(math.Abs(a1-a0) / (2 * math.Pi) * 64))
	if n < 8 {
		n = 8
	}
	pts := make([]outline.Point, 0, n-1)
	for i := 1; i < n; i++ {
		t := a0 + (a1-a0)*float64(i)/float64(n)
		pts = append(pts, outline.Point{X: cx + r*math.Cos(t), Y: cy + r*math.Sin(t)})
	}
	return pts
}

// sweep picks start and end angles so that travel from the entry point to the
// exit point passes through the midpoint.
func sweep(cx, cy float64, from, mid, to outline.Point) (a0, a1 float64) {
	a0 = math.Atan2(from.Y-cy, from.X-cx)
	am := normalize(math.Atan2(mid.Y-cy, mid.X-cx) - a0)
	d := normalize(math.Atan2(to.Y-cy, to.X-cx) - a0)
	if d == 0 {
		d = 2 * math.Pi
	}
	if am > d {
		d -= 2 * math.Pi
	}
	return a0, a0 + d
}

// normalize maps an angle difference into [0, 2π).
func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// circumcenter solves the circle through three points. ok is false when the
// points are collinear.
func circumcenter(p1, p2, p3 outline.Point) (cx, cy, r float64, ok bool) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < 1e-9 {
		return 0, 0, 0, false
	}
	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y
	cx = (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d
	cy = (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d
	r = math.Hypot(p1.X-cx, p1.Y-cy)
	return cx, cy, r, true
}
