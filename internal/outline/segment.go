package outline

// Point is a board coordinate in millimeters. Points are compared exactly;
// segments only join where their endpoints match to the last bit.
type Point struct {
	X float64
	Y float64
}

// Segment is one loose piece of a board outline. Start and End are the two
// endpoints as drawn; they carry no traversal direction of their own.
type Segment interface {
	Start() Point
	End() Point
}

// Line is a straight outline segment.
type Line struct {
	A Point
	B Point
}

func (l Line) Start() Point { return l.A }
func (l Line) End() Point   { return l.B }

// Arc is a circular outline segment defined by its two endpoints and a third
// point on the curve between them. Mid identifies the curve, not a direction:
// traversing the arc backwards runs through the same midpoint.
type Arc struct {
	A   Point
	Mid Point
	B   Point
}

func (a Arc) Start() Point { return a.A }
func (a Arc) End() Point   { return a.B }

// Edge is a segment as traversed by a chain. Reversed means the walk enters
// at the segment's drawn end and leaves at its drawn start.
type Edge struct {
	Seg      Segment
	Reversed bool
}

// From returns the point the edge is entered at.
func (e Edge) From() Point {
	if e.Reversed {
		return e.Seg.End()
	}
	return e.Seg.Start()
}

// To returns the point the edge leaves at.
func (e Edge) To() Point {
	if e.Reversed {
		return e.Seg.Start()
	}
	return e.Seg.End()
}

// Chain is an ordered sequence of edges where each edge starts at the point
// the previous one ended.
type Chain []Edge

// Points returns the vertices along the chain: the first edge's origin
// followed by every edge's exit point.
func (c Chain) Points() []Point {
	if len(c) == 0 {
		return nil
	}
	pts := make([]Point, 0, len(c)+1)
	pts = append(pts, c[0].From())
	for _, e := range c {
		pts = append(pts, e.To())
	}
	return pts
}

// Closed reports whether the chain ends where it started.
func (c Chain) Closed() bool {
	return len(c) > 0 && c[0].From() == c[len(c)-1].To()
}
