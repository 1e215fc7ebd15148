package outline

// Build chains loose segments into a single connected path.
//
// The first segment seeds the chain and is traversed as drawn. Each step then
// appends the earliest remaining segment that touches the chain's open end: a
// segment whose start matches continues forward, one whose end matches goes in
// reversed. The walk stops as soon as nothing touches the open end. Whatever
// is still unconsumed at that point is returned alongside the chain; the
// input slice is never modified.
func Build(segs []Segment) (Chain, []Segment) {
	if len(segs) == 0 {
		return nil, nil
	}

	// Endpoint index: point -> segment positions in input order. A segment is
	// listed under both endpoints, once if they coincide. Candidates are taken
	// by ascending position, so map iteration order never shapes the result.
	byEnd := make(map[Point][]int, 2*len(segs))
	for i, s := range segs {
		byEnd[s.Start()] = append(byEnd[s.Start()], i)
		if s.End() != s.Start() {
			byEnd[s.End()] = append(byEnd[s.End()], i)
		}
	}

	used := make([]bool, len(segs))
	used[0] = true
	chain := Chain{Edge{Seg: segs[0]}}
	cur := segs[0].End()

	for {
		next := -1
		for _, i := range byEnd[cur] {
			if !used[i] {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		used[next] = true
		e := Edge{Seg: segs[next], Reversed: segs[next].Start() != cur}
		chain = append(chain, e)
		cur = e.To()
	}

	var rest []Segment
	for i, s := range segs {
		if !used[i] {
			rest = append(rest, s)
		}
	}
	return chain, rest
}
