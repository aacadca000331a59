package award

import "sort"

// ReachOptionFrom flattens an admissible record for reach mode.
func ReachOptionFrom(destination string, r AdmissibleRecord) ReachOption {
	return ReachOption{
		Destination: destination,
		Date:        r.Date,
		Source:      r.Source,
		Tier:        r.Program.Tier,
		Disclaimer:  r.Program.Disclaimer,
		Cabin:       r.Cabin,
		Cost:        r.Cost,
		Direct:      r.Direct,
		RecordID:    r.RecordID,
	}
}

type reachGroup struct {
	destination string
	cheapest    ReachOption
	nonstop     *ReachOption
}

// GroupReachable keeps at most two options per destination: the cheapest, and
// the cheapest non-stop when that is a different option. Destinations are
// ordered by their cheapest option and the flattened list is cut at limit.
func GroupReachable(options []ReachOption, limit int) []ReachOption {
	groups := make(map[string]*reachGroup)
	order := make([]string, 0)

	for _, opt := range options {
		g, ok := groups[opt.Destination]
		if !ok {
			g = &reachGroup{destination: opt.Destination, cheapest: opt}
			groups[opt.Destination] = g
			order = append(order, opt.Destination)
		} else if cheaper(opt, g.cheapest) {
			g.cheapest = opt
		}
		if opt.Direct && (g.nonstop == nil || cheaper(opt, *g.nonstop)) {
			o := opt
			g.nonstop = &o
		}
	}

	sorted := make([]*reachGroup, 0, len(order))
	for _, dest := range order {
		sorted = append(sorted, groups[dest])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].cheapest.Cost < sorted[j].cheapest.Cost
	})

	out := make([]ReachOption, 0, 2*len(sorted))
	for _, g := range sorted {
		out = append(out, g.cheapest)
		if g.nonstop != nil && *g.nonstop != g.cheapest {
			out = append(out, *g.nonstop)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// cheaper orders by cost, then earlier date, then record ID.
func cheaper(a, b ReachOption) bool {
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date)
	}
	return a.RecordID < b.RecordID
}
