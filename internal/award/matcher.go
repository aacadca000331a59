package award

import (
	"math"
	"sort"
)

// maxDurations is how many distinct trip lengths a match may return.
const maxDurations = 5

// dayOptions is the cheapest admissible record per cabin on one calendar day.
type dayOptions struct {
	date Date
	best map[Cabin]AdmissibleRecord
}

func (d *dayOptions) has(c Cabin) bool {
	_, ok := d.best[c]
	return ok
}

// indexByDate filters records through the eligibility rules for both cabins
// and keeps the cheapest record per (date, cabin). Equal costs keep the lower
// record ID so the result does not depend on provider order.
func (e *Engine) indexByDate(records []AvailabilityRecord, budgetMiles int64) map[string]*dayOptions {
	idx := make(map[string]*dayOptions)
	for _, cabin := range cabins {
		for _, opt := range e.FindEligibleOptions(records, budgetMiles, cabin) {
			key := opt.Date.String()
			day, ok := idx[key]
			if !ok {
				day = &dayOptions{date: opt.Date, best: make(map[Cabin]AdmissibleRecord, len(cabins))}
				idx[key] = day
			}
			cur, seen := day.best[cabin]
			if !seen || opt.Cost < cur.Cost || (opt.Cost == cur.Cost && opt.RecordID < cur.RecordID) {
				day.best[cabin] = opt
			}
		}
	}
	return idx
}

// MatchDatePairs finds round trips whose stay lasts between minNights and
// maxNights inclusive, one per trip length, for at most five lengths spread
// across the range found. The preferred cabin is used when possible; a pair
// drops to the other cabin only when the preferred one cannot complete it.
// A stay is always at least one night.
func (e *Engine) MatchDatePairs(outbound, returnLegs []AvailabilityRecord, budgetMiles int64, minNights, maxNights int, preferred Cabin) MatchResult {
	if minNights < 1 {
		minNights = 1
	}
	outIdx := e.indexByDate(outbound, budgetMiles)
	if len(outIdx) == 0 {
		return MatchResult{Pairs: []DatePair{}, Reason: ReasonNoOutbound}
	}
	retIdx := e.indexByDate(returnLegs, budgetMiles)
	if len(retIdx) == 0 {
		return MatchResult{Pairs: []DatePair{}, Reason: ReasonNoReturn}
	}

	days := sortedDays(outIdx)
	retDays := sortedDays(retIdx)

	buckets := make(map[int][]DatePair)
	for _, day := range days {
		chosen := preferred
		if !day.has(chosen) {
			chosen = preferred.Other()
			if !day.has(chosen) {
				continue
			}
		}

		cabin := chosen
		returns := returnsInWindow(retDays, day.date, minNights, maxNights, cabin)
		if len(returns) == 0 && day.has(chosen.Other()) {
			cabin = chosen.Other()
			returns = returnsInWindow(retDays, day.date, minNights, maxNights, cabin)
		}

		for _, ret := range returns {
			nights := ret.Date.DaysSince(day.date)
			buckets[nights] = append(buckets[nights], DatePair{
				DepartDate:     day.date,
				ReturnDate:     ret.Date,
				Nights:         nights,
				Cabin:          cabin,
				RequestedCabin: preferred,
				WasFallback:    cabin != preferred,
				Outbound:       day.best[cabin],
				Return:         ret,
			})
		}
	}

	if len(buckets) == 0 {
		return MatchResult{Pairs: []DatePair{}, Reason: ReasonNoPairs}
	}

	durations := make([]int, 0, len(buckets))
	for n := range buckets {
		durations = append(durations, n)
	}
	sort.Ints(durations)

	// Buckets fill in outbound date order, so the head is the earliest departure.
	selected := spreadDurations(durations)
	pairs := make([]DatePair, 0, len(selected))
	for _, n := range selected {
		pairs = append(pairs, buckets[n][0])
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Nights < pairs[j].Nights })

	return MatchResult{Pairs: pairs}
}

func sortedDays(idx map[string]*dayOptions) []*dayOptions {
	days := make([]*dayOptions, 0, len(idx))
	for _, d := range idx {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })
	return days
}

// returnsInWindow visits only the indexed return days inside
// [depart+minNights, depart+maxNights]; days must be sorted.
func returnsInWindow(days []*dayOptions, depart Date, minNights, maxNights int, cabin Cabin) []AdmissibleRecord {
	first := depart.AddDays(minNights)
	start := sort.Search(len(days), func(i int) bool { return !days[i].date.Before(first) })

	var out []AdmissibleRecord
	for _, day := range days[start:] {
		if day.date.DaysSince(depart) > maxNights {
			break
		}
		if rec, ok := day.best[cabin]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// spreadDurations keeps all durations when there are few, otherwise samples
// five evenly spaced indexes over the sorted list, min and max included.
// Duplicate indexes collapse, so fewer than five may come back.
func spreadDurations(sorted []int) []int {
	if len(sorted) <= maxDurations {
		return sorted
	}

	last := float64(len(sorted) - 1)
	out := make([]int, 0, maxDurations)
	prev := -1
	for i := 0; i < maxDurations; i++ {
		idx := int(math.Round(float64(i) * last / float64(maxDurations-1)))
		if idx == prev {
			continue
		}
		prev = idx
		out = append(out, sorted[idx])
	}
	return out
}
