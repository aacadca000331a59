package award

import (
	"math"
	"sort"
	"strings"
)

// unknownRank sorts candidates with a missing stop count or duration last.
const unknownRank = math.MaxInt

func rankOf(v *int) int {
	if v == nil || *v < 0 {
		return unknownRank
	}
	return *v
}

// SelectBestTrip picks the itinerary in cabin with the fewest stops, then the
// shortest duration. It returns nil when no candidate is in that cabin.
func SelectBestTrip(candidates []TripCandidate, cabin Cabin) *TripSummary {
	matching := make([]TripCandidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Cabin), string(cabin)) {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		return nil
	}

	sort.SliceStable(matching, func(i, j int) bool {
		si, sj := rankOf(matching[i].Stops), rankOf(matching[j].Stops)
		if si != sj {
			return si < sj
		}
		return rankOf(matching[i].TotalDuration) < rankOf(matching[j].TotalDuration)
	})

	return summarize(matching[0])
}

func summarize(c TripCandidate) *TripSummary {
	s := &TripSummary{
		Origin:         c.Origin,
		Destination:    c.Destination,
		DepartsAt:      c.DepartsAt,
		ArrivesAt:      c.ArrivesAt,
		Carriers:       c.Carriers,
		FlightNumbers:  c.FlightNumbers,
		Aircraft:       c.Aircraft,
		Cabin:          strings.ToLower(c.Cabin),
		RemainingSeats: c.RemainingSeats,
		MileageCost:    c.MileageCost,
	}
	if c.Stops != nil {
		s.Stops = *c.Stops
	}
	if c.TotalDuration != nil {
		s.DurationMinutes = *c.TotalDuration
	}
	return s
}
