package award

import "sort"

// MaxCards caps both the paired card list and the reach list.
const MaxCards = 10

// BuildCard joins a matched pair with the itineraries chosen for each leg.
// A leg without an itinerary contributes nothing to the total.
func BuildCard(destination string, pair DatePair, outbound, ret *TripSummary) Card {
	card := Card{
		Destination:     destination,
		Source:          pair.Outbound.Source,
		Tier:            pair.Outbound.Program.Tier,
		Disclaimer:      pair.Outbound.Program.Disclaimer,
		DepartDate:      pair.DepartDate,
		ReturnDate:      pair.ReturnDate,
		Nights:          pair.Nights,
		Cabin:           pair.Cabin,
		WasFallback:     pair.WasFallback,
		OutboundSummary: outbound,
		ReturnSummary:   ret,
	}
	if outbound != nil {
		card.TotalPoints += outbound.MileageCost
	}
	if ret != nil {
		card.TotalPoints += ret.MileageCost
	}
	return card
}

type cardKey struct {
	destination string
	depart      string
	ret         string
	cabin       Cabin
}

// AggregateCards removes the same trip offered through several programs,
// keeping the cheapest, and orders the rest by length, total and departure.
func AggregateCards(cards []Card, limit int) []Card {
	best := make(map[cardKey]int, len(cards))
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		key := cardKey{c.Destination, c.DepartDate.String(), c.ReturnDate.String(), c.Cabin}
		if i, ok := best[key]; ok {
			if c.TotalPoints < out[i].TotalPoints {
				out[i] = c
			}
			continue
		}
		best[key] = len(out)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Nights != out[j].Nights {
			return out[i].Nights < out[j].Nights
		}
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints < out[j].TotalPoints
		}
		return out[i].DepartDate.Before(out[j].DepartDate)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
