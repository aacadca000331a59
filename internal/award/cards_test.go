package award

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(t *testing.T, dest, depart, ret string, nights int, total float64, source string) Card {
	t.Helper()
	return Card{
		Destination: dest,
		Source:      source,
		DepartDate:  day(t, depart),
		ReturnDate:  day(t, ret),
		Nights:      nights,
		Cabin:       CabinEconomy,
		TotalPoints: total,
	}
}

func TestAggregateCards_DedupesKeepingCheapest(t *testing.T) {
	cards := []Card{
		card(t, "NRT", "2026-02-03", "2026-02-08", 5, 50000, "united"),
		card(t, "NRT", "2026-02-03", "2026-02-08", 5, 45000, "aeroplan"),
		card(t, "HND", "2026-02-03", "2026-02-08", 5, 60000, "united"),
	}

	got := AggregateCards(cards, MaxCards)

	require.Len(t, got, 2)
	assert.Equal(t, "aeroplan", got[0].Source)
	assert.Equal(t, "HND", got[1].Destination)
}

func TestAggregateCards_Ordering(t *testing.T) {
	cards := []Card{
		card(t, "NRT", "2026-02-10", "2026-02-17", 7, 40000, "united"),
		card(t, "NRT", "2026-02-12", "2026-02-15", 3, 50000, "united"),
		card(t, "HND", "2026-02-05", "2026-02-08", 3, 50000, "united"),
		card(t, "KIX", "2026-02-01", "2026-02-04", 3, 45000, "united"),
	}

	got := AggregateCards(cards, MaxCards)

	var order []string
	for _, c := range got {
		order = append(order, c.Destination+" "+c.DepartDate.String())
	}
	assert.Equal(t, []string{
		"KIX 2026-02-01",
		"HND 2026-02-05",
		"NRT 2026-02-12",
		"NRT 2026-02-10",
	}, order)
}

func TestAggregateCards_CapsAtLimit(t *testing.T) {
	var cards []Card
	for i := 1; i <= 15; i++ {
		depart := fmt.Sprintf("2026-02-%02d", i)
		ret := fmt.Sprintf("2026-02-%02d", i+3)
		cards = append(cards, card(t, "NRT", depart, ret, 3, float64(40000+i), "united"))
	}

	got := AggregateCards(cards, MaxCards)

	require.Len(t, got, MaxCards)
	assert.Equal(t, 40001.0, got[0].TotalPoints)
	assert.Equal(t, 40010.0, got[9].TotalPoints)
}

func TestAggregateCards_CabinIsPartOfIdentity(t *testing.T) {
	economy := card(t, "NRT", "2026-02-03", "2026-02-08", 5, 45000, "united")
	business := economy
	business.Cabin = CabinBusiness
	business.TotalPoints = 140000

	got := AggregateCards([]Card{business, economy}, MaxCards)

	assert.Len(t, got, 2)
}
