package award

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testPrograms = ProgramTable{
	"united":   {Source: "united", Tier: TierLiveReliable},
	"aeroplan": {Source: "aeroplan", Tier: TierLiveReliable},
	"delta":    {Source: "delta", Tier: TierLimitedReliable, Disclaimer: "Delta space is often phantom"},
}

func day(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

// costText carries provider cost text through unparsed.
func costText(s string) RawCost {
	return RawCost{text: s}
}

// seat builds a record for one program and day. Zero cost leaves the cabin closed.
func seat(t *testing.T, id, date, source string, yCost, jCost float64) AvailabilityRecord {
	t.Helper()
	r := AvailabilityRecord{ID: id, Date: day(t, date), Source: source, Origin: "SFO", Destination: "NRT"}
	if yCost > 0 {
		r.Economy = CabinAvailability{Available: true, MileageCost: Cost(yCost)}
	}
	if jCost > 0 {
		r.Business = CabinAvailability{Available: true, MileageCost: Cost(jCost)}
	}
	return r
}

func intPtr(v int) *int { return &v }
