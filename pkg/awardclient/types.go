package awardclient

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"awardfinder/internal/award"
)

type searchResponse struct {
	Data    []availabilityRow `json:"data"`
	Count   int               `json:"count"`
	HasMore bool              `json:"hasMore"`
	Cursor  int64             `json:"cursor"`
}

type availabilityRow struct {
	ID     string     `json:"ID"`
	Date   award.Date `json:"Date"`
	Source string     `json:"Source"`
	Route struct {
		OriginAirport      string `json:"OriginAirport"`
		DestinationAirport string `json:"DestinationAirport"`
		Source             string `json:"Source"`
	} `json:"Route"`
	YAvailable      award.Flag    `json:"YAvailable"`
	JAvailable      award.Flag    `json:"JAvailable"`
	YMileageCost    award.RawCost `json:"YMileageCost"`
	JMileageCost    award.RawCost `json:"JMileageCost"`
	YDirect         bool          `json:"YDirect"`
	JDirect         bool          `json:"JDirect"`
	YRemainingSeats int           `json:"YRemainingSeats"`
	JRemainingSeats int           `json:"JRemainingSeats"`
}

type tripsResponse struct {
	Data []tripRow `json:"data"`
}

type tripRow struct {
	ID                 string        `json:"ID"`
	Cabin              string        `json:"Cabin"`
	Stops              flexInt       `json:"Stops"`
	TotalDuration      flexInt       `json:"TotalDuration"`
	OriginAirport      string        `json:"OriginAirport"`
	DestinationAirport string        `json:"DestinationAirport"`
	DepartsAt          string        `json:"DepartsAt"`
	ArrivesAt          string        `json:"ArrivesAt"`
	Carriers           string        `json:"Carriers"`
	FlightNumbers      string        `json:"FlightNumbers"`
	Aircraft           []string      `json:"Aircraft"`
	RemainingSeats     int           `json:"RemainingSeats"`
	MileageCost        award.RawCost `json:"MileageCost"`
}

// flexInt decodes a number or numeric string. Anything else leaves it unset.
type flexInt struct {
	v *int
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	f.v = nil
	s := string(bytes.Trim(bytes.TrimSpace(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		f.v = &n
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(fl)
		f.v = &n
	}
	return nil
}

func mapAvailability(rows []availabilityRow) []award.AvailabilityRecord {
	mapped := make([]award.AvailabilityRecord, 0, len(rows))
	for _, row := range rows {
		source := row.Source
		if source == "" {
			source = row.Route.Source
		}
		mapped = append(mapped, award.AvailabilityRecord{
			ID:          row.ID,
			Date:        row.Date,
			Source:      source,
			Origin:      row.Route.OriginAirport,
			Destination: row.Route.DestinationAirport,
			Economy: award.CabinAvailability{
				Available:      row.YAvailable,
				MileageCost:    row.YMileageCost,
				Direct:         row.YDirect,
				RemainingSeats: row.YRemainingSeats,
			},
			Business: award.CabinAvailability{
				Available:      row.JAvailable,
				MileageCost:    row.JMileageCost,
				Direct:         row.JDirect,
				RemainingSeats: row.JRemainingSeats,
			},
		})
	}
	return mapped
}

func mapTrips(rows []tripRow) []award.TripCandidate {
	mapped := make([]award.TripCandidate, 0, len(rows))
	for _, row := range rows {
		cost, _ := row.MileageCost.Value()
		mapped = append(mapped, award.TripCandidate{
			ID:             row.ID,
			Cabin:          row.Cabin,
			Stops:          row.Stops.v,
			TotalDuration:  row.TotalDuration.v,
			Origin:         row.OriginAirport,
			Destination:    row.DestinationAirport,
			DepartsAt:      parseTripTime(row.DepartsAt),
			ArrivesAt:      parseTripTime(row.ArrivesAt),
			Carriers:       splitList(row.Carriers),
			FlightNumbers:  splitList(row.FlightNumbers),
			Aircraft:       row.Aircraft,
			RemainingSeats: row.RemainingSeats,
			MileageCost:    cost,
		})
	}
	return mapped
}

// localTimeLayout is what some programs send: airport local time, no zone.
const localTimeLayout = "2006-01-02T15:04:05"

// parseTripTime accepts RFC3339 or zone-less local time. Anything else is
// left as the zero time so one bad row does not sink the whole response.
func parseTripTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse(localTimeLayout, s)
	return t
}

// splitList turns "UA837, NH7" into its parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
