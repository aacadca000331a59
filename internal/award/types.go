package award

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrorCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrorCodeUpstream        ErrorCode = "UPSTREAM_ERROR"
	ErrorCodeInternalFailure ErrorCode = "INTERNAL_FAILURE"
)

type Cabin string

const (
	CabinEconomy  Cabin = "economy"
	CabinBusiness Cabin = "business"
)

// ParseCabin accepts the two cabins the matcher understands. An empty label
// means economy.
func ParseCabin(label string) (Cabin, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "economy", "y":
		return CabinEconomy, nil
	case "business", "j":
		return CabinBusiness, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown cabin %q, expected economy or business", label))
	}
}

// Other returns the fallback cabin.
func (c Cabin) Other() Cabin {
	if c == CabinBusiness {
		return CabinEconomy
	}
	return CabinBusiness
}

var cabins = [...]Cabin{CabinEconomy, CabinBusiness}

type ReliabilityTier string

const (
	TierLiveReliable    ReliabilityTier = "LIVE_RELIABLE"
	TierLimitedReliable ReliabilityTier = "LIMITED_RELIABLE"
)

type ProgramCapability struct {
	Source     string          `json:"source" yaml:"source"`
	Tier       ReliabilityTier `json:"tier" yaml:"tier"`
	Disclaimer string          `json:"disclaimer,omitempty" yaml:"disclaimer"`
}

// ProgramTable maps a provider source to what we know about it. Sources
// missing from the table never reach results.
type ProgramTable map[string]ProgramCapability

func (t ProgramTable) Capability(source string) (ProgramCapability, bool) {
	c, ok := t[strings.ToLower(source)]
	return c, ok
}

// Flag is an availability boolean that is true only for a literal JSON true.
// Strings, numbers and null all decode to false.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag(bytes.Equal(bytes.TrimSpace(b), []byte("true")))
	return nil
}

// RawCost keeps the provider's mileage cost text as received. Providers send
// numbers, numeric strings, empty strings or garbage; Value decides.
type RawCost struct {
	text string
}

func Cost(v float64) RawCost {
	return RawCost{text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Value returns the cost when it is a finite number.
func (c RawCost) Value() (float64, bool) {
	s := strings.TrimSpace(c.text)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (c RawCost) MarshalJSON() ([]byte, error) {
	if c.text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(c.text)
}

func (c *RawCost) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		c.text = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		c.text = s
	default:
		c.text = string(b)
	}
	return nil
}

type CabinAvailability struct {
	Available      Flag    `json:"available"`
	MileageCost    RawCost `json:"mileage_cost"`
	Direct         bool    `json:"direct"`
	RemainingSeats int     `json:"remaining_seats"`
}

// AvailabilityRecord is one day for one program on one direction.
type AvailabilityRecord struct {
	ID          string            `json:"id"`
	Date        Date              `json:"date"`
	Source      string            `json:"source"`
	Origin      string            `json:"origin"`
	Destination string            `json:"destination"`
	Economy     CabinAvailability `json:"economy"`
	Business    CabinAvailability `json:"business"`
}

func (r AvailabilityRecord) Cabin(c Cabin) CabinAvailability {
	if c == CabinBusiness {
		return r.Business
	}
	return r.Economy
}

// AdmissibleRecord is a (record, cabin) combination that passed the budget test.
type AdmissibleRecord struct {
	Date     Date               `json:"date"`
	Cabin    Cabin              `json:"cabin"`
	Cost     float64            `json:"cost"`
	Source   string             `json:"source"`
	Direct   bool               `json:"direct"`
	RecordID string             `json:"record_id"`
	Program  ProgramCapability  `json:"-"`
	Record   AvailabilityRecord `json:"-"`
}

// DatePair is a candidate round trip. Cabin is the cabin actually matched;
// WasFallback tells whether it differs from RequestedCabin.
type DatePair struct {
	DepartDate     Date             `json:"depart_date"`
	ReturnDate     Date             `json:"return_date"`
	Nights         int              `json:"nights"`
	Cabin          Cabin            `json:"cabin"`
	RequestedCabin Cabin            `json:"requested_cabin"`
	WasFallback    bool             `json:"was_fallback"`
	Outbound       AdmissibleRecord `json:"outbound"`
	Return         AdmissibleRecord `json:"return"`
}

type MatchReason string

const (
	ReasonNone       MatchReason = ""
	ReasonNoOutbound MatchReason = "no outbound availability within budget"
	ReasonNoReturn   MatchReason = "no return availability within budget"
	ReasonNoPairs    MatchReason = "no pairs in this night range"
)

type MatchResult struct {
	Pairs  []DatePair  `json:"pairs"`
	Reason MatchReason `json:"reason,omitempty"`
}

// TripCandidate is one flight-level itinerary from the trip-detail provider.
// Stops and TotalDuration are nil when the provider sent nothing usable.
type TripCandidate struct {
	ID             string    `json:"id"`
	Cabin          string    `json:"cabin"`
	Stops          *int      `json:"stops,omitempty"`
	TotalDuration  *int      `json:"total_duration,omitempty"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartsAt      time.Time `json:"departs_at"`
	ArrivesAt      time.Time `json:"arrives_at"`
	Carriers       []string  `json:"carriers"`
	FlightNumbers  []string  `json:"flight_numbers"`
	Aircraft       []string  `json:"aircraft"`
	RemainingSeats int       `json:"remaining_seats"`
	MileageCost    float64   `json:"mileage_cost"`
}

type TripSummary struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DepartsAt       time.Time `json:"departs_at"`
	ArrivesAt       time.Time `json:"arrives_at"`
	Stops           int       `json:"stops"`
	DurationMinutes int       `json:"duration_minutes"`
	Carriers        []string  `json:"carriers"`
	FlightNumbers   []string  `json:"flight_numbers"`
	Aircraft        []string  `json:"aircraft"`
	Cabin           string    `json:"cabin"`
	RemainingSeats  int       `json:"remaining_seats"`
	MileageCost     float64   `json:"mileage_cost"`
}

// Card is one bookable round trip as shown to the traveler.
type Card struct {
	Destination     string          `json:"destination"`
	Source          string          `json:"source"`
	Tier            ReliabilityTier `json:"tier"`
	Disclaimer      string          `json:"disclaimer,omitempty"`
	DepartDate      Date            `json:"depart_date"`
	ReturnDate      Date            `json:"return_date"`
	Nights          int             `json:"nights"`
	Cabin           Cabin           `json:"cabin"`
	WasFallback     bool            `json:"was_fallback"`
	OutboundSummary *TripSummary    `json:"outbound_summary"`
	ReturnSummary   *TripSummary    `json:"return_summary"`
	TotalPoints     float64         `json:"total_points"`
	CardPoints      int64           `json:"card_points"`
	Highlights      []string        `json:"highlights,omitempty"`
}

// ReachOption is a single-direction result in "what can I reach" mode.
type ReachOption struct {
	Destination string          `json:"destination"`
	Date        Date            `json:"date"`
	Source      string          `json:"source"`
	Tier        ReliabilityTier `json:"tier"`
	Disclaimer  string          `json:"disclaimer,omitempty"`
	Cabin       Cabin           `json:"cabin"`
	Cost        float64         `json:"cost"`
	Direct      bool            `json:"direct"`
	RecordID    string          `json:"record_id"`
	CardPoints  int64           `json:"card_points"`
}

// Resolution is the destination resolver's answer for free text.
type Resolution struct {
	Query      string   `json:"query"`
	Codes      []string `json:"codes"`
	Confidence string   `json:"confidence"`
	Source     string   `json:"source"`
}

type AvailabilityQuery struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Range       DateRange `json:"range"`
}
