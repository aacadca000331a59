package award

import (
	"fmt"
	"strings"
)

const (
	defaultMinNights = 3
	defaultMaxNights = 10
	// MaxStayNights caps max_nights; longer stays are not award round trips.
	MaxStayNights = 60
)

type SearchRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	TravelMonth string `json:"travel_month" binding:"required"`
	Card        string `json:"card" binding:"required"`
	Points      int64  `json:"points" binding:"required"`
	Cabin       string `json:"cabin"`
	MinNights   int    `json:"min_nights"`
	MaxNights   int    `json:"max_nights"`
}

type ReachRequest struct {
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	TravelMonth string `json:"travel_month" binding:"required"`
	Card        string `json:"card" binding:"required"`
	Points      int64  `json:"points" binding:"required"`
	Cabin       string `json:"cabin"`
}

type SearchCriteria struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	TravelMonth string    `json:"travel_month"`
	Range       DateRange `json:"range"`
	Cabin       Cabin     `json:"cabin"`
	MinNights   int       `json:"min_nights,omitempty"`
	MaxNights   int       `json:"max_nights,omitempty"`
}

type Budget struct {
	Card       string  `json:"card"`
	Points     int64   `json:"points"`
	Multiplier float64 `json:"multiplier"`
	Miles      int64   `json:"miles"`
}

type Metadata struct {
	Resolution          Resolution `json:"resolution"`
	DestinationsQueried int        `json:"destinations_queried"`
	PairsMatched        int        `json:"pairs_matched"`
	ProviderCalls       int64      `json:"provider_calls"`
	CacheHits           int64      `json:"cache_hits"`
	SearchTimeMs        int64      `json:"search_time_ms"`
}

type SearchResponse struct {
	SearchID string         `json:"search_id"`
	Criteria SearchCriteria `json:"search_criteria"`
	Budget   Budget         `json:"budget"`
	Cards    []Card         `json:"cards"`
	Reason   string         `json:"reason,omitempty"`
	Metadata Metadata       `json:"metadata"`
}

type ReachResponse struct {
	SearchID string         `json:"search_id"`
	Criteria SearchCriteria `json:"search_criteria"`
	Budget   Budget         `json:"budget"`
	Options  []ReachOption  `json:"options"`
	Reason   string         `json:"reason,omitempty"`
	Metadata Metadata       `json:"metadata"`
}

// requireFields takes name/value pairs and reports every blank one at once.
func requireFields(fields ...[2]string) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			missing = append(missing, f[0])
		}
	}
	if len(missing) > 0 {
		return NewValidationError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func validateCommon(origin, destination, month, card string, points int64, cabinLabel string) (SearchCriteria, error) {
	err := requireFields(
		[2]string{"origin", origin},
		[2]string{"destination", destination},
		[2]string{"travel_month", month},
		[2]string{"card", card},
	)
	if err != nil {
		return SearchCriteria{}, err
	}
	if points <= 0 {
		return SearchCriteria{}, NewValidationError(fmt.Sprintf("points must be positive, got %d", points))
	}

	rng, err := ParseTravelMonth(strings.TrimSpace(month))
	if err != nil {
		return SearchCriteria{}, err
	}
	cabin, err := ParseCabin(cabinLabel)
	if err != nil {
		return SearchCriteria{}, err
	}

	return SearchCriteria{
		Origin:      strings.ToUpper(strings.TrimSpace(origin)),
		Destination: strings.TrimSpace(destination),
		TravelMonth: strings.TrimSpace(month),
		Range:       rng,
		Cabin:       cabin,
	}, nil
}

// criteria validates the request and fills night defaults. No upstream
// calls happen before this succeeds.
func (r SearchRequest) criteria() (SearchCriteria, error) {
	c, err := validateCommon(r.Origin, r.Destination, r.TravelMonth, r.Card, r.Points, r.Cabin)
	if err != nil {
		return SearchCriteria{}, err
	}

	c.MinNights, c.MaxNights = r.MinNights, r.MaxNights
	if c.MinNights == 0 && c.MaxNights == 0 {
		c.MinNights, c.MaxNights = defaultMinNights, defaultMaxNights
	}
	if c.MinNights < 1 {
		return SearchCriteria{}, NewValidationError(fmt.Sprintf("min_nights must be at least 1, got %d", c.MinNights))
	}
	if c.MaxNights < c.MinNights {
		return SearchCriteria{}, NewValidationError(fmt.Sprintf("max_nights (%d) must not be less than min_nights (%d)", c.MaxNights, c.MinNights))
	}
	if c.MaxNights > MaxStayNights {
		return SearchCriteria{}, NewValidationError(fmt.Sprintf("max_nights must be at most %d, got %d", MaxStayNights, c.MaxNights))
	}
	return c, nil
}

func (r ReachRequest) criteria() (SearchCriteria, error) {
	return validateCommon(r.Origin, r.Destination, r.TravelMonth, r.Card, r.Points, r.Cabin)
}
