package award

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"awardfinder/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAvailability is a mock implementation of AvailabilityProvider
type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) SearchAvailability(ctx context.Context, q AvailabilityQuery) ([]AvailabilityRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AvailabilityRecord), args.Error(1)
}

// MockTrips is a mock implementation of TripDetailProvider
type MockTrips struct {
	mock.Mock
}

func (m *MockTrips) GetTrips(ctx context.Context, recordID string) ([]TripCandidate, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TripCandidate), args.Error(1)
}

type fakeCards map[string]float64

func (f fakeCards) Multiplier(card string) float64 { return f[strings.ToLower(card)] }

type fixedIDs struct{}

func (fixedIDs) NextSearchID() string { return "srch_test" }

type fixedResolver []string

func (r fixedResolver) Resolve(_ context.Context, text string) Resolution {
	return Resolution{Query: text, Codes: r, Confidence: "high", Source: "test"}
}

type staticHighlights struct{}

func (staticHighlights) Get(_ context.Context, destination string, nights int) []string {
	return []string{destination + " highlight"}
}

func route(origin, destination string) any {
	return mock.MatchedBy(func(q AvailabilityQuery) bool {
		return q.Origin == origin && q.Destination == destination
	})
}

func economyTrip(id string, cost float64) []TripCandidate {
	return []TripCandidate{
		{ID: id + "-1", Cabin: "economy", Stops: intPtr(1), TotalDuration: intPtr(900), MileageCost: cost},
		{ID: id + "-0", Cabin: "economy", Stops: intPtr(0), TotalDuration: intPtr(660), MileageCost: cost},
	}
}

type serviceFixture struct {
	availability *MockAvailability
	trips        *MockTrips
	cache        *cache.MemoryCache
	service      *Service
}

func newFixture(t *testing.T, resolver DestinationResolver) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		availability: &MockAvailability{},
		trips:        &MockTrips{},
		cache:        cache.NewMemoryCache(),
	}
	f.service = NewService(Dependencies{
		Availability: f.availability,
		Trips:        f.trips,
		Resolver:     resolver,
		Highlights:   staticHighlights{},
		Cards:        fakeCards{"sapphire": 1.0, "gold": 0.8},
		Programs:     testPrograms,
		Cache:        f.cache,
		CacheTTL:     time.Minute,
		IDs:          fixedIDs{},
	})
	return f
}

func (f *serviceFixture) stubTokyo(t *testing.T) {
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{
		seat(t, "o1", "2026-02-03", "united", 22500, 0),
		seat(t, "o2", "2026-02-10", "united", 25000, 0),
		// Outbound-only program: never pairs, never hides the united pairs.
		seat(t, "ac1", "2026-02-04", "aeroplan", 15000, 0),
	}, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{
		seat(t, "r1", "2026-02-08", "united", 22500, 0),
		seat(t, "r2", "2026-02-13", "united", 22500, 0),
	}, nil)
	for id, cost := range map[string]float64{"o1": 22500, "o2": 25000, "r1": 22500, "r2": 22500} {
		f.trips.On("GetTrips", mock.Anything, id).Return(economyTrip(id, cost), nil)
	}
}

func searchRequest() SearchRequest {
	return SearchRequest{
		Origin:      "sfo",
		Destination: "NRT",
		TravelMonth: "2026-02",
		Card:        "Sapphire",
		Points:      100000,
	}
}

func TestService_Search(t *testing.T) {
	f := newFixture(t, nil)
	f.stubTokyo(t)

	resp, err := f.service.Search(context.Background(), searchRequest())

	require.NoError(t, err)
	assert.Equal(t, "srch_test", resp.SearchID)
	assert.Equal(t, int64(100000), resp.Budget.Miles)
	assert.Equal(t, 3, resp.Criteria.MinNights)
	assert.Equal(t, 10, resp.Criteria.MaxNights)
	assert.Empty(t, resp.Reason)

	require.Len(t, resp.Cards, 3)
	assert.Equal(t, 3, resp.Cards[0].Nights)
	assert.Equal(t, 5, resp.Cards[1].Nights)
	assert.Equal(t, 10, resp.Cards[2].Nights)

	first := resp.Cards[0]
	assert.Equal(t, "NRT", first.Destination)
	assert.Equal(t, "united", first.Source)
	assert.Equal(t, 47500.0, first.TotalPoints)
	assert.Equal(t, int64(47500), first.CardPoints)
	require.NotNil(t, first.OutboundSummary)
	assert.Equal(t, 0, first.OutboundSummary.Stops)
	assert.Equal(t, []string{"NRT highlight"}, first.Highlights)

	assert.Equal(t, 3, resp.Metadata.PairsMatched)
	assert.Equal(t, 1, resp.Metadata.DestinationsQueried)
	f.availability.AssertNumberOfCalls(t, "SearchAvailability", 2)
}

func TestService_Search_ReturnWindowExtendsPastMonth(t *testing.T) {
	f := newFixture(t, nil)
	f.stubTokyo(t)

	_, err := f.service.Search(context.Background(), searchRequest())
	require.NoError(t, err)

	f.availability.AssertCalled(t, "SearchAvailability", mock.Anything, mock.MatchedBy(func(q AvailabilityQuery) bool {
		return q.Origin == "NRT" && q.Range.Start.String() == "2026-02-04" && q.Range.End.String() == "2026-03-10"
	}))
}

func TestService_Search_SecondCallServedFromCache(t *testing.T) {
	f := newFixture(t, nil)
	f.stubTokyo(t)

	_, err := f.service.Search(context.Background(), searchRequest())
	require.NoError(t, err)
	resp, err := f.service.Search(context.Background(), searchRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(0), resp.Metadata.ProviderCalls)
	assert.Equal(t, int64(8), resp.Metadata.CacheHits)
	assert.Len(t, resp.Cards, 3)
	f.availability.AssertNumberOfCalls(t, "SearchAvailability", 2)
}

func TestService_InvalidateAvailability(t *testing.T) {
	f := newFixture(t, nil)
	f.stubTokyo(t)

	_, err := f.service.Search(context.Background(), searchRequest())
	require.NoError(t, err)

	rng, err := ParseTravelMonth("2026-02")
	require.NoError(t, err)
	require.NoError(t, f.service.InvalidateAvailability(context.Background(), AvailabilityQuery{Origin: "SFO", Destination: "NRT", Range: rng}))

	_, err = f.service.Search(context.Background(), searchRequest())
	require.NoError(t, err)
	f.availability.AssertNumberOfCalls(t, "SearchAvailability", 3)
}

func TestService_Search_ValidationMakesNoUpstreamCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SearchRequest)
	}{
		{"bad month", func(r *SearchRequest) { r.TravelMonth = "February" }},
		{"missing origin", func(r *SearchRequest) { r.Origin = " " }},
		{"unknown cabin", func(r *SearchRequest) { r.Cabin = "first" }},
		{"max below min", func(r *SearchRequest) { r.MinNights, r.MaxNights = 7, 3 }},
		{"zero min", func(r *SearchRequest) { r.MinNights, r.MaxNights = 0, 5 }},
		{"max above stay limit", func(r *SearchRequest) { r.MinNights, r.MaxNights = 3, 2_000_000_000 }},
		{"negative points", func(r *SearchRequest) { r.Points = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			req := searchRequest()
			tt.mutate(&req)

			_, err := f.service.Search(context.Background(), req)

			var appErr *AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			f.availability.AssertNotCalled(t, "SearchAvailability", mock.Anything, mock.Anything)
		})
	}
}

func TestSearchRequest_Criteria_StayLimit(t *testing.T) {
	req := searchRequest()
	req.MinNights, req.MaxNights = 1, MaxStayNights

	c, err := req.criteria()
	require.NoError(t, err)
	assert.Equal(t, MaxStayNights, c.MaxNights)

	req.MaxNights = MaxStayNights + 1
	_, err = req.criteria()
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "max_nights must be at most")
}

func TestService_Search_UpstreamErrorAborts(t *testing.T) {
	f := newFixture(t, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).
		Return(nil, &UpstreamError{Op: "availability search", Status: http.StatusTooManyRequests, Detail: "rate limited"})
	f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{}, nil)

	_, err := f.service.Search(context.Background(), searchRequest())

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
	assert.Equal(t, "rate limited", upErr.Detail)
}

func TestService_Search_TripFailureAborts(t *testing.T) {
	f := newFixture(t, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{
		seat(t, "o1", "2026-02-03", "united", 22500, 0),
	}, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{
		seat(t, "r1", "2026-02-08", "united", 22500, 0),
	}, nil)
	f.trips.On("GetTrips", mock.Anything, "o1").Return(economyTrip("o1", 22500), nil)
	f.trips.On("GetTrips", mock.Anything, "r1").Return(nil, &UpstreamError{Op: "trip detail", Status: http.StatusInternalServerError})

	resp, err := f.service.Search(context.Background(), searchRequest())

	assert.Nil(t, resp)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.Status)
}

func TestService_Search_MissingItineraryStillEmitsCard(t *testing.T) {
	f := newFixture(t, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{
		seat(t, "o1", "2026-02-03", "united", 22500, 0),
	}, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{
		seat(t, "r1", "2026-02-08", "united", 27500, 0),
	}, nil)
	f.trips.On("GetTrips", mock.Anything, "o1").Return([]TripCandidate{
		{ID: "o1-j", Cabin: "business", Stops: intPtr(0), TotalDuration: intPtr(600), MileageCost: 80000},
	}, nil)
	f.trips.On("GetTrips", mock.Anything, "r1").Return(economyTrip("r1", 27500), nil)

	resp, err := f.service.Search(context.Background(), searchRequest())

	require.NoError(t, err)
	require.Len(t, resp.Cards, 1)
	assert.Nil(t, resp.Cards[0].OutboundSummary)
	assert.Equal(t, 27500.0, resp.Cards[0].TotalPoints)
}

func TestService_Search_Reasons(t *testing.T) {
	t.Run("unknown card has no budget", func(t *testing.T) {
		f := newFixture(t, nil)
		f.stubTokyo(t)
		req := searchRequest()
		req.Card = "mystery"

		resp, err := f.service.Search(context.Background(), req)

		require.NoError(t, err)
		assert.Empty(t, resp.Cards)
		assert.NotNil(t, resp.Cards)
		assert.Equal(t, int64(0), resp.Budget.Miles)
		assert.Equal(t, string(ReasonNoOutbound), resp.Reason)
	})

	t.Run("most advanced reason across destinations", func(t *testing.T) {
		f := newFixture(t, fixedResolver{"NRT", "HND"})
		f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{}, nil)
		f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{}, nil)
		f.availability.On("SearchAvailability", mock.Anything, route("SFO", "HND")).Return([]AvailabilityRecord{
			seat(t, "h1", "2026-02-03", "united", 22500, 0),
		}, nil)
		f.availability.On("SearchAvailability", mock.Anything, route("HND", "SFO")).Return([]AvailabilityRecord{
			seat(t, "h2", "2026-02-08", "united", 500000, 0),
		}, nil)
		req := searchRequest()
		req.Destination = "Tokyo"

		resp, err := f.service.Search(context.Background(), req)

		require.NoError(t, err)
		assert.Empty(t, resp.Cards)
		assert.Equal(t, string(ReasonNoReturn), resp.Reason)
		assert.Equal(t, 2, resp.Metadata.DestinationsQueried)
		assert.Equal(t, []string{"NRT", "HND"}, resp.Metadata.Resolution.Codes)
	})

	t.Run("legs in different programs do not pair", func(t *testing.T) {
		f := newFixture(t, nil)
		f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{
			seat(t, "o1", "2026-02-03", "united", 22500, 0),
		}, nil)
		f.availability.On("SearchAvailability", mock.Anything, route("NRT", "SFO")).Return([]AvailabilityRecord{
			seat(t, "r1", "2026-02-08", "aeroplan", 22500, 0),
		}, nil)

		resp, err := f.service.Search(context.Background(), searchRequest())

		require.NoError(t, err)
		assert.Empty(t, resp.Cards)
		assert.Equal(t, string(ReasonNoReturn), resp.Reason)
		f.trips.AssertNotCalled(t, "GetTrips", mock.Anything, mock.Anything)
	})
}

func TestService_Reach(t *testing.T) {
	f := newFixture(t, fixedResolver{"NRT", "HND"})
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).Return([]AvailabilityRecord{
		seat(t, "n1", "2026-02-03", "united", 40000, 0),
		seat(t, "n2", "2026-02-05", "aeroplan", 35000, 0),
		seat(t, "n3", "2026-02-06", "mysteryair", 1000, 0),
	}, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "HND")).Return([]AvailabilityRecord{
		seat(t, "h1", "2026-02-09", "united", 30000, 0),
	}, nil)
	req := ReachRequest{Origin: "SFO", Destination: "Tokyo", TravelMonth: "2026-02", Card: "gold", Points: 100000}

	resp, err := f.service.Reach(context.Background(), req)

	require.NoError(t, err)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, int64(80000), resp.Budget.Miles)

	var ids []string
	for _, o := range resp.Options {
		ids = append(ids, o.RecordID)
	}
	assert.Equal(t, []string{"h1", "n2"}, ids)
	assert.Equal(t, int64(37500), resp.Options[0].CardPoints)
	f.trips.AssertNotCalled(t, "GetTrips", mock.Anything, mock.Anything)
}

func TestService_Reach_UpstreamError(t *testing.T) {
	f := newFixture(t, nil)
	f.availability.On("SearchAvailability", mock.Anything, route("SFO", "NRT")).
		Return(nil, &UpstreamError{Op: "availability search", Err: errors.New("connection refused")})

	_, err := f.service.Reach(context.Background(), ReachRequest{
		Origin: "SFO", Destination: "NRT", TravelMonth: "2026-02", Card: "gold", Points: 100000,
	})

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 0, upErr.Status)
}

func TestAvailabilityCacheKey(t *testing.T) {
	rng, err := ParseTravelMonth("2026-02")
	require.NoError(t, err)

	a := availabilityCacheKey(AvailabilityQuery{Origin: "sfo", Destination: "nrt", Range: rng})
	b := availabilityCacheKey(AvailabilityQuery{Origin: "SFO", Destination: "NRT", Range: rng})
	c := availabilityCacheKey(AvailabilityQuery{Origin: "NRT", Destination: "SFO", Range: rng})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "award:availability:"))
}
