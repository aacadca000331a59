package award

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"awardfinder/pkg/cache"
	"awardfinder/pkg/idgen"
	"awardfinder/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const instrumentationName = "awardfinder/internal/award"

type AvailabilityProvider interface {
	SearchAvailability(ctx context.Context, q AvailabilityQuery) ([]AvailabilityRecord, error)
}

type TripDetailProvider interface {
	GetTrips(ctx context.Context, recordID string) ([]TripCandidate, error)
}

// DestinationResolver must always answer; failures degrade inside it.
type DestinationResolver interface {
	Resolve(ctx context.Context, text string) Resolution
}

// HighlightSource returns short descriptive lines for a stay. It must not fail.
type HighlightSource interface {
	Get(ctx context.Context, destination string, nights int) []string
}

type CardTable interface {
	Multiplier(card string) float64
}

type Dependencies struct {
	Availability AvailabilityProvider
	Trips        TripDetailProvider
	Resolver     DestinationResolver
	Highlights   HighlightSource
	Cards        CardTable
	Programs     ProgramTable
	Cache        cache.Cache
	CacheTTL     time.Duration
	IDs          idgen.Generator
	Logger       logger.Client
}

type Service struct {
	availability AvailabilityProvider
	trips        TripDetailProvider
	resolver     DestinationResolver
	highlights   HighlightSource
	cards        CardTable
	engine       *Engine
	cache        cache.Cache
	ttl          time.Duration
	ids          idgen.Generator
	logger       logger.Client
	tracer       trace.Tracer
	searches     metric.Int64Counter
}

func NewService(deps Dependencies) *Service {
	s := &Service{
		availability: deps.Availability,
		trips:        deps.Trips,
		resolver:     deps.Resolver,
		highlights:   deps.Highlights,
		cards:        deps.Cards,
		engine:       NewEngine(deps.Programs),
		cache:        deps.Cache,
		ttl:          deps.CacheTTL,
		ids:          deps.IDs,
		logger:       deps.Logger,
		tracer:       otel.Tracer(instrumentationName),
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}
	if s.resolver == nil {
		s.resolver = passthroughResolver{}
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("award.searches",
		metric.WithDescription("Award searches served, by mode and outcome"))
	if err != nil {
		s.logger.Warn("failed to create search counter", logger.Field{Key: "err", Value: err})
	}
	s.searches = counter
	return s
}

type passthroughResolver struct{}

func (passthroughResolver) Resolve(_ context.Context, text string) Resolution {
	code := strings.ToUpper(strings.TrimSpace(text))
	return Resolution{Query: text, Codes: []string{code}, Confidence: "low", Source: "passthrough"}
}

// searchStats counts provider work for one request.
type searchStats struct {
	providerCalls atomic.Int64
	cacheHits     atomic.Int64
}

type destinationMatch struct {
	destination string
	pairs       []DatePair
	reason      MatchReason
}

// Search finds bookable round trips for the month and card budget.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	criteria, err := req.criteria()
	if err != nil {
		s.count(ctx, "search", "invalid")
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "award.Search", trace.WithAttributes(
		attribute.String("award.origin", criteria.Origin),
		attribute.String("award.destination", criteria.Destination),
		attribute.String("award.cabin", string(criteria.Cabin)),
	))
	defer span.End()

	resolution := s.resolveDestination(ctx, criteria.Destination)
	budget := s.budgetFor(req.Card, req.Points)
	stats := &searchStats{}

	matches, err := s.matchDestinations(ctx, criteria, resolution.Codes, budget.Miles, stats)
	if err != nil {
		s.fail(ctx, span, "search", err)
		return nil, err
	}

	cards, pairCount, err := s.buildCards(ctx, matches, budget.Multiplier, stats)
	if err != nil {
		s.fail(ctx, span, "search", err)
		return nil, err
	}
	cards = AggregateCards(cards, MaxCards)
	s.attachHighlights(ctx, cards)

	resp := &SearchResponse{
		SearchID: s.nextID(),
		Criteria: criteria,
		Budget:   budget,
		Cards:    cards,
		Metadata: Metadata{
			Resolution:          resolution,
			DestinationsQueried: len(resolution.Codes),
			PairsMatched:        pairCount,
			ProviderCalls:       stats.providerCalls.Load(),
			CacheHits:           stats.cacheHits.Load(),
			SearchTimeMs:        time.Since(startTime).Milliseconds(),
		},
	}
	if len(cards) == 0 {
		resp.Reason = string(mostSpecificReason(matches))
	}

	s.logger.Info("award search completed",
		logger.Field{Key: "search_id", Value: resp.SearchID},
		logger.Field{Key: "destinations", Value: resolution.Codes},
		logger.Field{Key: "budget_miles", Value: budget.Miles},
		logger.Field{Key: "cards", Value: len(cards)},
		logger.Field{Key: "reason", Value: resp.Reason},
		logger.Field{Key: "search_time_ms", Value: resp.Metadata.SearchTimeMs},
	)
	s.count(ctx, "search", "ok")
	return resp, nil
}

// Reach lists where the budget can get the traveler one way during the month.
func (s *Service) Reach(ctx context.Context, req ReachRequest) (*ReachResponse, error) {
	startTime := time.Now()

	criteria, err := req.criteria()
	if err != nil {
		s.count(ctx, "reach", "invalid")
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "award.Reach", trace.WithAttributes(
		attribute.String("award.origin", criteria.Origin),
		attribute.String("award.destination", criteria.Destination),
	))
	defer span.End()

	resolution := s.resolveDestination(ctx, criteria.Destination)
	budget := s.budgetFor(req.Card, req.Points)
	stats := &searchStats{}

	perDestination := make([][]ReachOption, len(resolution.Codes))
	g, gctx := errgroup.WithContext(ctx)
	for i, dest := range resolution.Codes {
		g.Go(func() error {
			records, err := s.fetchAvailability(gctx, AvailabilityQuery{
				Origin:      criteria.Origin,
				Destination: dest,
				Range:       criteria.Range,
			}, stats)
			if err != nil {
				return err
			}
			for _, rec := range s.engine.FindEligibleOptions(records, budget.Miles, criteria.Cabin) {
				opt := ReachOptionFrom(dest, rec)
				opt.CardPoints = PointsFromMiles(opt.Cost, budget.Multiplier)
				perDestination[i] = append(perDestination[i], opt)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(ctx, span, "reach", err)
		return nil, err
	}

	var all []ReachOption
	for _, opts := range perDestination {
		all = append(all, opts...)
	}
	options := GroupReachable(all, MaxCards)

	resp := &ReachResponse{
		SearchID: s.nextID(),
		Criteria: criteria,
		Budget:   budget,
		Options:  options,
		Metadata: Metadata{
			Resolution:          resolution,
			DestinationsQueried: len(resolution.Codes),
			ProviderCalls:       stats.providerCalls.Load(),
			CacheHits:           stats.cacheHits.Load(),
			SearchTimeMs:        time.Since(startTime).Milliseconds(),
		},
	}
	if len(options) == 0 {
		resp.Reason = string(ReasonNoOutbound)
	}

	s.logger.Info("award reach completed",
		logger.Field{Key: "search_id", Value: resp.SearchID},
		logger.Field{Key: "destinations", Value: resolution.Codes},
		logger.Field{Key: "options", Value: len(options)},
	)
	s.count(ctx, "reach", "ok")
	return resp, nil
}

// InvalidateAvailability drops the cached provider answer for one route and month.
func (s *Service) InvalidateAvailability(ctx context.Context, q AvailabilityQuery) error {
	key := availabilityCacheKey(q)
	s.logger.Info("invalidating cache", logger.Field{Key: "cache_key", Value: key})
	return s.cache.Del(ctx, key)
}

func (s *Service) resolveDestination(ctx context.Context, text string) Resolution {
	res := s.resolver.Resolve(ctx, text)
	if len(res.Codes) == 0 {
		res = passthroughResolver{}.Resolve(ctx, text)
	}
	if len(res.Codes) > 5 {
		res.Codes = res.Codes[:5]
	}
	return res
}

func (s *Service) budgetFor(card string, points int64) Budget {
	var multiplier float64
	if s.cards != nil {
		multiplier = s.cards.Multiplier(card)
	}
	if multiplier == 0 {
		s.logger.Warn("unknown card, budget is zero", logger.Field{Key: "card", Value: card})
	}
	return Budget{
		Card:       card,
		Points:     points,
		Multiplier: multiplier,
		Miles:      MilesFromPoints(points, multiplier),
	}
}

// matchDestinations fetches both directions for every destination at once and
// runs the matcher per destination and program.
func (s *Service) matchDestinations(ctx context.Context, c SearchCriteria, destinations []string, budgetMiles int64, stats *searchStats) ([]destinationMatch, error) {
	matches := make([]destinationMatch, len(destinations))
	g, gctx := errgroup.WithContext(ctx)
	for i, dest := range destinations {
		g.Go(func() error {
			m, err := s.matchDestination(gctx, c, dest, budgetMiles, stats)
			matches[i] = m
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *Service) matchDestination(ctx context.Context, c SearchCriteria, dest string, budgetMiles int64, stats *searchStats) (destinationMatch, error) {
	var outbound, inbound []AvailabilityRecord

	// Return flights can land after the month ends.
	returnRange := DateRange{
		Start: c.Range.Start.AddDays(c.MinNights),
		End:   c.Range.End.AddDays(c.MaxNights),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.fetchAvailability(gctx, AvailabilityQuery{Origin: c.Origin, Destination: dest, Range: c.Range}, stats)
		outbound = recs
		return err
	})
	g.Go(func() error {
		recs, err := s.fetchAvailability(gctx, AvailabilityQuery{Origin: dest, Destination: c.Origin, Range: returnRange}, stats)
		inbound = recs
		return err
	})
	if err := g.Wait(); err != nil {
		return destinationMatch{}, err
	}

	outBySource := groupBySource(outbound)
	retBySource := groupBySource(inbound)

	match := destinationMatch{destination: dest, reason: ReasonNoOutbound}
	for _, src := range unionSources(outBySource, retBySource) {
		res := s.engine.MatchDatePairs(outBySource[src], retBySource[src], budgetMiles, c.MinNights, c.MaxNights, c.Cabin)
		match.pairs = append(match.pairs, res.Pairs...)
		if reasonRank(res.Reason) > reasonRank(match.reason) {
			match.reason = res.Reason
		}
	}

	s.logger.Debug("destination matched",
		logger.Field{Key: "destination", Value: dest},
		logger.Field{Key: "outbound_records", Value: len(outbound)},
		logger.Field{Key: "return_records", Value: len(inbound)},
		logger.Field{Key: "pairs", Value: len(match.pairs)},
	)
	return match, nil
}

type pairRef struct {
	destination string
	pair        DatePair
}

// buildCards fetches trip details for both legs of every pair concurrently.
// The first failure aborts the rest.
func (s *Service) buildCards(ctx context.Context, matches []destinationMatch, multiplier float64, stats *searchStats) ([]Card, int, error) {
	var refs []pairRef
	for _, m := range matches {
		for _, p := range m.pairs {
			refs = append(refs, pairRef{destination: m.destination, pair: p})
		}
	}
	if len(refs) == 0 {
		return []Card{}, 0, nil
	}

	outTrips := make([][]TripCandidate, len(refs))
	retTrips := make([][]TripCandidate, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			trips, err := s.fetchTrips(gctx, ref.pair.Outbound.RecordID, stats)
			outTrips[i] = trips
			return err
		})
		g.Go(func() error {
			trips, err := s.fetchTrips(gctx, ref.pair.Return.RecordID, stats)
			retTrips[i] = trips
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	cards := make([]Card, 0, len(refs))
	for i, ref := range refs {
		out := SelectBestTrip(outTrips[i], ref.pair.Cabin)
		ret := SelectBestTrip(retTrips[i], ref.pair.Cabin)
		card := BuildCard(ref.destination, ref.pair, out, ret)
		card.CardPoints = PointsFromMiles(card.TotalPoints, multiplier)
		cards = append(cards, card)
	}
	return cards, len(refs), nil
}

func (s *Service) attachHighlights(ctx context.Context, cards []Card) {
	if s.highlights == nil || len(cards) == 0 {
		return
	}
	var g errgroup.Group
	for i := range cards {
		g.Go(func() error {
			cards[i].Highlights = s.highlights.Get(ctx, cards[i].Destination, cards[i].Nights)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) fetchAvailability(ctx context.Context, q AvailabilityQuery, stats *searchStats) ([]AvailabilityRecord, error) {
	ctx, span := s.tracer.Start(ctx, "award.fetchAvailability", trace.WithAttributes(
		attribute.String("award.route", q.Origin+"-"+q.Destination),
		attribute.String("award.start", q.Range.Start.String()),
		attribute.String("award.end", q.Range.End.String()),
	))
	defer span.End()

	records, err := cachedFetch(ctx, s, availabilityCacheKey(q), stats, func(ctx context.Context) ([]AvailabilityRecord, error) {
		return s.availability.SearchAvailability(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("availability %s-%s: %w", q.Origin, q.Destination, err)
	}
	span.SetAttributes(attribute.Int("award.records", len(records)))
	return records, nil
}

func (s *Service) fetchTrips(ctx context.Context, recordID string, stats *searchStats) ([]TripCandidate, error) {
	ctx, span := s.tracer.Start(ctx, "award.fetchTrips", trace.WithAttributes(
		attribute.String("award.record_id", recordID),
	))
	defer span.End()

	trips, err := cachedFetch(ctx, s, "award:trips:"+recordID, stats, func(ctx context.Context) ([]TripCandidate, error) {
		return s.trips.GetTrips(ctx, recordID)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("trips for %s: %w", recordID, err)
	}
	return trips, nil
}

// cachedFetch serves fetch from the response cache when possible. Cache
// problems are logged and never fail the request.
func cachedFetch[T any](ctx context.Context, s *Service, key string, stats *searchStats, fetch func(context.Context) (T, error)) (T, error) {
	cached, err := s.cache.Get(ctx, key)
	if err == nil && cached != "" {
		var v T
		if err := json.Unmarshal([]byte(cached), &v); err == nil {
			stats.cacheHits.Add(1)
			return v, nil
		}
		s.logger.Error("failed to unmarshal cached data", logger.Field{Key: "err", Value: err}, logger.Field{Key: "cache_key", Value: key})
	} else if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", logger.Field{Key: "err", Value: err}, logger.Field{Key: "cache_key", Value: key})
	}

	stats.providerCalls.Add(1)
	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal response for caching", logger.Field{Key: "err", Value: err})
		return v, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logger.Error("failed to cache response", logger.Field{Key: "err", Value: err}, logger.Field{Key: "cache_key", Value: key})
	}
	return v, nil
}

// availabilityCacheKey creates a deterministic key from the query
func availabilityCacheKey(q AvailabilityQuery) string {
	key := fmt.Sprintf("%s:%s:%s:%s",
		strings.ToUpper(q.Origin),
		strings.ToUpper(q.Destination),
		q.Range.Start,
		q.Range.End,
	)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("award:availability:%x", hash[:16])
}

func (s *Service) nextID() string {
	if s.ids == nil {
		return ""
	}
	return s.ids.NextSearchID()
}

func (s *Service) fail(ctx context.Context, span trace.Span, mode string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("award "+mode+" failed", logger.Field{Key: "err", Value: err})
	s.count(ctx, mode, "error")
}

func (s *Service) count(ctx context.Context, mode, outcome string) {
	if s.searches == nil {
		return
	}
	s.searches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

func groupBySource(records []AvailabilityRecord) map[string][]AvailabilityRecord {
	out := make(map[string][]AvailabilityRecord)
	for _, r := range records {
		key := strings.ToLower(r.Source)
		out[key] = append(out[key], r)
	}
	return out
}

func unionSources(a, b map[string][]AvailabilityRecord) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// reasonRank orders reasons by how far matching got.
func reasonRank(r MatchReason) int {
	switch r {
	case ReasonNoOutbound:
		return 0
	case ReasonNoReturn:
		return 1
	case ReasonNoPairs:
		return 2
	default:
		return 3
	}
}

func mostSpecificReason(matches []destinationMatch) MatchReason {
	best := ReasonNoOutbound
	for _, m := range matches {
		if len(m.pairs) > 0 {
			return ReasonNone
		}
		if reasonRank(m.reason) > reasonRank(best) {
			best = m.reason
		}
	}
	return best
}
