package awardclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"awardfinder/internal/award"
	"awardfinder/pkg/logger"
)

const (
	pageSize     = 1000
	maxPages     = 10
	maxErrorBody = 64 << 10
)

// Client talks to the award availability provider. One instance serves both
// the availability search and the per-record trip lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     logger.Client
}

var (
	_ award.AvailabilityProvider = (*Client)(nil)
	_ award.TripDetailProvider   = (*Client)(nil)
)

func NewClient(httpClient *http.Client, baseURL, apiKey string, logger logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// SearchAvailability returns every program's daily records for the route
// and date range, following pagination.
func (c *Client) SearchAvailability(ctx context.Context, q award.AvailabilityQuery) ([]award.AvailabilityRecord, error) {
	params := url.Values{}
	params.Set("origin_airport", q.Origin)
	params.Set("destination_airport", q.Destination)
	params.Set("start_date", q.Range.Start.String())
	params.Set("end_date", q.Range.End.String())
	params.Set("take", strconv.Itoa(pageSize))

	var records []award.AvailabilityRecord
	for page := 0; page < maxPages; page++ {
		var resp searchResponse
		endpoint := fmt.Sprintf("%s/partnerapi/search?%s", c.baseURL, params.Encode())
		if err := c.getJSON(ctx, "availability search", endpoint, &resp); err != nil {
			return nil, err
		}

		records = append(records, mapAvailability(resp.Data)...)
		if !resp.HasMore || resp.Cursor == 0 {
			return records, nil
		}
		params.Set("cursor", strconv.FormatInt(resp.Cursor, 10))
		params.Set("skip", strconv.Itoa((page+1)*pageSize))
	}

	c.logger.Warn("availability search truncated",
		logger.Field{Key: "route", Value: q.Origin + "-" + q.Destination},
		logger.Field{Key: "records", Value: len(records)},
	)
	return records, nil
}

// GetTrips returns the flight-level itineraries behind one availability record.
func (c *Client) GetTrips(ctx context.Context, recordID string) ([]award.TripCandidate, error) {
	var resp tripsResponse
	endpoint := fmt.Sprintf("%s/partnerapi/trips/%s", c.baseURL, url.PathEscape(recordID))
	if err := c.getJSON(ctx, "trip detail", endpoint, &resp); err != nil {
		return nil, err
	}
	return mapTrips(resp.Data), nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Partner-Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("provider call failed", logger.Field{Key: "op", Value: op}, logger.Field{Key: "err", Value: err})
		return &award.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("provider returned error status",
			logger.Field{Key: "op", Value: op},
			logger.Field{Key: "status", Value: resp.StatusCode},
		)
		return &award.UpstreamError{Op: op, Status: resp.StatusCode, Detail: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &award.UpstreamError{Op: op, Status: resp.StatusCode, Detail: "malformed response body", Err: err}
	}
	return nil
}
