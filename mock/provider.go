package main

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"awardfinder/internal/award"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type SearchResponse struct {
	Data    []AvailabilityRow `json:"data"`
	Count   int               `json:"count"`
	HasMore bool              `json:"hasMore"`
	Cursor  int64             `json:"cursor"`
}

type Route struct {
	OriginAirport      string `json:"OriginAirport"`
	DestinationAirport string `json:"DestinationAirport"`
	Source             string `json:"Source"`
}

type AvailabilityRow struct {
	ID              string `json:"ID"`
	Date            string `json:"Date"`
	Source          string `json:"Source"`
	Route           Route  `json:"Route"`
	YAvailable      bool   `json:"YAvailable"`
	JAvailable      bool   `json:"JAvailable"`
	YMileageCost    string `json:"YMileageCost"`
	JMileageCost    string `json:"JMileageCost"`
	YDirect         bool   `json:"YDirect"`
	JDirect         bool   `json:"JDirect"`
	YRemainingSeats int    `json:"YRemainingSeats"`
	JRemainingSeats int    `json:"JRemainingSeats"`
}

type TripsResponse struct {
	Data []TripRow `json:"data"`
}

type TripRow struct {
	ID                 string   `json:"ID"`
	Cabin              string   `json:"Cabin"`
	Stops              int      `json:"Stops"`
	TotalDuration      int      `json:"TotalDuration"`
	OriginAirport      string   `json:"OriginAirport"`
	DestinationAirport string   `json:"DestinationAirport"`
	DepartsAt          string   `json:"DepartsAt"`
	ArrivesAt          string   `json:"ArrivesAt"`
	Carriers           string   `json:"Carriers"`
	FlightNumbers      string   `json:"FlightNumbers"`
	Aircraft           []string `json:"Aircraft"`
	RemainingSeats     int      `json:"RemainingSeats"`
	MileageCost        string   `json:"MileageCost"`
}

type Provider struct {
	sources []string
	apiKey  string
	latency bool
}

func NewProvider(programs award.ProgramTable, apiKey string, latency bool) *Provider {
	sources := make([]string, 0, len(programs))
	for src := range programs {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return &Provider{sources: sources, apiKey: apiKey, latency: latency}
}

func (p *Provider) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/partnerapi", p.auth)
	{
		api.GET("/search", p.SearchHandler)
		api.GET("/trips/:id", p.TripsHandler)
	}
}

func (p *Provider) auth(c *gin.Context) {
	if p.apiKey != "" && c.GetHeader("Partner-Authorization") != p.apiKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid partner key"})
		return
	}
	c.Next()
}

func (p *Provider) SearchHandler(c *gin.Context) {
	origin := strings.ToUpper(c.Query("origin_airport"))
	destination := strings.ToUpper(c.Query("destination_airport"))
	start, errStart := time.Parse(dateLayout, c.Query("start_date"))
	end, errEnd := time.Parse(dateLayout, c.Query("end_date"))
	if origin == "" || destination == "" || errStart != nil || errEnd != nil || end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "origin_airport, destination_airport, start_date and end_date are required"})
		return
	}

	take, err := strconv.Atoi(c.DefaultQuery("take", "500"))
	if err != nil || take <= 0 {
		take = 500
	}
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))

	var rows []AvailabilityRow
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, src := range p.sources {
			if row, ok := availabilityFor(origin, destination, d, src); ok {
				rows = append(rows, row)
			}
		}
	}

	if skip > len(rows) {
		skip = len(rows)
	}
	page := rows[skip:]
	resp := SearchResponse{Data: page, Count: len(rows)}
	if len(page) > take {
		resp.Data = page[:take]
		resp.HasMore = true
		resp.Cursor = time.Now().Unix()
	}

	p.sleep()
	c.JSON(http.StatusOK, resp)
}

func (p *Provider) TripsHandler(c *gin.Context) {
	origin, destination, date, src, ok := parseRecordID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown availability id"})
		return
	}
	row, ok := availabilityFor(origin, destination, date, src)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown availability id"})
		return
	}

	var trips []TripRow
	if row.YAvailable {
		trips = append(trips, tripsFor(row, "economy", row.YMileageCost, row.YDirect, row.YRemainingSeats)...)
	}
	if row.JAvailable {
		trips = append(trips, tripsFor(row, "business", row.JMileageCost, row.JDirect, row.JRemainingSeats)...)
	}

	p.sleep()
	c.JSON(http.StatusOK, TripsResponse{Data: trips})
}

func (p *Provider) sleep() {
	if !p.latency {
		return
	}
	delay := 50 + rand.Intn(51) // 50 to 100ms
	time.Sleep(time.Duration(delay) * time.Millisecond)
}

// seed gives every route, day and program a stable pseudo-random number.
func seed(parts ...string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.Join(parts, "|")))
	return h.Sum32()
}

func recordID(origin, destination string, date time.Time, src string) string {
	return fmt.Sprintf("%s-%s-%s-%s", origin, destination, date.Format("20060102"), src)
}

func parseRecordID(id string) (string, string, time.Time, string, bool) {
	parts := strings.SplitN(id, "-", 4)
	if len(parts) != 4 {
		return "", "", time.Time{}, "", false
	}
	date, err := time.Parse("20060102", parts[2])
	if err != nil {
		return "", "", time.Time{}, "", false
	}
	return parts[0], parts[1], date, parts[3], true
}

func availabilityFor(origin, destination string, date time.Time, src string) (AvailabilityRow, bool) {
	h := seed(origin, destination, date.Format(dateLayout), src)
	// Roughly one program in three files each route and day.
	if h%3 != 0 {
		return AvailabilityRow{}, false
	}

	economy := 15000 + int(h>>4%10)*2500
	business := economy*3 + int(h>>8%4)*5000

	return AvailabilityRow{
		ID:     recordID(origin, destination, date, src),
		Date:   date.Format(dateLayout),
		Source: src,
		Route: Route{
			OriginAirport:      origin,
			DestinationAirport: destination,
			Source:             src,
		},
		YAvailable:      h>>12%5 != 0,
		JAvailable:      h>>16%3 == 0,
		YMileageCost:    strconv.Itoa(economy),
		JMileageCost:    strconv.Itoa(business),
		YDirect:         h>>20%2 == 0,
		JDirect:         h>>21%2 == 0,
		YRemainingSeats: 1 + int(h>>22%9),
		JRemainingSeats: 1 + int(h>>26%4),
	}, true
}

func tripsFor(row AvailabilityRow, cabin, cost string, direct bool, seats int) []TripRow {
	date, _ := time.Parse(dateLayout, row.Date)
	h := seed(row.ID, cabin)
	carrier := strings.ToUpper(row.Source[:2])

	count := 1 + int(h%3)
	trips := make([]TripRow, 0, count)
	for i := 0; i < count; i++ {
		stops := i
		if direct && i == 0 {
			stops = 0
		} else if !direct {
			stops = 1 + i%2
		}
		duration := 420 + stops*150 + int((h>>uint(i*4))%12)*15
		departs := date.Add(time.Duration(7+i*4) * time.Hour)

		flights := make([]string, 0, stops+1)
		for leg := 0; leg <= stops; leg++ {
			flights = append(flights, fmt.Sprintf("%s%d", carrier, 100+int(h>>uint(leg*3)%800)))
		}

		trips = append(trips, TripRow{
			ID:                 fmt.Sprintf("%s-%s-%d", row.ID, cabin, i),
			Cabin:              cabin,
			Stops:              stops,
			TotalDuration:      duration,
			OriginAirport:      row.Route.OriginAirport,
			DestinationAirport: row.Route.DestinationAirport,
			DepartsAt:          departs.Format(time.RFC3339),
			ArrivesAt:          departs.Add(time.Duration(duration) * time.Minute).Format(time.RFC3339),
			Carriers:           carrier,
			FlightNumbers:      strings.Join(flights, ","),
			Aircraft:           []string{"Boeing 787-9"},
			RemainingSeats:     seats,
			MileageCost:        cost,
		})
	}
	return trips
}
