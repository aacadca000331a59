package award

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Searcher is what the HTTP layer needs from the service.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Reach(ctx context.Context, req ReachRequest) (*ReachResponse, error)
	InvalidateAvailability(ctx context.Context, q AvailabilityQuery) error
}

type CardLister interface {
	Cards() []string
}

type AwardHandler struct {
	service Searcher
	cards   CardLister
}

func NewAwardHandler(s Searcher, cards CardLister) *AwardHandler {
	return &AwardHandler{
		service: s,
		cards:   cards,
	}
}

func (h *AwardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.HealthHandler)

	v1 := router.Group("/v1")
	{
		v1.POST("/awards/search", h.SearchHandler)
		v1.POST("/awards/reach", h.ReachHandler)
		v1.DELETE("/awards/cache", h.InvalidateCacheHandler)
		v1.GET("/cards", h.ListCardsHandler)
	}
}

// SearchHandler godoc
// @Summary      Find bookable award round trips
// @Description  Matches outbound and return award space in a travel month against a card point budget
// @Tags         awards
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search criteria"
// @Success      200 {object} SearchResponse
// @Failure      400 {object} map[string]string
// @Failure      502 {object} map[string]interface{}
// @Router       /v1/awards/search [post]
func (h *AwardHandler) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request format: %v", err),
			"code":  ErrorCodeValidation,
		})
		return
	}

	response, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReachHandler godoc
// @Summary      List one-way award destinations within budget
// @Tags         awards
// @Accept       json
// @Produce      json
// @Param        request body ReachRequest true "Reach criteria"
// @Success      200 {object} ReachResponse
// @Failure      400 {object} map[string]string
// @Failure      502 {object} map[string]interface{}
// @Router       /v1/awards/reach [post]
func (h *AwardHandler) ReachHandler(c *gin.Context) {
	var req ReachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request format: %v", err),
			"code":  ErrorCodeValidation,
		})
		return
	}

	response, err := h.service.Reach(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// InvalidateCacheHandler godoc
// @Summary      Drop cached availability for a route and month
// @Tags         awards
// @Param        origin query string true "Origin airport"
// @Param        destination query string true "Destination airport"
// @Param        month query string true "Travel month YYYY-MM"
// @Success      204
// @Router       /v1/awards/cache [delete]
func (h *AwardHandler) InvalidateCacheHandler(c *gin.Context) {
	origin := strings.ToUpper(c.Query("origin"))
	destination := strings.ToUpper(c.Query("destination"))
	if err := requireFields([2]string{"origin", origin}, [2]string{"destination", destination}); err != nil {
		sendError(c, err)
		return
	}
	rng, err := ParseTravelMonth(c.Query("month"))
	if err != nil {
		sendError(c, err)
		return
	}

	q := AvailabilityQuery{Origin: origin, Destination: destination, Range: rng}
	if err := h.service.InvalidateAvailability(c.Request.Context(), q); err != nil {
		sendError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCardsHandler godoc
// @Summary      Cards with a known point conversion
// @Tags         cards
// @Produce      json
// @Success      200 {object} map[string][]string
// @Router       /v1/cards [get]
func (h *AwardHandler) ListCardsHandler(c *gin.Context) {
	var names []string
	if h.cards != nil {
		names = h.cards.Cards()
	}
	c.JSON(http.StatusOK, gin.H{"cards": names})
}

func (h *AwardHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func sendError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":           "Award provider request failed",
			"code":            ErrorCodeUpstream,
			"upstream_status": upErr.Status,
			"details":         upErr.Detail,
		})
		return
	}

	// Default to 500 for unknown errors
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"code":    ErrorCodeInternalFailure,
		"details": err.Error(),
	})
}
