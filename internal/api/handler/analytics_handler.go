package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bookvault/internal/api/dto"
	"bookvault/internal/api/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/advanced", h.Advanced)
	rg.GET("/rating-trends", h.RatingTrends)
	rg.GET("/genre-trends", h.GenreTrends)
	rg.GET("/reading-history", h.ReadingHistory)
	rg.POST("/log-reading", h.LogReading)
}

// Advanced returns the full analytics payload built from one snapshot of the
// user's books and sessions.
// GET /api/analytics/advanced
func (h *AnalyticsHandler) Advanced(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	analytics, err := h.analyticsService.GetAdvancedAnalytics(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analytics)
}

// RatingTrends returns per-month average ratings of books added
// GET /api/analytics/rating-trends?months=
func (h *AnalyticsHandler) RatingTrends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	trends, err := h.analyticsService.GetRatingTrends(c.Request.Context(), userID.(string), months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trends)
}

// GenreTrends returns per-genre distribution and reading minutes
// GET /api/analytics/genre-trends
func (h *AnalyticsHandler) GenreTrends(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	trends, err := h.analyticsService.GetGenreTrends(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trends)
}

// ReadingHistory pages through sessions newest-first
// GET /api/analytics/reading-history?page=&page_size=
func (h *AnalyticsHandler) ReadingHistory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	page, pageSize := pagination(c, 20)

	history, err := h.analyticsService.GetReadingHistory(c.Request.Context(), userID.(string), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

// LogReading records a reading session against one of the user's books
// POST /api/analytics/log-reading
func (h *AnalyticsHandler) LogReading(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.LogReadingSessionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.analyticsService.LogReadingSession(c.Request.Context(), userID.(string), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "end time must be after start time"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}
