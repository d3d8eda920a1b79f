// Package api serves the tracker over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/log"
	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/provider/gemini"
	"github.com/saadjs/nutri/internal/provider/openfoodfacts"
	"github.com/saadjs/nutri/internal/service"
	"github.com/saadjs/nutri/internal/share"
)

// Estimator is the AI backend. *gemini.Client satisfies it.
type Estimator interface {
	EstimateFromText(ctx context.Context, description string) (model.NutritionEstimate, error)
	EstimateFromImage(ctx context.Context, image []byte, mimeType string) (model.NutritionEstimate, error)
	SearchByName(ctx context.Context, query string) ([]model.NutritionEstimate, error)
	SuggestDayPlan(ctx context.Context, goals model.BaseGoals) (model.SuggestedPlan, error)
	SuggestWeekPlan(ctx context.Context, goals model.BaseGoals) ([]model.SuggestedPlan, error)
	Chat(ctx context.Context, history []gemini.ChatMessage, message string) (string, error)
}

// FoodDatabase looks packaged foods up. *openfoodfacts.Client satisfies it.
type FoodDatabase interface {
	LookupBarcode(ctx context.Context, barcode string) (model.NutritionEstimate, error)
	SearchFoods(ctx context.Context, query string, limit int) ([]model.NutritionEstimate, error)
}

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	tracker      *service.Tracker
	estimator    Estimator
	foods        FoodDatabase
	shareBaseURL string
	logger       *log.Logger
}

// NewHandler wires the routes to tracker. A nil estimator disables the AI
// routes with 503.
func NewHandler(tracker *service.Tracker, estimator Estimator, shareBaseURL string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Discard()
	}
	return &Handler{
		tracker:      tracker,
		estimator:    estimator,
		shareBaseURL: shareBaseURL,
		logger:       logger.WithComponent(log.ComponentHTTP),
	}
}

// WithFoodDatabase enables barcode lookups and ?source=openfoodfacts search.
func (h *Handler) WithFoodDatabase(foods FoodDatabase) *Handler {
	h.foods = foods
	return h
}

// Router builds a gin engine with recovery, request logging and all routes.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/day", h.getDay)
	api.POST("/entries", h.createEntry)
	api.PATCH("/entries/:date/:id", h.updateEntry)
	api.DELETE("/entries/:date/:id", h.deleteEntry)
	api.GET("/totals", h.getTotals)

	api.GET("/plan", h.getPlan)
	api.POST("/plan", h.createPlanned)
	api.DELETE("/plan/:date/:id", h.deletePlanned)
	api.POST("/plan/:date/log", h.logPlan)
	api.POST("/plan/:date/suggest", h.suggestPlan)

	api.GET("/goals", h.getGoals)
	api.PUT("/goals", h.putGoals)
	api.PUT("/weekly-balancing", h.putWeeklyBalancing)
	api.POST("/onboarding/complete", h.completeOnboarding)
	api.POST("/water", h.addWater)
	api.GET("/progress", h.getProgress)

	api.GET("/share", h.getShare)
	api.GET("/share/decode", h.decodeShare)

	api.POST("/estimate/text", h.estimateText)
	api.POST("/estimate/image", h.estimateImage)
	api.GET("/search", h.search)
	api.GET("/barcode/:code", h.lookupBarcode)
	api.POST("/chat", h.chat)
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// fail maps err onto a status code. Unknown errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	var perr *gemini.EstimateParseError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, openfoodfacts.ErrNotFound):
		apiError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, share.ErrInvalidData), errors.Is(err, openfoodfacts.ErrInvalidBarcode):
		apiError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, gemini.ErrMissingAPIKey):
		apiError(c, http.StatusServiceUnavailable, "AI features are not configured")
	case errors.Is(err, gemini.ErrOverloaded):
		apiError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, gemini.ErrServiceNotFound), errors.As(err, &perr), errors.Is(err, openfoodfacts.ErrUnavailable):
		apiError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		apiError(c, http.StatusGatewayTimeout, "upstream request timed out")
	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed",
			log.FieldMethod, c.Request.Method,
			log.FieldPath, c.FullPath(),
			log.FieldError, err,
		)
		apiError(c, http.StatusInternalServerError, "internal error")
	}
}

// requireEstimator writes 503 and returns false when AI is disabled.
func (h *Handler) requireEstimator(c *gin.Context) bool {
	if h.estimator == nil {
		h.fail(c, gemini.ErrMissingAPIKey)
		return false
	}
	return true
}

// requireFoodDatabase writes 503 and returns false without a food database.
func (h *Handler) requireFoodDatabase(c *gin.Context) bool {
	if h.foods == nil {
		apiError(c, http.StatusServiceUnavailable, "food database is not configured")
		return false
	}
	return true
}

// dateQuery reads ?date=, defaulting to today.
func (h *Handler) dateQuery(c *gin.Context) string {
	return c.DefaultQuery("date", h.tracker.Today())
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apiError(c, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
