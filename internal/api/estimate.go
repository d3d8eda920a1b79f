package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/provider/gemini"
	"github.com/saadjs/nutri/internal/service"
)

const (
	maxImageBytes = 10 << 20
	searchLimit   = 10
)

type estimateTextRequest struct {
	Description string `json:"description"`
	// Log adds the estimate to the log for Date under MealType.
	Log      bool           `json:"log"`
	Date     string         `json:"date"`
	MealType model.MealType `json:"mealType"`
	Quantity float64        `json:"quantity"`
}

type estimateResponse struct {
	Estimate model.NutritionEstimate `json:"estimate"`
	Entry    *model.FoodEntry        `json:"entry,omitempty"`
}

// estimateText estimates a free-form meal description, optionally logging it.
// POST /api/estimate/text
func (h *Handler) estimateText(c *gin.Context) {
	if !h.requireEstimator(c) {
		return
	}
	var req estimateTextRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required", "field": "description"})
		return
	}
	if req.Log && !req.MealType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mealType is required to log an estimate", "field": "mealType"})
		return
	}

	est, err := h.estimator.EstimateFromText(c.Request.Context(), req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondEstimate(c, est, req.Log, req.Date, req.MealType, req.Quantity)
}

// estimateImage estimates the food in an uploaded photo (multipart field
// "image"). Form fields log, date, mealType and quantity mirror the text route.
// POST /api/estimate/image
func (h *Handler) estimateImage(c *gin.Context) {
	if !h.requireEstimator(c) {
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "field": "image"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is larger than 10MB", "field": "image"})
		return
	}
	f, err := file.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		h.fail(c, err)
		return
	}

	mimeType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload is not an image", "field": "image"})
		return
	}

	logIt := c.PostForm("log") == "true"
	mealType := model.MealType(c.PostForm("mealType"))
	if logIt && !mealType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mealType is required to log an estimate", "field": "mealType"})
		return
	}
	quantity := 0.0
	if q := c.PostForm("quantity"); q != "" {
		if quantity, err = strconv.ParseFloat(q, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a number", "field": "quantity"})
			return
		}
	}

	est, err := h.estimator.EstimateFromImage(c.Request.Context(), data, mimeType)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondEstimate(c, est, logIt, c.PostForm("date"), mealType, quantity)
}

func (h *Handler) respondEstimate(c *gin.Context, est model.NutritionEstimate, logIt bool, date string, mealType model.MealType, quantity float64) {
	if !logIt {
		c.JSON(http.StatusOK, estimateResponse{Estimate: est})
		return
	}
	if date == "" {
		date = h.tracker.Today()
	}
	entry, err := h.tracker.AddFood(date, service.InputFromEstimate(est, mealType, quantity))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, estimateResponse{Estimate: est, Entry: &entry})
}

// search lists foods by name, from Gemini by default or from the packaged
// food database with ?source=openfoodfacts.
// GET /api/search?q=rice
func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required", "field": "q"})
		return
	}

	var (
		results []model.NutritionEstimate
		err     error
	)
	switch source := c.DefaultQuery("source", "gemini"); source {
	case "gemini":
		if !h.requireEstimator(c) {
			return
		}
		results, err = h.estimator.SearchByName(c.Request.Context(), q)
	case "openfoodfacts":
		if !h.requireFoodDatabase(c) {
			return
		}
		results, err = h.foods.SearchFoods(c.Request.Context(), q, searchLimit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be gemini or openfoodfacts", "field": "source"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": results})
}

// lookupBarcode fetches a packaged food. ?log=true&mealType=... logs it like
// the estimate routes.
// GET /api/barcode/:code
func (h *Handler) lookupBarcode(c *gin.Context) {
	if !h.requireFoodDatabase(c) {
		return
	}
	logIt := c.Query("log") == "true"
	mealType := model.MealType(c.Query("mealType"))
	if logIt && !mealType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mealType is required to log a product", "field": "mealType"})
		return
	}
	quantity := 0.0
	if q := c.Query("quantity"); q != "" {
		var err error
		if quantity, err = strconv.ParseFloat(q, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a number", "field": "quantity"})
			return
		}
	}

	est, err := h.foods.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondEstimate(c, est, logIt, c.Query("date"), mealType, quantity)
}

// suggestPlan asks for a meal plan near the base goals and appends it to the
// plan, one day or, with ?days=7, a week starting at :date.
// POST /api/plan/:date/suggest
func (h *Handler) suggestPlan(c *gin.Context) {
	if !h.requireEstimator(c) {
		return
	}
	start, err := service.ParseDateKey(c.Param("date"), nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD", "field": "date"})
		return
	}
	days := c.DefaultQuery("days", "1")
	if days != "1" && days != "7" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be 1 or 7", "field": "days"})
		return
	}

	goals := h.tracker.Settings().Goals
	var plans []model.SuggestedPlan
	if days == "7" {
		plans, err = h.estimator.SuggestWeekPlan(c.Request.Context(), goals)
	} else {
		var plan model.SuggestedPlan
		plan, err = h.estimator.SuggestDayPlan(c.Request.Context(), goals)
		plans = []model.SuggestedPlan{plan}
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	added := map[string][]model.FoodEntry{}
	for i, plan := range plans {
		key := service.DateKey(start.AddDate(0, 0, i))
		entries, err := h.tracker.ApplySuggestedPlan(key, plan)
		if err != nil {
			h.fail(c, err)
			return
		}
		added[key] = entries
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "added": added})
}

// chat answers a nutrition question given the earlier turns.
// POST /api/chat {"history": [{"role": "user", "text": "..."}], "message": "..."}
func (h *Handler) chat(c *gin.Context) {
	if !h.requireEstimator(c) {
		return
	}
	var req struct {
		History []gemini.ChatMessage `json:"history"`
		Message string               `json:"message"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required", "field": "message"})
		return
	}
	reply, err := h.estimator.Chat(c.Request.Context(), req.History, req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
