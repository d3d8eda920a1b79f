package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

type goalsResponse struct {
	service.Settings
	TodayCalorieGoal float64               `json:"todayCalorieGoal"`
	Adjustments      model.GoalAdjustments `json:"adjustments"`
}

func (h *Handler) goalsResponse() goalsResponse {
	return goalsResponse{
		Settings:         h.tracker.Settings(),
		TodayCalorieGoal: h.tracker.CalorieGoal(h.tracker.Today()),
		Adjustments:      h.tracker.Adjustments(),
	}
}

// GET /api/goals
func (h *Handler) getGoals(c *gin.Context) {
	c.JSON(http.StatusOK, h.goalsResponse())
}

// putGoals replaces all five base goals.
// PUT /api/goals
func (h *Handler) putGoals(c *gin.Context) {
	var goals model.BaseGoals
	if !bindJSON(c, &goals) {
		return
	}
	if err := h.tracker.SetBaseGoals(goals); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.goalsResponse())
}

// PUT /api/weekly-balancing {"enabled": true}
func (h *Handler) putWeeklyBalancing(c *gin.Context) {
	var req struct {
		Enabled *bool `json:"enabled"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required", "field": "enabled"})
		return
	}
	if err := h.tracker.SetWeeklyBalancing(*req.Enabled); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.goalsResponse())
}

// POST /api/onboarding/complete
func (h *Handler) completeOnboarding(c *gin.Context) {
	if err := h.tracker.CompleteOnboarding(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.goalsResponse())
}

// addWater adds (or with a negative amount removes) millilitres of water.
// POST /api/water {"date": "YYYY-MM-DD", "amount": 250}
func (h *Handler) addWater(c *gin.Context) {
	var req struct {
		Date   string  `json:"date"`
		Amount float64 `json:"amount"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.tracker.Today()
	}
	total, err := h.tracker.AddWater(req.Date, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "water": total})
}

// getProgress returns the last seven days for one nutrient.
// GET /api/progress?view=calories|protein|carbs|fat
func (h *Handler) getProgress(c *gin.Context) {
	view, err := service.ParseProgressView(c.Query("view"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view, "days": h.tracker.Progress(view)})
}
