package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/model"
	"github.com/saadjs/nutri/internal/service"
)

type entryRequest struct {
	Date string `json:"date"`
	service.EntryInput
}

// getDay returns logged and planned entries with totals and goal status.
// GET /api/day?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDay(c *gin.Context) {
	day, err := h.tracker.Day(h.dateQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// POST /api/entries
func (h *Handler) createEntry(c *gin.Context) {
	h.addEntry(c, model.LedgerLogged)
}

// POST /api/plan
func (h *Handler) createPlanned(c *gin.Context) {
	h.addEntry(c, model.LedgerPlan)
}

func (h *Handler) addEntry(c *gin.Context, kind model.LedgerKind) {
	var req entryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Date == "" {
		req.Date = h.tracker.Today()
	}

	add := h.tracker.AddFood
	if kind == model.LedgerPlan {
		add = h.tracker.AddPlanned
	}
	entry, err := add(req.Date, req.EntryInput)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// updateEntry changes quantity and/or meal type of a logged entry.
// PATCH /api/entries/:date/:id
func (h *Handler) updateEntry(c *gin.Context) {
	var upd service.EntryUpdate
	if !bindJSON(c, &upd) {
		return
	}
	if upd.Quantity == nil && upd.MealType == nil {
		apiError(c, http.StatusBadRequest, "nothing to update: send quantity and/or mealType")
		return
	}
	entry, err := h.tracker.UpdateFood(c.Param("date"), c.Param("id"), upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /api/entries/:date/:id
func (h *Handler) deleteEntry(c *gin.Context) {
	if err := h.tracker.RemoveFood(c.Param("date"), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/plan/:date/:id
func (h *Handler) deletePlanned(c *gin.Context) {
	if err := h.tracker.RemovePlanned(c.Param("date"), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// getPlan returns the planned entries for a date.
// GET /api/plan?date=YYYY-MM-DD
func (h *Handler) getPlan(c *gin.Context) {
	date := h.dateQuery(c)
	if _, err := service.ParseDateKey(date, nil); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	entries := h.tracker.Entries(model.LedgerPlan, date)
	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"entries": entries,
		"totals":  service.Totals(entries),
	})
}

// logPlan copies the day's plan into the log. The plan itself is kept.
// POST /api/plan/:date/log
func (h *Handler) logPlan(c *gin.Context) {
	ids, err := h.tracker.LogPlan(c.Param("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logged": ids})
}

// getTotals rolls logged entries up over an inclusive range.
// GET /api/totals?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) getTotals(c *gin.Context) {
	today := h.tracker.Today()
	report, err := h.tracker.RangeTotals(c.DefaultQuery("from", today), c.DefaultQuery("to", today))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
