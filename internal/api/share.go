package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saadjs/nutri/internal/share"
)

// getShare builds a share link for one day.
// GET /api/share?date=YYYY-MM-DD
func (h *Handler) getShare(c *gin.Context) {
	summary, err := h.tracker.Summary(h.dateQuery(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	data, err := share.Encode(summary)
	if err != nil {
		h.fail(c, err)
		return
	}
	link, err := share.Link(h.shareBaseURL, summary)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link, "data": data, "summary": summary})
}

// GET /api/share/decode?data=...
func (h *Handler) decodeShare(c *gin.Context) {
	summary, err := share.Decode(c.Query("data"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
