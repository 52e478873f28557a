package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PostSync triggers a reconciliation pass and reports its result. The
// pass itself only ever yields a coarse success/failure; per-family
// outcomes are visible in the server log.
func (h *Handler) PostSync(c *gin.Context) {
	result := h.engine.Run(c.Request.Context())
	if result.Success {
		c.JSON(http.StatusOK, result)
		return
	}
	if !h.signal.Online() {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	// Online but refused: another pass already holds the latch.
	c.JSON(http.StatusConflict, result)
}

// GetSyncStatus reports connectivity, whether a pass is in flight and
// the pending-upload backlog per entity family.
func (h *Handler) GetSyncStatus(c *gin.Context) {
	counts, err := h.store.PendingCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Pending-Total", strconv.FormatInt(counts.Total(), 10))
	c.JSON(http.StatusOK, gin.H{
		"online":  h.signal.Online(),
		"syncing": h.engine.Running(),
		"pending": counts,
	})
}
