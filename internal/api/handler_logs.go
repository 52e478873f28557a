package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"condo-maintain-backend/internal/maintenance"
	"condo-maintain-backend/internal/model"
)

// GetLogs handles the GET /api/logs request, filtered by
// ?condominium_id= and optionally ?month=YYYY-MM.
func (h *Handler) GetLogs(c *gin.Context) {
	db := h.store.DB()

	if raw := c.Query("condominium_id"); raw != "" {
		condoID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid condominium ID"})
			return
		}
		db = db.Where("condominium_id = ?", condoID)
	}

	if month := c.Query("month"); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid month format. Use YYYY-MM."})
			return
		}
		db = db.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var logs []model.MaintenanceLog
	if err := db.Order("date DESC").Find(&logs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// PostLog runs the maintenance-log save workflow: anomaly detection,
// the derived equipment status mutation and the optimistic local write.
// When online, a reconciliation pass is kicked off in the background so
// the log reaches the remote store promptly.
func (h *Handler) PostLog(c *gin.Context) {
	var in maintenance.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logRow, err := h.maint.SaveLog(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.signal.Online() {
		go h.engine.Run(context.Background())
	}

	c.JSON(http.StatusCreated, logRow)
}

// PutLog rewrites an existing log locally. Already-uploaded logs are
// not re-marked pending; the remote copy keeps its original values.
func (h *Handler) PutLog(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	var in maintenance.LogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logRow, err := h.maint.UpdateLog(c.Request.Context(), id, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logRow)
}
