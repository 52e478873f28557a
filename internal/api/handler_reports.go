package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetMonthlyReport handles GET /api/reports/monthly?condominium_id=&month=YYYY-MM.
func (h *Handler) GetMonthlyReport(c *gin.Context) {
	condoID, err := strconv.ParseInt(c.Query("condominium_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "condominium_id is required"})
		return
	}

	month := c.Query("month")
	if month == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "month is required (YYYY-MM)"})
		return
	}

	rep, err := h.reports.Monthly(c.Request.Context(), condoID, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}
