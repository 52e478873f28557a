package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
)

// CondominiumResponse represents the API response for a single property.
type CondominiumResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Synced         int    `json:"synced"`
	TotalEquipment int64  `json:"totalEquipment"`
	CriticalCount  int64  `json:"criticalCount"`
}

// GetCondominiums handles the GET /api/condominiums request.
func (h *Handler) GetCondominiums(c *gin.Context) {
	db := h.store.DB()

	var condos []model.Condominium
	if err := db.Find(&condos).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve condominiums"})
		return
	}

	type aggRow struct {
		CondominiumID  int64
		TotalEquipment int64
		CriticalCount  int64
	}
	var aggs []aggRow
	if err := db.
		Model(&model.Equipment{}).
		Select("condominium_id, COUNT(*) as total_equipment, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as critical_count", model.StatusCritical).
		Group("condominium_id").
		Scan(&aggs).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate equipment"})
		return
	}

	aggMap := make(map[int64]aggRow, len(aggs))
	for _, a := range aggs {
		aggMap[a.CondominiumID] = a
	}

	responses := make([]CondominiumResponse, 0, len(condos))
	for _, condo := range condos {
		a := aggMap[condo.ID]
		responses = append(responses, CondominiumResponse{
			ID:             condo.ID,
			Name:           condo.Name,
			Address:        condo.Address,
			Synced:         condo.Synced,
			TotalEquipment: a.TotalEquipment,
			CriticalCount:  a.CriticalCount,
		})
	}
	c.JSON(http.StatusOK, responses)
}

type postCondominiumRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// PostCondominium registers a new property. The write is optimistic:
// the row is created pending and uploaded by the next sync pass.
func (h *Handler) PostCondominium(c *gin.Context) {
	var req postCondominiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	condo := model.Condominium{Name: req.Name, Address: req.Address}
	if err := h.store.DB().Create(&condo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "condominium already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, condo)
}
