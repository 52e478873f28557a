package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
)

// GetTechnicians handles the GET /api/technicians request.
func (h *Handler) GetTechnicians(c *gin.Context) {
	var technicians []model.Technician
	if err := h.store.DB().Order("name ASC").Find(&technicians).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve technicians"})
		return
	}
	c.JSON(http.StatusOK, technicians)
}

type postTechnicianRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// PostTechnician registers a new technician as pending upload.
func (h *Handler) PostTechnician(c *gin.Context) {
	var req postTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tech := model.Technician{Name: req.Name, Code: req.Code}
	if err := h.store.DB().Create(&tech).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "technician code already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tech)
}
