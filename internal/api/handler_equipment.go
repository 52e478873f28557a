package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
)

// GetEquipment handles the GET /api/equipment request, optionally
// filtered by ?condominium_id=.
func (h *Handler) GetEquipment(c *gin.Context) {
	db := h.store.DB()

	if raw := c.Query("condominium_id"); raw != "" {
		condoID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid condominium ID"})
			return
		}
		db = db.Where("condominium_id = ?", condoID)
	}

	var equipment []model.Equipment
	if err := db.Order("name ASC").Find(&equipment).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}
	c.JSON(http.StatusOK, equipment)
}

type postEquipmentRequest struct {
	CondominiumID        int64               `json:"condominiumId" binding:"required"`
	Name                 string              `json:"name" binding:"required"`
	Type                 model.EquipmentType `json:"type" binding:"required"`
	Location             string              `json:"location"`
	ManufacturerAmperage float64             `json:"manufacturerAmperage"`
	MaxOperatingTemp     float64             `json:"maxOperatingTemp"`
	NominalPressure      *float64            `json:"nominalPressure"`
}

// PostEquipment registers a new asset as pending upload.
func (h *Handler) PostEquipment(c *gin.Context) {
	var req postEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var condo model.Condominium
	if err := h.store.DB().First(&condo, req.CondominiumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "condominium not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	equipment := model.Equipment{
		CondominiumID:        req.CondominiumID,
		Name:                 req.Name,
		Type:                 req.Type,
		Location:             req.Location,
		Status:               model.StatusOperational,
		ManufacturerAmperage: req.ManufacturerAmperage,
		MaxOperatingTemp:     req.MaxOperatingTemp,
		NominalPressure:      req.NominalPressure,
	}
	if err := h.store.DB().Create(&equipment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "equipment already registered for this condominium"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, equipment)
}

// GetEquipmentAnalysis handles GET /api/equipment/{id}/analysis: an
// engineering assessment of the asset generated from its recent logs.
func (h *Handler) GetEquipmentAnalysis(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return
	}

	var equipment model.Equipment
	if err := h.store.DB().First(&equipment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "equipment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var logs []model.MaintenanceLog
	if err := h.store.DB().
		Where("equipment_id = ?", id).
		Order("date DESC").
		Limit(20).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	analysis := h.ai.AnalyzeEquipment(c.Request.Context(), equipment, logs)
	c.JSON(http.StatusOK, gin.H{"equipmentId": id, "analysis": analysis})
}
