package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"condo-maintain-backend/config"
	"condo-maintain-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router. Every write
// endpoint mutates the local store only; the sync engine is the single
// component that talks to the remote store.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	limitPerSec := cfg.RateLimitPerSec
	if limitPerSec <= 0 {
		limitPerSec = 10
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = 5
	}
	rateLimiter := mw.RateLimiter(rate.Limit(limitPerSec), burst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/condominiums", caching, h.GetCondominiums)
		api.POST("/condominiums", h.PostCondominium)

		api.GET("/technicians", h.GetTechnicians)
		api.POST("/technicians", h.PostTechnician)

		api.GET("/equipment", caching, h.GetEquipment)
		api.POST("/equipment", h.PostEquipment)
		api.GET("/equipment/:id/analysis", h.GetEquipmentAnalysis)

		api.GET("/logs", h.GetLogs)
		api.POST("/logs", h.PostLog)
		api.PUT("/logs/:id", h.PutLog)

		api.POST("/sync", h.PostSync)
		api.GET("/sync/status", h.GetSyncStatus)

		api.GET("/reports/monthly", h.GetMonthlyReport)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
