package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"condo-maintain-backend/internal/ai"
	"condo-maintain-backend/internal/maintenance"
	"condo-maintain-backend/internal/report"
	"condo-maintain-backend/internal/store"
	"condo-maintain-backend/internal/sync"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	engine  *sync.Engine
	signal  sync.ConnectivitySignal
	maint   *maintenance.Service
	reports *report.Builder
	ai      *ai.Client
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(
	s store.Store,
	engine *sync.Engine,
	signal sync.ConnectivitySignal,
	maint *maintenance.Service,
	reports *report.Builder,
	aiClient *ai.Client,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		store:   s,
		engine:  engine,
		signal:  signal,
		maint:   maint,
		reports: reports,
		ai:      aiClient,
		webpush: webpushOptions,
	}
}
