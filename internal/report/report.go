package report

import (
	"context"
	"fmt"
	"time"

	"condo-maintain-backend/internal/ai"
	"condo-maintain-backend/internal/model"
	"condo-maintain-backend/internal/store"
)

// Activity is one line of a monthly compliance report.
type Activity struct {
	Date            time.Time             `json:"date"`
	Type            model.MaintenanceType `json:"type"`
	Subject         string                `json:"subject"`
	Observations    string                `json:"observations"`
	AnomalyDetected bool                  `json:"anomalyDetected"`
}

// MonthlyReport summarizes one condominium's maintenance activity for
// one calendar month.
type MonthlyReport struct {
	Month         string                        `json:"month"`
	CondominiumID int64                         `json:"condominiumId"`
	Condominium   string                        `json:"condominium"`
	TotalLogs     int                           `json:"totalLogs"`
	ByType        map[model.MaintenanceType]int `json:"byType"`
	AnomalyCount  int                           `json:"anomalyCount"`
	PendingUpload int64                         `json:"pendingUpload"`
	Activities    []Activity                    `json:"activities"`
	Summary       string                        `json:"summary,omitempty"`
}

// Builder assembles monthly reports from the local store, optionally
// attaching an AI executive summary.
type Builder struct {
	store store.Store
	ai    *ai.Client
}

// NewBuilder creates a report builder. ai may be nil.
func NewBuilder(s store.Store, aiClient *ai.Client) *Builder {
	return &Builder{store: s, ai: aiClient}
}

// Monthly builds the report for the given condominium and month
// ("2006-01"). Reports are always built from the local store, so they
// work offline; pending rows are counted so the reader knows how much
// of the month is not yet uploaded.
func (b *Builder) Monthly(ctx context.Context, condominiumID int64, month string) (*MonthlyReport, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", month, err)
	}
	end := start.AddDate(0, 1, 0)

	db := b.store.DB().WithContext(ctx)

	var condo model.Condominium
	if err := db.First(&condo, condominiumID).Error; err != nil {
		return nil, fmt.Errorf("load condominium %d: %w", condominiumID, err)
	}

	var logs []model.MaintenanceLog
	if err := db.
		Where("condominium_id = ? AND date >= ? AND date < ?", condominiumID, start, end).
		Order("date ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("load logs for %s: %w", month, err)
	}

	var equipment []model.Equipment
	if err := db.Where("condominium_id = ?", condominiumID).Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	equipmentByID := make(map[int64]model.Equipment, len(equipment))
	for _, eq := range equipment {
		equipmentByID[eq.ID] = eq
	}

	var pending int64
	if err := db.Model(&model.MaintenanceLog{}).
		Where("condominium_id = ? AND synced = ? AND date >= ? AND date < ?", condominiumID, 0, start, end).
		Count(&pending).Error; err != nil {
		return nil, fmt.Errorf("count pending logs: %w", err)
	}

	rep := &MonthlyReport{
		Month:         month,
		CondominiumID: condominiumID,
		Condominium:   condo.Name,
		TotalLogs:     len(logs),
		ByType:        make(map[model.MaintenanceType]int),
		PendingUpload: pending,
		Activities:    make([]Activity, 0, len(logs)),
	}

	for _, l := range logs {
		rep.ByType[l.Type]++
		if l.AnomalyDetected {
			rep.AnomalyCount++
		}

		subject := ""
		if l.EquipmentID != nil {
			if eq, ok := equipmentByID[*l.EquipmentID]; ok {
				subject = eq.Name
			}
		}
		if subject == "" && l.Category != nil {
			subject = string(*l.Category)
		}

		rep.Activities = append(rep.Activities, Activity{
			Date:            l.Date,
			Type:            l.Type,
			Subject:         subject,
			Observations:    l.Observations,
			AnomalyDetected: l.AnomalyDetected,
		})
	}

	if b.ai != nil && len(logs) > 0 {
		rep.Summary = b.ai.MonthlySummary(ctx, month, equipment, logs)
	}

	return rep, nil
}
