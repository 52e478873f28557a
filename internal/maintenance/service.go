package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
	"condo-maintain-backend/internal/store"
)

// Amperage readings above this fraction of the manufacturer rating are
// flagged as anomalous.
const amperageTolerance = 1.1

// Equipment without a configured max operating temperature falls back
// to this limit, in °C.
const defaultMaxTemp = 60.0

// AlertDispatcher receives the equipment id of an anomalous reading.
type AlertDispatcher interface {
	Dispatch(equipmentID int64)
}

// Service implements the maintenance-log save workflow: threshold-based
// anomaly detection, the derived equipment status mutation and the
// optimistic local write. Saved logs are always pending (synced=0); the
// sync engine uploads them later.
type Service struct {
	store  store.Store
	alerts AlertDispatcher
}

// NewService creates the save workflow. alerts may be nil when push
// notifications are not configured.
func NewService(s store.Store, alerts AlertDispatcher) *Service {
	return &Service{store: s, alerts: alerts}
}

// LogInput carries the form fields of one inspection log.
type LogInput struct {
	CondominiumID int64                  `json:"condominiumId" binding:"required"`
	EquipmentID   *int64                 `json:"equipmentId"`
	Category      *model.ServiceCategory `json:"serviceCategory"`
	TechnicianID  int64                  `json:"technicianId" binding:"required"`
	Date          time.Time              `json:"date" binding:"required"`
	Type          model.MaintenanceType  `json:"type" binding:"required"`
	AmperageL1    *float64               `json:"currentAmperageL1"`
	AmperageL2    *float64               `json:"currentAmperageL2"`
	AmperageL3    *float64               `json:"currentAmperageL3"`
	Temperature   *float64               `json:"temperature"`
	PressureBar   *float64               `json:"pressureBar"`
	Observations  string                 `json:"observations"`
	PhotoBase64   string                 `json:"photoBase64"`
}

// SaveLog persists a new maintenance log. For asset logs the readings
// are compared against the equipment thresholds and the equipment
// status is flipped to Crítico or back to Operacional; the status
// mutation never touches the equipment's synced flag. An anomaly
// dispatches a push alert after the transaction commits.
func (s *Service) SaveLog(ctx context.Context, in LogInput) (*model.MaintenanceLog, error) {
	anomaly := false

	logRow := model.MaintenanceLog{
		ClientRef:     uuid.NewString(),
		CondominiumID: in.CondominiumID,
		EquipmentID:   in.EquipmentID,
		TechnicianID:  in.TechnicianID,
		Date:          in.Date,
		Type:          in.Type,
		Category:      in.Category,
		AmperageL1:    in.AmperageL1,
		AmperageL2:    in.AmperageL2,
		AmperageL3:    in.AmperageL3,
		Temperature:   in.Temperature,
		PressureBar:   in.PressureBar,
		Observations:  in.Observations,
		PhotoBase64:   in.PhotoBase64,
	}

	err := s.store.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.EquipmentID != nil {
			var eq model.Equipment
			if err := tx.First(&eq, *in.EquipmentID).Error; err != nil {
				return fmt.Errorf("load equipment %d: %w", *in.EquipmentID, err)
			}
			if eq.CondominiumID != in.CondominiumID {
				return fmt.Errorf("equipment %d does not belong to condominium %d", eq.ID, in.CondominiumID)
			}

			anomaly = detectAnomaly(eq, in)
			newStatus := model.StatusOperational
			if anomaly {
				newStatus = model.StatusCritical
			}
			if err := tx.Model(&eq).Updates(map[string]any{
				"status":                newStatus,
				"last_maintenance_date": in.Date,
			}).Error; err != nil {
				return fmt.Errorf("update equipment status: %w", err)
			}
		} else if logRow.Category == nil {
			// General logs without a category land in "Outros".
			other := model.ServiceOther
			logRow.Category = &other
		}

		logRow.AnomalyDetected = anomaly
		if err := tx.Create(&logRow).Error; err != nil {
			return fmt.Errorf("save log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if anomaly && s.alerts != nil && in.EquipmentID != nil {
		s.alerts.Dispatch(*in.EquipmentID)
	}
	return &logRow, nil
}

// UpdateLog rewrites the fields of an existing log. The client ref is
// preserved and the synced flag is left untouched: the model has no
// dirty-after-sync state, so editing an already-uploaded log changes it
// locally only.
func (s *Service) UpdateLog(ctx context.Context, id int64, in LogInput) (*model.MaintenanceLog, error) {
	var existing model.MaintenanceLog
	if err := s.store.DB().WithContext(ctx).First(&existing, id).Error; err != nil {
		return nil, fmt.Errorf("load log %d: %w", id, err)
	}

	existing.CondominiumID = in.CondominiumID
	existing.EquipmentID = in.EquipmentID
	existing.Category = in.Category
	existing.TechnicianID = in.TechnicianID
	existing.Date = in.Date
	existing.Type = in.Type
	existing.AmperageL1 = in.AmperageL1
	existing.AmperageL2 = in.AmperageL2
	existing.AmperageL3 = in.AmperageL3
	existing.Temperature = in.Temperature
	existing.PressureBar = in.PressureBar
	existing.Observations = in.Observations
	existing.PhotoBase64 = in.PhotoBase64

	if err := s.store.DB().WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update log %d: %w", id, err)
	}
	return &existing, nil
}

// detectAnomaly applies the threshold comparison of the save path:
// any phase amperage above 110% of the manufacturer rating, or a
// temperature above the equipment limit, flags the reading.
func detectAnomaly(eq model.Equipment, in LogInput) bool {
	maxAmp := eq.ManufacturerAmperage * amperageTolerance
	for _, amp := range []*float64{in.AmperageL1, in.AmperageL2, in.AmperageL3} {
		if amp != nil && *amp > maxAmp {
			return true
		}
	}

	maxTemp := eq.MaxOperatingTemp
	if maxTemp == 0 {
		maxTemp = defaultMaxTemp
	}
	return in.Temperature != nil && *in.Temperature > maxTemp
}
