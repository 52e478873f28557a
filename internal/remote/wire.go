package remote

import (
	"time"

	"condo-maintain-backend/internal/model"
)

// Wire-format records for the remote store. Storage-only fields of the
// local rows (local identifier, synced flag) are absent by construction:
// a local row is projected into its wire shape before transmission and
// the remote identifier is never carried back into the local store.
//
// The unique indexes below are the dedup keys. They make check-then-insert
// races between devices harmless: a concurrent insert of the same identity
// is rejected by the remote store, and pushes insert with DO NOTHING.

// Condominium is the remote record for a managed property.
type Condominium struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address string `gorm:"size:256" json:"address"`
}

func (Condominium) TableName() string { return "condominiums" }

// Technician is the remote record for a technician.
type Technician struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"uniqueIndex;size:64;not null" json:"code"`
}

func (Technician) TableName() string { return "technicians" }

// Equipment is the remote record for a registered asset.
type Equipment struct {
	ID                   int64    `gorm:"primaryKey" json:"id"`
	CondominiumID        int64    `gorm:"index:idx_remote_equipment_identity,unique;not null" json:"condominiumId"`
	Name                 string   `gorm:"index:idx_remote_equipment_identity,unique;size:128;not null" json:"name"`
	Type                 string   `gorm:"size:64;not null" json:"type"`
	Location             string   `gorm:"size:128" json:"location"`
	Status               string   `gorm:"size:32;not null" json:"status"`
	ManufacturerAmperage float64  `json:"manufacturerAmperage"`
	MaxOperatingTemp     float64  `json:"maxOperatingTemp"`
	NominalPressure      *float64 `json:"nominalPressure,omitempty"`
}

func (Equipment) TableName() string { return "equipment" }

// MaintenanceLog is the remote record for an inspection log. ClientRef
// carries the client-generated identifier that makes inserts idempotent.
type MaintenanceLog struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	ClientRef     string    `gorm:"uniqueIndex;size:36;not null" json:"clientRef"`
	CondominiumID int64     `gorm:"index;not null" json:"condominiumId"`
	EquipmentID   *int64    `json:"equipmentId,omitempty"`
	TechnicianID  int64     `gorm:"not null" json:"technicianId"`
	Date          time.Time `gorm:"not null" json:"date"`
	Type          string    `gorm:"size:64;not null" json:"type"`
	Category      *string   `gorm:"size:64" json:"serviceCategory,omitempty"`

	AmperageL1  *float64 `json:"currentAmperageL1,omitempty"`
	AmperageL2  *float64 `json:"currentAmperageL2,omitempty"`
	AmperageL3  *float64 `json:"currentAmperageL3,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	PressureBar *float64 `json:"pressureBar,omitempty"`

	Observations    string `gorm:"type:text" json:"observations"`
	PhotoBase64     string `gorm:"type:text" json:"photoBase64,omitempty"`
	AnomalyDetected bool   `gorm:"not null" json:"anomalyDetected"`
}

func (MaintenanceLog) TableName() string { return "maintenance_logs" }

// CondominiumWire projects a local condominium to its wire shape.
func CondominiumWire(c model.Condominium) Condominium {
	return Condominium{
		Name:    c.Name,
		Address: c.Address,
	}
}

// TechnicianWire projects a local technician to its wire shape.
func TechnicianWire(t model.Technician) Technician {
	return Technician{
		Name: t.Name,
		Code: t.Code,
	}
}

// EquipmentWire projects a local equipment row to its wire shape.
func EquipmentWire(e model.Equipment) Equipment {
	return Equipment{
		CondominiumID:        e.CondominiumID,
		Name:                 e.Name,
		Type:                 string(e.Type),
		Location:             e.Location,
		Status:               string(e.Status),
		ManufacturerAmperage: e.ManufacturerAmperage,
		MaxOperatingTemp:     e.MaxOperatingTemp,
		NominalPressure:      e.NominalPressure,
	}
}

// LogWire projects a local maintenance log to its wire shape.
func LogWire(l model.MaintenanceLog) MaintenanceLog {
	var category *string
	if l.Category != nil {
		c := string(*l.Category)
		category = &c
	}
	return MaintenanceLog{
		ClientRef:       l.ClientRef,
		CondominiumID:   l.CondominiumID,
		EquipmentID:     l.EquipmentID,
		TechnicianID:    l.TechnicianID,
		Date:            l.Date,
		Type:            string(l.Type),
		Category:        category,
		AmperageL1:      l.AmperageL1,
		AmperageL2:      l.AmperageL2,
		AmperageL3:      l.AmperageL3,
		Temperature:     l.Temperature,
		PressureBar:     l.PressureBar,
		Observations:    l.Observations,
		PhotoBase64:     l.PhotoBase64,
		AnomalyDetected: l.AnomalyDetected,
	}
}
