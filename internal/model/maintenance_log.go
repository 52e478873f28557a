package model

import "time"

// MaintenanceLog is the audit record of one inspection or intervention.
// Logs are append-only: they are pushed to the remote store but never
// pulled back, and never hard-deleted by the sync engine.
//
// ClientRef is a client-generated stable identifier assigned at save
// time. The remote table keeps a unique index on it, which makes log
// pushes idempotent even when an acknowledgment is lost.
type MaintenanceLog struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	ClientRef string `gorm:"uniqueIndex;size:36;not null" json:"clientRef"`

	CondominiumID int64            `gorm:"index;not null" json:"condominiumId"`
	EquipmentID   *int64           `gorm:"index" json:"equipmentId,omitempty"`
	TechnicianID  int64            `gorm:"index;not null" json:"technicianId"`
	Date          time.Time        `gorm:"index;not null" json:"date"`
	Type          MaintenanceType  `gorm:"size:64;not null" json:"type"`
	Category      *ServiceCategory `gorm:"size:64" json:"serviceCategory,omitempty"`

	// Inspection readings. All optional: a general log may carry none.
	AmperageL1  *float64 `json:"currentAmperageL1,omitempty"`
	AmperageL2  *float64 `json:"currentAmperageL2,omitempty"`
	AmperageL3  *float64 `json:"currentAmperageL3,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	PressureBar *float64 `json:"pressureBar,omitempty"`

	Observations    string `gorm:"type:text" json:"observations"`
	PhotoBase64     string `gorm:"type:text" json:"photoBase64,omitempty"`
	AnomalyDetected bool   `gorm:"not null" json:"anomalyDetected"`

	Synced    int       `gorm:"index;not null;default:0" json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
