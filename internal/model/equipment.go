package model

import "time"

// Equipment represents a registered asset belonging to one condominium.
// Its identity for reconciliation is the (condominium, name) pair, so
// two condominiums may each own a "Bomba Recalque 01".
type Equipment struct {
	ID            int64           `gorm:"primaryKey" json:"id"`
	CondominiumID int64           `gorm:"index:idx_equipment_identity,unique;not null" json:"condominiumId"`
	Name          string          `gorm:"index:idx_equipment_identity,unique;size:128;not null" json:"name"`
	Type          EquipmentType   `gorm:"size:64;not null" json:"type"`
	Location      string          `gorm:"size:128" json:"location"`
	Status        EquipmentStatus `gorm:"size:32;not null" json:"status"`

	// Manufacturer thresholds used by the anomaly detection on the
	// maintenance-log save path.
	ManufacturerAmperage float64  `json:"manufacturerAmperage"`
	MaxOperatingTemp     float64  `json:"maxOperatingTemp"`
	NominalPressure      *float64 `json:"nominalPressure,omitempty"`

	LastMaintenanceDate *time.Time `json:"lastMaintenanceDate,omitempty"`

	Synced    int       `gorm:"index;not null;default:0" json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Condominium Condominium `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
