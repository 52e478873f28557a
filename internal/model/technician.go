package model

import "time"

// Technician represents a building-services technician. The registry
// code is the identity used to reconcile against the remote store.
type Technician struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
	Code string `gorm:"uniqueIndex;size:64;not null" json:"code"`

	Synced    int       `gorm:"index;not null;default:0" json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
