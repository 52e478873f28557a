package model

import "time"

// Condominium represents a managed property. The name is the identity
// used to reconcile against the remote store.
type Condominium struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address string `gorm:"size:256" json:"address"`

	// 0 = pending upload, 1 = confirmed present remotely.
	Synced    int       `gorm:"index;not null;default:0" json:"synced"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	Equipment []Equipment `gorm:"foreignKey:CondominiumID" json:"-"`
}
