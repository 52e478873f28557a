package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription is attached to the condominiums whose anomaly alerts it
// wants to receive.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Condominiums []*Condominium `gorm:"many2many:subscription_condominium_mapping;"`
}
