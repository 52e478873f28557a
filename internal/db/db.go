package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"condo-maintain-backend/config"
	"condo-maintain-backend/internal/model"
)

// InitLocal opens the embedded SQLite database, runs migrations and
// seeds demo data when the database is empty. Every UI-facing write
// lands here first; the sync engine is the only component that talks to
// the remote store.
func InitLocal(cfg *config.LocalDBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	log.Println("Running local database migrations...")
	if err := db.AutoMigrate(
		&model.Condominium{},
		&model.Technician{},
		&model.Equipment{},
		&model.MaintenanceLog{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if err := Seed(db); err != nil {
		log.Printf("Warning: database seeding failed: %v. Continuing with an empty database.", err)
	}

	log.Println("Local database initialization complete.")
	return db, nil
}

// Seed populates the local database with initial demonstration data.
// Records are created as pending so the first reconciliation pass
// uploads them.
func Seed(db *gorm.DB) error {
	var techCount int64
	if err := db.Model(&model.Technician{}).Count(&techCount).Error; err != nil {
		return err
	}
	if techCount == 0 {
		tech := model.Technician{Name: "Eng. Técnico Resp.", Code: "CFT-99887-SP"}
		if err := db.Create(&tech).Error; err != nil {
			return err
		}
	}

	var condo model.Condominium
	var condoCount int64
	if err := db.Model(&model.Condominium{}).Count(&condoCount).Error; err != nil {
		return err
	}
	if condoCount == 0 {
		condo = model.Condominium{Name: "Residencial Aurora", Address: "Av. Paulista, 1000"}
		if err := db.Create(&condo).Error; err != nil {
			return err
		}
	} else if err := db.First(&condo).Error; err != nil {
		return err
	}

	var equipCount int64
	if err := db.Model(&model.Equipment{}).Count(&equipCount).Error; err != nil {
		return err
	}
	if equipCount == 0 {
		pressure := 4.5
		seedEquipment := []model.Equipment{
			{
				CondominiumID:        condo.ID,
				Name:                 "Bomba Recalque 01",
				Type:                 model.EquipmentPump,
				Status:               model.StatusOperational,
				Location:             "Subsolo -1",
				ManufacturerAmperage: 12.5,
				MaxOperatingTemp:     65,
				NominalPressure:      &pressure,
			},
			{
				CondominiumID:        condo.ID,
				Name:                 "Quadro Comando Geral",
				Type:                 model.EquipmentPanel,
				Status:               model.StatusWarning,
				Location:             "Sala Elétrica Térreo",
				ManufacturerAmperage: 80.0,
				MaxOperatingTemp:     45,
			},
		}
		if err := db.Create(&seedEquipment).Error; err != nil {
			return err
		}
	}

	return nil
}
