package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"condo-maintain-backend/config"
)

// Store is the remote-store collaborator contract: per-family existence
// check by dedup key, batch insert and full fetch, plus the reachability
// probe the connectivity monitor uses. The remote store is the long-term
// source of truth but may lag behind the local one.
type Store interface {
	FindCondominiumByName(ctx context.Context, name string) (*Condominium, error)
	FindTechnicianByCode(ctx context.Context, code string) (*Technician, error)
	FindEquipment(ctx context.Context, condominiumID int64, name string) (*Equipment, error)

	InsertCondominiums(ctx context.Context, rows []Condominium) error
	InsertTechnicians(ctx context.Context, rows []Technician) error
	InsertEquipment(ctx context.Context, rows []Equipment) error
	InsertLogs(ctx context.Context, rows []MaintenanceLog) error

	FetchCondominiums(ctx context.Context) ([]Condominium, error)
	FetchTechnicians(ctx context.Context) ([]Technician, error)
	FetchEquipment(ctx context.Context) ([]Equipment, error)

	Ping(ctx context.Context) error
}

// gormRemote implements the Store interface over GORM/Postgres.
type gormRemote struct {
	db *gorm.DB
}

// Open connects to the remote Postgres store. The automatic ping is
// disabled so the application can start fully offline; reachability is
// the connectivity monitor's concern.
func Open(cfg *config.RemoteDBConfig) (Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	return &gormRemote{db: db}, nil
}

// NewGormStore wraps an existing GORM connection. Used by tests and by
// callers that manage the connection themselves.
func NewGormStore(db *gorm.DB) Store {
	return &gormRemote{db: db}
}

// EnsureMigrated creates the remote tables and their unique indexes.
// Called on online transitions; failures are reported so the caller can
// retry on the next transition.
func (r *gormRemote) EnsureMigrated(ctx context.Context) error {
	log.Println("Running remote database migrations...")
	if err := r.db.WithContext(ctx).AutoMigrate(
		&Condominium{},
		&Technician{},
		&Equipment{},
		&MaintenanceLog{},
	); err != nil {
		return fmt.Errorf("remote automigrate failed: %w", err)
	}
	return nil
}

// Migrator is implemented by remote stores whose schema can be created
// on demand.
type Migrator interface {
	EnsureMigrated(ctx context.Context) error
}

func (r *gormRemote) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *gormRemote) FindCondominiumByName(ctx context.Context, name string) (*Condominium, error) {
	var row Condominium
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remote condominium by name: %w", err)
	}
	return &row, nil
}

func (r *gormRemote) FindTechnicianByCode(ctx context.Context, code string) (*Technician, error) {
	var row Technician
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remote technician by code: %w", err)
	}
	return &row, nil
}

func (r *gormRemote) FindEquipment(ctx context.Context, condominiumID int64, name string) (*Equipment, error) {
	var row Equipment
	err := r.db.WithContext(ctx).Where("condominium_id = ? AND name = ?", condominiumID, name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remote equipment by identity: %w", err)
	}
	return &row, nil
}

// Inserts conflict-check on the dedup identity and do nothing on a hit,
// so a concurrent insert from another device never produces a second row.

func (r *gormRemote) InsertCondominiums(ctx context.Context, rows []Condominium) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("remote insert condominiums: %w", err)
	}
	return nil
}

func (r *gormRemote) InsertTechnicians(ctx context.Context, rows []Technician) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("remote insert technicians: %w", err)
	}
	return nil
}

func (r *gormRemote) InsertEquipment(ctx context.Context, rows []Equipment) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "condominium_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("remote insert equipment: %w", err)
	}
	return nil
}

func (r *gormRemote) InsertLogs(ctx context.Context, rows []MaintenanceLog) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_ref"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return fmt.Errorf("remote insert logs: %w", err)
	}
	return nil
}

func (r *gormRemote) FetchCondominiums(ctx context.Context) ([]Condominium, error) {
	var rows []Condominium
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("remote fetch condominiums: %w", err)
	}
	return rows, nil
}

func (r *gormRemote) FetchTechnicians(ctx context.Context) ([]Technician, error) {
	var rows []Technician
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("remote fetch technicians: %w", err)
	}
	return rows, nil
}

func (r *gormRemote) FetchEquipment(ctx context.Context) ([]Equipment, error) {
	var rows []Equipment
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("remote fetch equipment: %w", err)
	}
	return rows, nil
}
