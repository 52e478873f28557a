package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"condo-maintain-backend/internal/model"
)

// Store defines the local-store operations the sync engine depends on:
// pending-row selection, dedup-key lookups, mark-synced updates and
// pull inserts. Handlers reach the underlying connection through DB().
type Store interface {
	DB() *gorm.DB

	PendingCondominiums(ctx context.Context) ([]model.Condominium, error)
	PendingTechnicians(ctx context.Context) ([]model.Technician, error)
	PendingEquipment(ctx context.Context) ([]model.Equipment, error)
	PendingLogs(ctx context.Context) ([]model.MaintenanceLog, error)
	PendingCounts(ctx context.Context) (Counts, error)

	MarkCondominiumSynced(ctx context.Context, id int64) error
	MarkTechnicianSynced(ctx context.Context, id int64) error
	MarkEquipmentSynced(ctx context.Context, id int64) error
	MarkLogSynced(ctx context.Context, id int64) error

	CondominiumByName(ctx context.Context, name string) (*model.Condominium, error)
	TechnicianByCode(ctx context.Context, code string) (*model.Technician, error)
	EquipmentByIdentity(ctx context.Context, condominiumID int64, name string) (*model.Equipment, error)

	InsertCondominium(ctx context.Context, c *model.Condominium) error
	InsertTechnician(ctx context.Context, t *model.Technician) error
	InsertEquipment(ctx context.Context, e *model.Equipment) error
}

// Counts holds the number of pending records per entity family.
type Counts struct {
	Condominiums int64 `json:"condominiums"`
	Technicians  int64 `json:"technicians"`
	Equipment    int64 `json:"equipment"`
	Logs         int64 `json:"logs"`
}

// Total returns the number of pending records across all families.
func (c Counts) Total() int64 {
	return c.Condominiums + c.Technicians + c.Equipment + c.Logs
}

// gormStore implements the Store interface using GORM over SQLite.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed local store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) PendingCondominiums(ctx context.Context) ([]model.Condominium, error) {
	var rows []model.Condominium
	if err := s.db.WithContext(ctx).Where("synced = ?", 0).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select pending condominiums: %w", err)
	}
	return rows, nil
}

func (s *gormStore) PendingTechnicians(ctx context.Context) ([]model.Technician, error) {
	var rows []model.Technician
	if err := s.db.WithContext(ctx).Where("synced = ?", 0).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select pending technicians: %w", err)
	}
	return rows, nil
}

func (s *gormStore) PendingEquipment(ctx context.Context) ([]model.Equipment, error) {
	var rows []model.Equipment
	if err := s.db.WithContext(ctx).Where("synced = ?", 0).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select pending equipment: %w", err)
	}
	return rows, nil
}

func (s *gormStore) PendingLogs(ctx context.Context) ([]model.MaintenanceLog, error) {
	var rows []model.MaintenanceLog
	if err := s.db.WithContext(ctx).Where("synced = ?", 0).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select pending logs: %w", err)
	}
	return rows, nil
}

func (s *gormStore) PendingCounts(ctx context.Context) (Counts, error) {
	var counts Counts
	db := s.db.WithContext(ctx)
	if err := db.Model(&model.Condominium{}).Where("synced = ?", 0).Count(&counts.Condominiums).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&model.Technician{}).Where("synced = ?", 0).Count(&counts.Technicians).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&model.Equipment{}).Where("synced = ?", 0).Count(&counts.Equipment).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&model.MaintenanceLog{}).Where("synced = ?", 0).Count(&counts.Logs).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (s *gormStore) MarkCondominiumSynced(ctx context.Context, id int64) error {
	return s.markSynced(ctx, &model.Condominium{}, id)
}

func (s *gormStore) MarkTechnicianSynced(ctx context.Context, id int64) error {
	return s.markSynced(ctx, &model.Technician{}, id)
}

func (s *gormStore) MarkEquipmentSynced(ctx context.Context, id int64) error {
	return s.markSynced(ctx, &model.Equipment{}, id)
}

func (s *gormStore) MarkLogSynced(ctx context.Context, id int64) error {
	return s.markSynced(ctx, &model.MaintenanceLog{}, id)
}

func (s *gormStore) markSynced(ctx context.Context, entity any, id int64) error {
	if err := s.db.WithContext(ctx).Model(entity).Where("id = ?", id).Update("synced", 1).Error; err != nil {
		return fmt.Errorf("mark synced id=%d: %w", id, err)
	}
	return nil
}

func (s *gormStore) CondominiumByName(ctx context.Context, name string) (*model.Condominium, error) {
	var row model.Condominium
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("condominium by name: %w", err)
	}
	return &row, nil
}

func (s *gormStore) TechnicianByCode(ctx context.Context, code string) (*model.Technician, error) {
	var row model.Technician
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("technician by code: %w", err)
	}
	return &row, nil
}

func (s *gormStore) EquipmentByIdentity(ctx context.Context, condominiumID int64, name string) (*model.Equipment, error) {
	var row model.Equipment
	err := s.db.WithContext(ctx).Where("condominium_id = ? AND name = ?", condominiumID, name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("equipment by identity: %w", err)
	}
	return &row, nil
}

// Pull inserts. The caller zeroes the ID so the local store assigns a
// fresh identifier; remote identifiers are never persisted locally.

func (s *gormStore) InsertCondominium(ctx context.Context, c *model.Condominium) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert condominium %q: %w", c.Name, err)
	}
	return nil
}

func (s *gormStore) InsertTechnician(ctx context.Context, t *model.Technician) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("insert technician %q: %w", t.Code, err)
	}
	return nil
}

func (s *gormStore) InsertEquipment(ctx context.Context, e *model.Equipment) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert equipment %q: %w", e.Name, err)
	}
	return nil
}
