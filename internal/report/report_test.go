package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"condo-maintain-backend/internal/model"
	"condo-maintain-backend/internal/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Condominium{},
		&model.Technician{},
		&model.Equipment{},
		&model.MaintenanceLog{},
	)
	require.NoError(t, err)
	return db
}

func TestBuilder_Monthly(t *testing.T) {
	db := newTestDB(t)
	b := NewBuilder(store.NewGormStore(db), nil)
	ctx := context.Background()

	condo := model.Condominium{Name: "Residencial Aurora", Synced: 1}
	require.NoError(t, db.Create(&condo).Error)
	other := model.Condominium{Name: "Condomínio Ipê", Synced: 1}
	require.NoError(t, db.Create(&other).Error)

	tech := model.Technician{Name: "Eng. Técnico Resp.", Code: "CFT-99887-SP", Synced: 1}
	require.NoError(t, db.Create(&tech).Error)

	eq := model.Equipment{
		CondominiumID: condo.ID, Name: "Bomba Recalque 01",
		Type: model.EquipmentPump, Status: model.StatusOperational, Synced: 1,
	}
	require.NoError(t, db.Create(&eq).Error)

	category := model.ServiceHydraulic
	august := func(day int) time.Time {
		return time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC)
	}
	logs := []model.MaintenanceLog{
		{ClientRef: uuid.NewString(), CondominiumID: condo.ID, EquipmentID: &eq.ID, TechnicianID: tech.ID,
			Date: august(5), Type: model.MaintenancePreventive, Observations: "Rotina mensal.", Synced: 1},
		{ClientRef: uuid.NewString(), CondominiumID: condo.ID, EquipmentID: &eq.ID, TechnicianID: tech.ID,
			Date: august(18), Type: model.MaintenanceCorrective, AnomalyDetected: true},
		{ClientRef: uuid.NewString(), CondominiumID: condo.ID, TechnicianID: tech.ID, Category: &category,
			Date: august(20), Type: model.MaintenanceInspection},
		// Outside the month.
		{ClientRef: uuid.NewString(), CondominiumID: condo.ID, EquipmentID: &eq.ID, TechnicianID: tech.ID,
			Date: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), Type: model.MaintenancePreventive},
		// Other condominium, same month.
		{ClientRef: uuid.NewString(), CondominiumID: other.ID, TechnicianID: tech.ID,
			Date: august(12), Type: model.MaintenancePreventive},
	}
	for i := range logs {
		require.NoError(t, db.Create(&logs[i]).Error)
	}

	rep, err := b.Monthly(ctx, condo.ID, "2026-08")
	require.NoError(t, err)

	assert.Equal(t, "Residencial Aurora", rep.Condominium)
	assert.Equal(t, 3, rep.TotalLogs)
	assert.Equal(t, 1, rep.AnomalyCount)
	assert.EqualValues(t, 2, rep.PendingUpload)
	assert.Equal(t, 1, rep.ByType[model.MaintenancePreventive])
	assert.Equal(t, 1, rep.ByType[model.MaintenanceCorrective])
	assert.Equal(t, 1, rep.ByType[model.MaintenanceInspection])
	assert.Empty(t, rep.Summary, "no AI client configured")

	// Activities are ordered by date and carry the resolved subject.
	require.Len(t, rep.Activities, 3)
	assert.Equal(t, "Bomba Recalque 01", rep.Activities[0].Subject)
	assert.True(t, rep.Activities[1].AnomalyDetected)
	assert.Equal(t, "Hidráulica", rep.Activities[2].Subject)
}

func TestBuilder_Monthly_InvalidMonth(t *testing.T) {
	db := newTestDB(t)
	b := NewBuilder(store.NewGormStore(db), nil)

	_, err := b.Monthly(context.Background(), 1, "agosto")
	assert.Error(t, err)
}

func TestBuilder_Monthly_UnknownCondominium(t *testing.T) {
	db := newTestDB(t)
	b := NewBuilder(store.NewGormStore(db), nil)

	_, err := b.Monthly(context.Background(), 999, "2026-08")
	assert.Error(t, err)
}
