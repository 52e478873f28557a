package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"condo-maintain-backend/internal/model"
	"condo-maintain-backend/internal/remote"
	"condo-maintain-backend/internal/store"
)

// A helper function to create an in-memory local database. Each test
// gets its own database so state never leaks between tests.
func newLocalDB(t *testing.T) *gorm.DB {
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

// fakeSignal is a fixed connectivity answer.
type fakeSignal struct{ online bool }

func (s fakeSignal) Online() bool { return s.online }

// fakeRemote is an in-memory implementation of remote.Store with
// per-family error injection and a call counter. Inserts honor the
// remote dedup indexes: a row whose identity already exists is dropped
// silently, mirroring the DO NOTHING conflict clause.
type fakeRemote struct {
	mu stdsync.Mutex

	condominiums []remote.Condominium
	technicians  []remote.Technician
	equipment    []remote.Equipment
	logs         []remote.MaintenanceLog
	nextID       int64

	findErr   map[string]error
	insertErr map[string]error
	fetchErr  map[string]error

	calls int

	// When set, FindCondominiumByName signals entered and then blocks
	// until gate is closed. Used to hold a sync pass open mid-flight.
	entered chan struct{}
	gate    chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		findErr:   map[string]error{},
		insertErr: map[string]error{},
		fetchErr:  map[string]error{},
	}
}

func (f *fakeRemote) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }

func (f *fakeRemote) FindCondominiumByName(ctx context.Context, name string) (*remote.Condominium, error) {
	f.mu.Lock()
	f.calls++
	err := f.findErr["condominium"]
	var found *remote.Condominium
	for i := range f.condominiums {
		if f.condominiums[i].Name == name {
			row := f.condominiums[i]
			found = &row
		}
	}
	entered, gate := f.entered, f.gate
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (f *fakeRemote) FindTechnicianByCode(ctx context.Context, code string) (*remote.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.findErr["technician"]; err != nil {
		return nil, err
	}
	for i := range f.technicians {
		if f.technicians[i].Code == code {
			row := f.technicians[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) FindEquipment(ctx context.Context, condominiumID int64, name string) (*remote.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.findErr["equipment"]; err != nil {
		return nil, err
	}
	for i := range f.equipment {
		if f.equipment[i].CondominiumID == condominiumID && f.equipment[i].Name == name {
			row := f.equipment[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeRemote) InsertCondominiums(ctx context.Context, rows []remote.Condominium) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.insertErr["condominium"]; err != nil {
		return err
	}
rows:
	for _, r := range rows {
		for i := range f.condominiums {
			if f.condominiums[i].Name == r.Name {
				continue rows
			}
		}
		f.nextID++
		r.ID = f.nextID
		f.condominiums = append(f.condominiums, r)
	}
	return nil
}

func (f *fakeRemote) InsertTechnicians(ctx context.Context, rows []remote.Technician) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.insertErr["technician"]; err != nil {
		return err
	}
rows:
	for _, r := range rows {
		for i := range f.technicians {
			if f.technicians[i].Code == r.Code {
				continue rows
			}
		}
		f.nextID++
		r.ID = f.nextID
		f.technicians = append(f.technicians, r)
	}
	return nil
}

func (f *fakeRemote) InsertEquipment(ctx context.Context, rows []remote.Equipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.insertErr["equipment"]; err != nil {
		return err
	}
rows:
	for _, r := range rows {
		for i := range f.equipment {
			if f.equipment[i].CondominiumID == r.CondominiumID && f.equipment[i].Name == r.Name {
				continue rows
			}
		}
		f.nextID++
		r.ID = f.nextID
		f.equipment = append(f.equipment, r)
	}
	return nil
}

func (f *fakeRemote) InsertLogs(ctx context.Context, rows []remote.MaintenanceLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.insertErr["log"]; err != nil {
		return err
	}
rows:
	for _, r := range rows {
		for i := range f.logs {
			if f.logs[i].ClientRef == r.ClientRef {
				continue rows
			}
		}
		f.nextID++
		r.ID = f.nextID
		f.logs = append(f.logs, r)
	}
	return nil
}

func (f *fakeRemote) FetchCondominiums(ctx context.Context) ([]remote.Condominium, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fetchErr["condominium"]; err != nil {
		return nil, err
	}
	return append([]remote.Condominium(nil), f.condominiums...), nil
}

func (f *fakeRemote) FetchTechnicians(ctx context.Context) ([]remote.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fetchErr["technician"]; err != nil {
		return nil, err
	}
	return append([]remote.Technician(nil), f.technicians...), nil
}

func (f *fakeRemote) FetchEquipment(ctx context.Context) ([]remote.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.fetchErr["equipment"]; err != nil {
		return nil, err
	}
	return append([]remote.Equipment(nil), f.equipment...), nil
}

// seedPendingFamilies inserts one pending row per entity family and
// returns the created rows.
func seedPendingFamilies(t *testing.T, db *gorm.DB) (model.Condominium, model.Technician, model.Equipment, model.MaintenanceLog) {
	condo := model.Condominium{Name: "Residencial Aurora", Address: "Av. Paulista, 1000"}
	require.NoError(t, db.Create(&condo).Error)

	tech := model.Technician{Name: "Eng. Técnico Resp.", Code: "CFT-99887-SP"}
	require.NoError(t, db.Create(&tech).Error)

	eq := model.Equipment{
		CondominiumID:        condo.ID,
		Name:                 "Bomba Recalque 01",
		Type:                 model.EquipmentPump,
		Location:             "Casa de máquinas",
		Status:               model.StatusOperational,
		ManufacturerAmperage: 12.5,
		MaxOperatingTemp:     65,
	}
	require.NoError(t, db.Create(&eq).Error)

	logRow := model.MaintenanceLog{
		ClientRef:     uuid.NewString(),
		CondominiumID: condo.ID,
		EquipmentID:   &eq.ID,
		TechnicianID:  tech.ID,
		Date:          time.Now(),
		Type:          model.MaintenancePreventive,
		Observations:  "Leituras dentro dos limites.",
	}
	require.NoError(t, db.Create(&logRow).Error)

	return condo, tech, eq, logRow
}

func TestEngine_PushThenRepeat(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	condo := model.Condominium{Name: "Residencial Aurora", Address: "Av. Paulista, 1000"}
	require.NoError(t, db.Create(&condo).Error)

	// First pass uploads the pending condominium and clears its flag.
	res := engine.Run(ctx)
	assert.True(t, res.Success)
	assert.Len(t, rem.condominiums, 1)
	assert.Equal(t, "Residencial Aurora", rem.condominiums[0].Name)

	var after model.Condominium
	require.NoError(t, db.First(&after, condo.ID).Error)
	assert.Equal(t, 1, after.Synced)

	// A second pass has nothing to push and must not create a duplicate.
	res = engine.Run(ctx)
	assert.True(t, res.Success)
	assert.Len(t, rem.condominiums, 1)
}

func TestEngine_RetryAfterLostAckDoesNotDuplicate(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	seedPendingFamilies(t, db)

	res := engine.Run(ctx)
	require.True(t, res.Success)
	assert.Len(t, rem.condominiums, 1)
	assert.Len(t, rem.technicians, 1)
	assert.Len(t, rem.equipment, 1)
	assert.Len(t, rem.logs, 1)

	// Simulate a lost acknowledgment: the rows made it to the remote
	// store but the local flag update never happened. The next pass
	// re-pushes every family and each dedup key absorbs the retry.
	for _, entity := range []any{
		&model.Condominium{}, &model.Technician{},
		&model.Equipment{}, &model.MaintenanceLog{},
	} {
		require.NoError(t, db.Model(entity).Where("1 = 1").Update("synced", 0).Error)
	}

	res = engine.Run(ctx)
	require.True(t, res.Success)
	assert.Len(t, rem.condominiums, 1)
	assert.Len(t, rem.technicians, 1)
	assert.Len(t, rem.equipment, 1)
	assert.Len(t, rem.logs, 1)

	counts, err := local.PendingCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts.Total())
}

func TestEngine_ClearsPendingFlags(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	engine := NewEngine(local, newFakeRemote(), fakeSignal{online: true})
	ctx := context.Background()

	condo, tech, eq, logRow := seedPendingFamilies(t, db)

	counts, err := local.PendingCounts(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, counts.Total())

	res := engine.Run(ctx)
	require.True(t, res.Success)

	var c model.Condominium
	require.NoError(t, db.First(&c, condo.ID).Error)
	assert.Equal(t, 1, c.Synced)

	var tr model.Technician
	require.NoError(t, db.First(&tr, tech.ID).Error)
	assert.Equal(t, 1, tr.Synced)

	var e model.Equipment
	require.NoError(t, db.First(&e, eq.ID).Error)
	assert.Equal(t, 1, e.Synced)

	var l model.MaintenanceLog
	require.NoError(t, db.First(&l, logRow.ID).Error)
	assert.Equal(t, 1, l.Synced)
}

func TestEngine_PullMaterializesMissingRows(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	rem.condominiums = []remote.Condominium{{ID: 900, Name: "Condomínio Ipê", Address: "Rua das Flores, 12"}}
	rem.technicians = []remote.Technician{{ID: 901, Name: "João Silva", Code: "CFT-11223-SP"}}
	rem.equipment = []remote.Equipment{{
		ID: 902, CondominiumID: 900, Name: "Exaustor Garagem",
		Type: string(model.EquipmentExhaust), Status: string(model.StatusOperational),
		ManufacturerAmperage: 6, MaxOperatingTemp: 55,
	}}
	rem.logs = []remote.MaintenanceLog{{ID: 903, ClientRef: uuid.NewString(), CondominiumID: 900, TechnicianID: 901, Date: time.Now(), Type: string(model.MaintenanceCorrective)}}

	res := engine.Run(ctx)
	require.True(t, res.Success)

	// Pulled rows arrive already synced, with fresh local identifiers.
	var condo model.Condominium
	require.NoError(t, db.Where("name = ?", "Condomínio Ipê").First(&condo).Error)
	assert.Equal(t, 1, condo.Synced)
	assert.NotEqual(t, int64(900), condo.ID)

	var tech model.Technician
	require.NoError(t, db.Where("code = ?", "CFT-11223-SP").First(&tech).Error)
	assert.Equal(t, 1, tech.Synced)

	var eq model.Equipment
	require.NoError(t, db.Where("name = ?", "Exaustor Garagem").First(&eq).Error)
	assert.Equal(t, 1, eq.Synced)

	// Logs are never pulled.
	var logCount int64
	require.NoError(t, db.Model(&model.MaintenanceLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 0, logCount)

	// Repeated passes must not duplicate, and pulled rows must not be
	// pushed back.
	res = engine.Run(ctx)
	require.True(t, res.Success)

	var condoCount, techCount, eqCount int64
	require.NoError(t, db.Model(&model.Condominium{}).Count(&condoCount).Error)
	require.NoError(t, db.Model(&model.Technician{}).Count(&techCount).Error)
	require.NoError(t, db.Model(&model.Equipment{}).Count(&eqCount).Error)
	assert.EqualValues(t, 1, condoCount)
	assert.EqualValues(t, 1, techCount)
	assert.EqualValues(t, 1, eqCount)
	assert.Len(t, rem.condominiums, 1)
	assert.Len(t, rem.technicians, 1)
	assert.Len(t, rem.equipment, 1)
}

func TestEngine_OfflineShortCircuit(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: false})
	ctx := context.Background()

	seedPendingFamilies(t, db)

	res := engine.Run(ctx)
	assert.False(t, res.Success)
	assert.Equal(t, "sem conexão com a internet", res.Message)

	// Not a single remote operation, and nothing marked synced.
	assert.Equal(t, 0, rem.Calls())
	counts, err := local.PendingCounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, counts.Total())
}

func TestEngine_SecondCallerGetsImmediateFailure(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	condo := model.Condominium{Name: "Residencial Aurora", Address: "Av. Paulista, 1000"}
	require.NoError(t, db.Create(&condo).Error)

	rem.entered = make(chan struct{}, 1)
	rem.gate = make(chan struct{})

	first := make(chan Result, 1)
	go func() { first <- engine.Run(ctx) }()

	// Wait until the first pass is inside the remote call, then try to
	// start a second one.
	select {
	case <-rem.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first pass to reach the remote store")
	}

	assert.True(t, engine.Running())
	second := engine.Run(ctx)
	assert.False(t, second.Success)
	assert.Equal(t, "já existe uma sincronização em andamento", second.Message)

	close(rem.gate)
	select {
	case res := <-first:
		assert.True(t, res.Success)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the first pass to finish")
	}
	assert.False(t, engine.Running())
	assert.Len(t, rem.condominiums, 1)
}

func TestEngine_FamilyFailureDoesNotAbortOthers(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	condo, tech, eq, logRow := seedPendingFamilies(t, db)

	rem.findErr["condominium"] = errors.New("conexão recusada")

	// The pass still reports success: family failures are best-effort
	// and logged, never surfaced.
	res := engine.Run(ctx)
	assert.True(t, res.Success)

	var c model.Condominium
	require.NoError(t, db.First(&c, condo.ID).Error)
	assert.Equal(t, 0, c.Synced, "failed family must keep its rows pending")

	var tr model.Technician
	require.NoError(t, db.First(&tr, tech.ID).Error)
	assert.Equal(t, 1, tr.Synced)

	var e model.Equipment
	require.NoError(t, db.First(&e, eq.ID).Error)
	assert.Equal(t, 1, e.Synced)

	var l model.MaintenanceLog
	require.NoError(t, db.First(&l, logRow.ID).Error)
	assert.Equal(t, 1, l.Synced)

	assert.Len(t, rem.condominiums, 0)
	assert.Len(t, rem.technicians, 1)
	assert.Len(t, rem.equipment, 1)
	assert.Len(t, rem.logs, 1)

	// Once the remote store recovers, the next pass drains the backlog.
	delete(rem.findErr, "condominium")
	res = engine.Run(ctx)
	require.True(t, res.Success)

	require.NoError(t, db.First(&c, condo.ID).Error)
	assert.Equal(t, 1, c.Synced)
	assert.Len(t, rem.condominiums, 1)
}

func TestEngine_LogStaysPendingUntilAcknowledged(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	_, _, _, logRow := seedPendingFamilies(t, db)

	rem.insertErr["log"] = errors.New("timeout")

	res := engine.Run(ctx)
	assert.True(t, res.Success)

	var l model.MaintenanceLog
	require.NoError(t, db.First(&l, logRow.ID).Error)
	assert.Equal(t, 0, l.Synced)
	assert.Len(t, rem.logs, 0)

	delete(rem.insertErr, "log")
	res = engine.Run(ctx)
	require.True(t, res.Success)

	require.NoError(t, db.First(&l, logRow.ID).Error)
	assert.Equal(t, 1, l.Synced)
	require.Len(t, rem.logs, 1)
	assert.Equal(t, logRow.ClientRef, rem.logs[0].ClientRef)
}

func TestEngine_ExistingRemoteRowWins(t *testing.T) {
	db := newLocalDB(t)
	local := store.NewGormStore(db)
	rem := newFakeRemote()
	engine := NewEngine(local, rem, fakeSignal{online: true})
	ctx := context.Background()

	rem.condominiums = []remote.Condominium{{ID: 1, Name: "Residencial Aurora", Address: "endereço remoto"}}

	condo := model.Condominium{Name: "Residencial Aurora", Address: "endereço local divergente"}
	require.NoError(t, db.Create(&condo).Error)

	res := engine.Run(ctx)
	require.True(t, res.Success)

	// The remote row is untouched and the local row is considered
	// reconciled anyway.
	require.Len(t, rem.condominiums, 1)
	assert.Equal(t, "endereço remoto", rem.condominiums[0].Address)

	var after model.Condominium
	require.NoError(t, db.First(&after, condo.ID).Error)
	assert.Equal(t, 1, after.Synced)

	var count int64
	require.NoError(t, db.Model(&model.Condominium{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
