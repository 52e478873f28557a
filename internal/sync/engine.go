package sync

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"condo-maintain-backend/internal/model"
	"condo-maintain-backend/internal/remote"
	"condo-maintain-backend/internal/store"
)

// Result is the only thing a caller sees of a reconciliation pass.
// Per-family failures are logged, not surfaced.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ConnectivitySignal reports whether the remote store is reachable.
type ConnectivitySignal interface {
	Online() bool
}

// Engine reconciles the local store against the remote store: a push
// phase uploads pending local rows, then a pull phase materializes
// remote rows that are missing locally. At most one pass runs per
// process; a second caller gets an immediate failure result instead of
// being queued.
type Engine struct {
	local   store.Store
	remote  remote.Store
	signal  ConnectivitySignal
	running atomic.Bool
}

// NewEngine creates a reconciliation engine.
func NewEngine(local store.Store, rem remote.Store, signal ConnectivitySignal) *Engine {
	return &Engine{local: local, remote: rem, signal: signal}
}

// Running reports whether a pass is currently in flight.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run executes one reconciliation pass. Families are pushed in
// dependency order (condominiums, technicians, equipment, logs) so
// downstream remote inserts find their upstream rows; a failure in one
// family is logged and does not abort the others. The pull phase never
// starts before the push phase has finished.
func (e *Engine) Run(ctx context.Context) Result {
	if !e.signal.Online() {
		return Result{Success: false, Message: "sem conexão com a internet"}
	}
	if !e.running.CompareAndSwap(false, true) {
		return Result{Success: false, Message: "já existe uma sincronização em andamento"}
	}
	defer e.running.Store(false)

	log.Println("Starting reconciliation pass...")

	// Phase 1 — push (local -> remote).
	if err := e.pushCondominiums(ctx); err != nil {
		log.Printf("Error pushing condominiums: %v", err)
	}
	if err := e.pushTechnicians(ctx); err != nil {
		log.Printf("Error pushing technicians: %v", err)
	}
	if err := e.pushEquipment(ctx); err != nil {
		log.Printf("Error pushing equipment: %v", err)
	}
	if err := e.pushLogs(ctx); err != nil {
		log.Printf("Error pushing logs: %v", err)
	}

	// Phase 2 — pull (remote -> local). Logs are not pulled: they are
	// write-once-per-device audit artifacts, not shared master data.
	if err := e.pullCondominiums(ctx); err != nil {
		log.Printf("Warning: condominium pull failed: %v", err)
	}
	if err := e.pullTechnicians(ctx); err != nil {
		log.Printf("Warning: technician pull failed: %v", err)
	}
	if err := e.pullEquipment(ctx); err != nil {
		log.Printf("Warning: equipment pull failed: %v", err)
	}

	log.Println("Reconciliation pass finished.")
	return Result{Success: true}
}

// Dedup-keyed families follow the same pattern: for every pending row,
// check the remote store by dedup key, insert only when absent, then
// mark the local row synced either way. When a matching row already
// exists remotely its field values win; the local row is considered
// reconciled without overwriting anything.

func (e *Engine) pushCondominiums(ctx context.Context) error {
	pending, err := e.local.PendingCondominiums(ctx)
	if err != nil {
		return err
	}
	for _, c := range pending {
		existing, err := e.remote.FindCondominiumByName(ctx, c.Name)
		if err != nil {
			return fmt.Errorf("existence check %q: %w", c.Name, err)
		}
		if existing == nil {
			if err := e.remote.InsertCondominiums(ctx, []remote.Condominium{remote.CondominiumWire(c)}); err != nil {
				return err
			}
		}
		if err := e.local.MarkCondominiumSynced(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pushTechnicians(ctx context.Context) error {
	pending, err := e.local.PendingTechnicians(ctx)
	if err != nil {
		return err
	}
	for _, t := range pending {
		existing, err := e.remote.FindTechnicianByCode(ctx, t.Code)
		if err != nil {
			return fmt.Errorf("existence check %q: %w", t.Code, err)
		}
		if existing == nil {
			if err := e.remote.InsertTechnicians(ctx, []remote.Technician{remote.TechnicianWire(t)}); err != nil {
				return err
			}
		}
		if err := e.local.MarkTechnicianSynced(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pushEquipment(ctx context.Context) error {
	pending, err := e.local.PendingEquipment(ctx)
	if err != nil {
		return err
	}
	for _, eq := range pending {
		// The asset identity is scoped to its condominium.
		existing, err := e.remote.FindEquipment(ctx, eq.CondominiumID, eq.Name)
		if err != nil {
			return fmt.Errorf("existence check %q: %w", eq.Name, err)
		}
		if existing == nil {
			if err := e.remote.InsertEquipment(ctx, []remote.Equipment{remote.EquipmentWire(eq)}); err != nil {
				return err
			}
		}
		if err := e.local.MarkEquipmentSynced(ctx, eq.ID); err != nil {
			return err
		}
	}
	return nil
}

// pushLogs delivers pending logs at least once. The insert is idempotent
// on the client ref, so a row left pending by a lost acknowledgment is
// re-pushed on the next pass without producing a duplicate. The row is
// marked synced only after the insert is acknowledged.
func (e *Engine) pushLogs(ctx context.Context) error {
	pending, err := e.local.PendingLogs(ctx)
	if err != nil {
		return err
	}
	for _, l := range pending {
		if err := e.remote.InsertLogs(ctx, []remote.MaintenanceLog{remote.LogWire(l)}); err != nil {
			return fmt.Errorf("insert log %s: %w", l.ClientRef, err)
		}
		if err := e.local.MarkLogSynced(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Pulled rows are inserted with a fresh local identifier and already
// marked synced; remote identifiers never reach the local store.

func (e *Engine) pullCondominiums(ctx context.Context) error {
	rows, err := e.remote.FetchCondominiums(ctx)
	if err != nil {
		return err
	}
	for _, rc := range rows {
		existing, err := e.local.CondominiumByName(ctx, rc.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		c := model.Condominium{Name: rc.Name, Address: rc.Address, Synced: 1}
		if err := e.local.InsertCondominium(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pullTechnicians(ctx context.Context) error {
	rows, err := e.remote.FetchTechnicians(ctx)
	if err != nil {
		return err
	}
	for _, rt := range rows {
		existing, err := e.local.TechnicianByCode(ctx, rt.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		t := model.Technician{Name: rt.Name, Code: rt.Code, Synced: 1}
		if err := e.local.InsertTechnician(ctx, &t); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) pullEquipment(ctx context.Context) error {
	rows, err := e.remote.FetchEquipment(ctx)
	if err != nil {
		return err
	}
	for _, re := range rows {
		existing, err := e.local.EquipmentByIdentity(ctx, re.CondominiumID, re.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		eq := model.Equipment{
			CondominiumID:        re.CondominiumID,
			Name:                 re.Name,
			Type:                 model.EquipmentType(re.Type),
			Location:             re.Location,
			Status:               model.EquipmentStatus(re.Status),
			ManufacturerAmperage: re.ManufacturerAmperage,
			MaxOperatingTemp:     re.MaxOperatingTemp,
			NominalPressure:      re.NominalPressure,
			Synced:               1,
		}
		if err := e.local.InsertEquipment(ctx, &eq); err != nil {
			return err
		}
	}
	return nil
}
