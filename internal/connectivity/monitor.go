package connectivity

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Prober checks whether the remote store is reachable. The remote store
// itself satisfies this with its Ping method.
type Prober interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 5 * time.Second

// Monitor tracks the online/offline state of the remote store and
// notifies subscribers on transitions. The sync engine only reads the
// current state; the hosting application subscribes and triggers a
// reconciliation pass when the state flips to online.
type Monitor struct {
	prober   Prober
	interval time.Duration
	online   atomic.Bool

	mu   sync.Mutex
	subs []func(online bool)
}

// NewMonitor creates a monitor probing at the given interval.
func NewMonitor(p Prober, interval time.Duration) *Monitor {
	return &Monitor{prober: p, interval: interval}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Subscribe registers a callback fired on every online/offline
// transition. Callbacks run on the monitor's goroutine and should not
// block.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Check probes once, updates the state and fires subscribers when the
// state changed. It returns the new state.
func (m *Monitor) Check(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	online := m.prober.Ping(probeCtx) == nil
	was := m.online.Swap(online)
	if was != online {
		if online {
			log.Println("Connectivity restored; remote store is reachable.")
		} else {
			log.Println("Connectivity lost; operating offline.")
		}
		m.mu.Lock()
		subs := make([]func(bool), len(m.subs))
		copy(subs, m.subs)
		m.mu.Unlock()
		for _, fn := range subs {
			fn(online)
		}
	}
	return online
}

// Run probes immediately and then on every interval tick until the
// context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	log.Println("Starting connectivity monitor...")
	m.Check(ctx)

	timer := time.NewTimer(m.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Connectivity monitor shutting down.")
			return
		case <-timer.C:
			m.Check(ctx)
			timer.Reset(m.interval)
		}
	}
}
