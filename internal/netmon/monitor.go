// Package netmon wraps the platform's network reachability primitive into
// the simple online/offline view the sync engine consumes.
package netmon

import (
	"context"
	"sync"

	"github.com/workix/fieldsync/internal/logger"
)

// State is one reachability observation.
type State struct {
	Connected bool
}

// Source is the platform reachability primitive. On mobile builds this is
// backed by the OS network-information API; headless deployments use
// [ProbeSource].
type Source interface {
	// FetchState returns the current reachability.
	FetchState(ctx context.Context) (State, error)

	// Subscribe registers a listener for future state reports and returns
	// an unsubscribe handle. Reports are not deduplicated.
	Subscribe(listener func(State)) (unsubscribe func())
}

// Monitor condenses a [Source] into a boolean plus transition
// notifications. Listeners are only invoked when the online flag actually
// flips, so a subscriber sees each offline→online edge exactly once.
type Monitor struct {
	source Source
	logger *logger.Logger

	mu          sync.Mutex
	online      bool
	nextID      int64
	listeners   map[int64]func(online bool)
	unsubscribe func()
}

// NewMonitor constructs a Monitor over the given source. Call Start before
// reading IsOnline.
func NewMonitor(source Source, log *logger.Logger) *Monitor {
	return &Monitor{
		source:    source,
		logger:    log,
		listeners: make(map[int64]func(online bool)),
	}
}

// Start fetches the initial state and subscribes to the source. An initial
// fetch failure is treated as offline rather than an error: reachability is
// exactly what a failed probe demonstrates the absence of.
func (m *Monitor) Start(ctx context.Context) {
	st, err := m.source.FetchState(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("initial connectivity fetch failed, assuming offline")
		st = State{Connected: false}
	}

	m.mu.Lock()
	m.online = st.Connected
	m.unsubscribe = m.source.Subscribe(m.handle)
	m.mu.Unlock()

	m.logger.Info().Bool("online", st.Connected).Msg("connectivity monitor started")
}

// Stop detaches the monitor from its source.
func (m *Monitor) Stop() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// IsOnline reports the last observed reachability.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a listener invoked on every online/offline
// transition. Returns an unsubscribe handle.
func (m *Monitor) Subscribe(listener func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// handle applies one source report, fanning out only on transitions.
func (m *Monitor) handle(st State) {
	m.mu.Lock()
	if st.Connected == m.online {
		m.mu.Unlock()
		return
	}
	m.online = st.Connected

	notify := make([]func(online bool), 0, len(m.listeners))
	for _, l := range m.listeners {
		notify = append(notify, l)
	}
	m.mu.Unlock()

	m.logger.Info().Bool("online", st.Connected).Msg("connectivity transition")
	for _, l := range notify {
		l(st.Connected)
	}
}
