package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workix/fieldsync/internal/adapter"
	"github.com/workix/fieldsync/internal/config"
	"github.com/workix/fieldsync/internal/crypto"
	"github.com/workix/fieldsync/internal/logger"
	"github.com/workix/fieldsync/internal/netmon"
	"github.com/workix/fieldsync/internal/store"
	"github.com/workix/fieldsync/models"
)

// switchSource is a hand-operated connectivity source for tests.
type switchSource struct {
	mu        sync.Mutex
	connected bool
	listeners []func(netmon.State)
}

func (s *switchSource) FetchState(context.Context) (netmon.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return netmon.State{Connected: s.connected}, nil
}

func (s *switchSource) Subscribe(listener func(netmon.State)) func() {
	s.mu.Lock()
	s.listeners = append(s.listeners, listener)
	s.mu.Unlock()
	return func() {}
}

func (s *switchSource) flip(connected bool) {
	s.mu.Lock()
	s.connected = connected
	listeners := append([]func(netmon.State){}, s.listeners...)
	s.mu.Unlock()
	for _, l := range listeners {
		l(netmon.State{Connected: connected})
	}
}

// fakeBackend is a chi-based stand-in for the Workix API.
type fakeBackend struct {
	mu        sync.Mutex
	writes    []string // "METHOD path"
	snapshots []models.EntitySnapshot
	rejectAll bool
}

func (b *fakeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/api/sync/{entity}", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		snapshots := b.snapshots
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(snapshots))
	})
	r.HandleFunc("/api/*", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		reject := b.rejectAll
		b.writes = append(b.writes, req.Method+" "+req.URL.Path)
		b.mu.Unlock()
		if reject {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func (b *fakeBackend) writeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.writes)
}

func newEngine(t *testing.T, baseURL string, source netmon.Source) *Engine {
	t.Helper()

	dir := t.TempDir()
	storages, err := store.NewStorages(config.Storage{
		DB:       config.DB{DSN: filepath.Join(dir, "offline.db")},
		StateDir: dir,
	}, logger.Nop())
	require.NoError(t, err)

	secrets, err := crypto.NewFileSecretStore(dir)
	require.NoError(t, err)

	eng, err := New(Dependencies{
		Storages:  storages,
		Secrets:   secrets,
		Transport: adapter.NewHTTPRemoteTransport(adapter.HTTPClientConfig{BaseURL: baseURL, Timeout: 2 * time.Second}),
		Source:    source,
		Sync: config.Sync{
			Interval:      time.Hour, // ticker out of the way, tests drive sync explicitly
			Entities:      []string{"work-orders"},
			PullBatchSize: 50,
		},
		Logger: logger.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

// latestSnapshot tracks the newest telemetry delivery for polling asserts.
type latestSnapshot struct {
	mu   sync.Mutex
	snap models.TelemetrySnapshot
}

func (l *latestSnapshot) set(s models.TelemetrySnapshot) {
	l.mu.Lock()
	l.snap = s
	l.mu.Unlock()
}

func (l *latestSnapshot) get() models.TelemetrySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

func TestEngine_OfflineEnqueueThenReconnectDrains(t *testing.T) {
	backend := &fakeBackend{
		snapshots: []models.EntitySnapshot{
			{ID: "work-orders/7", Payload: json.RawMessage(`{"status":"open"}`), UpdatedAt: time.Now().Truncate(time.Millisecond)},
		},
	}
	srv := backend.server(t)

	source := &switchSource{connected: false}
	eng := newEngine(t, srv.URL, source)
	require.NoError(t, eng.Run(context.Background()))

	var latest latestSnapshot
	defer eng.SubscribeTelemetry(latest.set)()

	// Offline: the write lands in the queue, nothing reaches the backend.
	ctx := context.Background()
	stored, err := eng.EnqueueMutation(ctx, models.MutationRequest{
		Method:  models.MethodUpdate,
		Target:  "work-orders/42",
		Payload: map[string]any{"status": "completed"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Zero(t, backend.writeCount())
	assert.EqualValues(t, 1, latest.get().QueueSize)

	// The technician can still read their own edit offline.
	snapshot, err := eng.GetCachedEntity(ctx, "work-orders/42")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"completed"}`, string(snapshot.Payload))

	// Reconnect: the monitor transition triggers a cycle that drains the
	// queue and pulls fresh snapshots.
	source.flip(true)

	require.Eventually(t, func() bool {
		s := latest.get()
		return s.Status == models.StateIdle && s.QueueSize == 0 && s.LastSync != nil
	}, 5*time.Second, 10*time.Millisecond, "queue never drained after reconnect")

	assert.Equal(t, 1, backend.writeCount())

	pulled, err := eng.GetCachedEntity(ctx, "work-orders/7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"open"}`, string(pulled.Payload))

	status, err := eng.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Remaining)
	require.NotNil(t, status.LastSync)
	assert.WithinDuration(t, time.Now(), *status.LastSync, time.Minute)
}

func TestEngine_OnlineEnqueueSendsDirectly(t *testing.T) {
	backend := &fakeBackend{}
	srv := backend.server(t)

	source := &switchSource{connected: true}
	eng := newEngine(t, srv.URL, source)
	require.NoError(t, eng.Run(context.Background()))

	ctx := context.Background()
	stored, err := eng.EnqueueMutation(ctx, models.MutationRequest{
		Method:  models.MethodCreate,
		Target:  "work-orders",
		Payload: map[string]any{"title": "boiler inspection"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	pending, err := eng.PendingMutations(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "direct send must not leave a queue row")
	assert.GreaterOrEqual(t, backend.writeCount(), 1)
}

func TestEngine_OnlineEnqueueRejectionSurfaces(t *testing.T) {
	backend := &fakeBackend{rejectAll: true}
	srv := backend.server(t)

	source := &switchSource{connected: true}
	eng := newEngine(t, srv.URL, source)
	require.NoError(t, eng.Run(context.Background()))

	ctx := context.Background()
	_, err := eng.EnqueueMutation(ctx, models.MutationRequest{
		Method:  models.MethodCreate,
		Target:  "work-orders",
		Payload: map[string]any{"title": ""},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, adapter.ErrClientRejection)

	pending, err := eng.PendingMutations(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "a permanently rejected mutation is not queued")
}

func TestEngine_ForceSyncNowReportsCycle(t *testing.T) {
	backend := &fakeBackend{
		snapshots: []models.EntitySnapshot{
			{ID: "work-orders/1", Payload: json.RawMessage(`{"status":"open"}`), UpdatedAt: time.Now().Truncate(time.Millisecond)},
			{ID: "work-orders/2", Payload: json.RawMessage(`{"status":"assigned"}`), UpdatedAt: time.Now().Truncate(time.Millisecond)},
		},
	}
	srv := backend.server(t)

	source := &switchSource{connected: true}
	eng := newEngine(t, srv.URL, source)
	// Run deliberately not called: ForceSyncNow must work standalone once the
	// monitor knows the state.
	eng.monitor.Start(context.Background())

	report, err := eng.ForceSyncNow(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.Pulled)
	assert.Zero(t, report.Pushed)
	assert.Zero(t, report.Conflicts)
}

func TestEngine_ClearOfflineData(t *testing.T) {
	backend := &fakeBackend{}
	srv := backend.server(t)

	source := &switchSource{connected: false}
	eng := newEngine(t, srv.URL, source)
	require.NoError(t, eng.Run(context.Background()))

	ctx := context.Background()
	_, err := eng.EnqueueMutation(ctx, models.MutationRequest{
		Method:  models.MethodUpdate,
		Target:  "work-orders/42",
		Payload: map[string]any{"status": "completed"},
	})
	require.NoError(t, err)

	require.NoError(t, eng.ClearOfflineData(ctx))

	pending, err := eng.PendingMutations(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = eng.GetCachedEntity(ctx, "work-orders/42")
	assert.ErrorIs(t, err, store.ErrEntityNotFound)

	status, err := eng.GetSyncStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatus{}, status)
}
