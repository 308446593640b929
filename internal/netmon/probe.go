package netmon

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/workix/fieldsync/internal/logger"
)

// ProbeSource is the agent's reachability primitive: it periodically probes
// the backend health endpoint and reports the result to subscribers. It
// implements [Source] and the workers.Worker contract (Run spawns the poll
// loop).
type ProbeSource struct {
	client   *resty.Client
	interval time.Duration
	logger   *logger.Logger

	mu        sync.Mutex
	nextID    int64
	listeners map[int64]func(State)
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewProbeSource constructs a probe against baseURL's /api/health endpoint,
// polling every interval.
func NewProbeSource(baseURL string, interval, timeout time.Duration, log *logger.Logger) *ProbeSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &ProbeSource{
		client:    cli,
		interval:  interval,
		logger:    log,
		listeners: make(map[int64]func(State)),
	}
}

// FetchState implements [Source]. The backend is considered reachable when
// the health endpoint answers at all with a non-5xx status.
func (p *ProbeSource) FetchState(ctx context.Context) (State, error) {
	resp, err := p.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return State{Connected: false}, nil //nolint:nilerr // unreachable is a state, not a failure
	}
	return State{Connected: resp.StatusCode() < http.StatusInternalServerError}, nil
}

// Subscribe implements [Source].
func (p *ProbeSource) Subscribe(listener func(State)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Run starts the poll loop in a background goroutine.
func (p *ProbeSource) Run() {
	p.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Info().Dur("interval", p.interval).Msg("connectivity probe started")

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st, _ := p.FetchState(ctx)
				p.publish(st)
			}
		}
	}()
}

// Stop cancels the poll loop and waits for it to exit. Safe to call when
// the probe is not running.
func (p *ProbeSource) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *ProbeSource) publish(st State) {
	p.mu.Lock()
	notify := make([]func(State), 0, len(p.listeners))
	for _, l := range p.listeners {
		notify = append(notify, l)
	}
	p.mu.Unlock()

	for _, l := range notify {
		l(st)
	}
}
