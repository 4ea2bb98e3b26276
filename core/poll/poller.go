package poll

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/bosvote/core"
)

// Poller re-fetches live results for the selected poll on a fixed
// interval until the poll is deselected. Transient failures never stop
// the loop: a stale-but-visible dashboard beats a halted one. Only
// deselection (or Stop) cancels the timer, and switching polls always
// cancels the previous timer before arming the next so two timers can
// never target different polls at once.
type Poller struct {
	svc      *Service
	logger   core.Logger
	interval time.Duration

	// onSnapshot/onError fire outside the poller lock, in the fetch
	// goroutine. They must not call back into the Poller synchronously.
	onSnapshot func(LiveResultSnapshot)
	onError    func(error)

	mu       sync.Mutex
	gen      uint64 // bumped on every Select/Deselect; stale fetches are dropped
	state    State
	pollID   string
	snapshot *LiveResultSnapshot
	lastErr  error
	cancel   context.CancelFunc
	refresh  chan struct{}
}

type State int32

const (
	StateIdle State = iota
	StateFetching
	StateDisplaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	}
	return "unknown"
}

type PollerOptions struct {
	// Interval between re-fetches; defaults to 5s.
	Interval   time.Duration
	OnSnapshot func(LiveResultSnapshot)
	OnError    func(error)
}

func NewPoller(svc *Service, logger core.Logger, opts PollerOptions) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	return &Poller{
		svc:        svc,
		logger:     logger,
		interval:   opts.Interval,
		onSnapshot: opts.OnSnapshot,
		onError:    opts.OnError,
	}
}

// Select starts watching a poll: an immediate fetch, then one every
// interval. Any previously armed timer is cancelled first.
func (p *Poller) Select(pollID string) {
	p.stopLoop()

	ctx, cancel := context.WithCancel(context.Background())
	refresh := make(chan struct{}, 1)

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.pollID = pollID
	p.state = StateFetching
	p.snapshot = nil
	p.lastErr = nil
	p.cancel = cancel
	p.refresh = refresh
	p.mu.Unlock()

	go p.loop(ctx, gen, pollID, refresh)
}

// Deselect returns the poller to idle and cancels the recurring fetch.
// Mandatory on every exit path; a leaked timer keeps hitting the backend
// for a poll nobody is looking at.
func (p *Poller) Deselect() {
	p.stopLoop()

	p.mu.Lock()
	p.gen++
	p.pollID = ""
	p.state = StateIdle
	p.snapshot = nil
	p.lastErr = nil
	p.mu.Unlock()
}

// Stop is Deselect, for teardown call sites.
func (p *Poller) Stop() { p.Deselect() }

// Refresh requests an immediate re-fetch, exactly like a timer tick.
// The interval timer is not reset and no second timer is armed.
func (p *Poller) Refresh() {
	p.mu.Lock()
	refresh := p.refresh
	p.mu.Unlock()
	if refresh == nil {
		return
	}
	select {
	case refresh <- struct{}{}:
	default: // one is already queued
	}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) PollID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pollID
}

// Snapshot returns the last successful snapshot, if any. It remains
// available in the error state so the prior view can stay on screen
// next to the error banner.
func (p *Poller) Snapshot() (LiveResultSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return LiveResultSnapshot{}, false
	}
	return *p.snapshot, true
}

func (p *Poller) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// stopLoop cancels the running loop's timer. It happens before a new
// loop is armed (cancel-then-arm), so two timers can never target
// different polls: the cancelled loop exits at its next scheduling
// point and anything it still had in flight is discarded by generation.
func (p *Poller) stopLoop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel, p.refresh = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (p *Poller) loop(ctx context.Context, gen uint64, pollID string, refresh <-chan struct{}) {
	p.fetch(ctx, gen, pollID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, gen, pollID)
		case <-refresh:
			p.fetch(ctx, gen, pollID)
		}
	}
}

func (p *Poller) fetch(ctx context.Context, gen uint64, pollID string) {
	if ctx.Err() != nil {
		return
	}

	snap, err := p.svc.LiveResults(ctx, pollID)

	p.mu.Lock()
	if gen != p.gen || ctx.Err() != nil {
		// the poll was deselected (or replaced) while this fetch was in
		// flight; its result must not bleed into the new selection
		p.mu.Unlock()
		return
	}
	if err != nil {
		err = classifyFetchError(err)
		p.state = StateError
		p.lastErr = err
		// prior snapshot (if any) stays displayed alongside the banner
		p.mu.Unlock()

		p.logger.Warn("poll: live results fetch failed", err, map[string]interface{}{"poll_id": pollID})
		if p.onError != nil {
			p.onError(err)
		}
		return
	}

	// replace wholesale, never merge fields across fetch cycles
	p.state = StateDisplaying
	p.snapshot = &snap
	p.lastErr = nil
	p.mu.Unlock()

	if p.onSnapshot != nil {
		p.onSnapshot(snap)
	}
}

func classifyFetchError(err error) error {
	switch {
	case core.IsNotFound(err):
		return errors.Wrap(err, "poll not found")
	case core.IsForbidden(err):
		return errors.Wrap(err, "access denied")
	default:
		// keep the server's message when there is one
		return errors.Wrap(err, "failed to fetch live results")
	}
}
