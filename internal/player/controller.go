package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// ErrStopped is returned by Do once the controller loop has exited.
var ErrStopped = errors.New("player stopped")

// maxPending caps the snapshots queued for a slow reader.
const maxPending = 32

// Option configures the controller.
type Option func(*Controller)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Controller) {
		p.clock = c
	}
}

// WithTickInterval sets the real time between simulated seconds.
func WithTickInterval(d time.Duration) Option {
	return func(p *Controller) {
		p.interval = d
	}
}

// Snapshot is what the controller publishes after every change.
type Snapshot struct {
	State
	Step        domain.BrewStep // zero once completed
	CanPlay     bool
	CanPrevious bool
	CanNext     bool
}

type request struct {
	cmd   domain.CommandType
	reply chan Snapshot
}

// Controller is the single owner of a Simulator and its ticker. Commands
// go in through Do; snapshots come out on Updates. At most one ticker is
// alive at any time, and every (re)start stops the previous one first.
// A controller runs once: Start after Stop does nothing.
type Controller struct {
	sim      *Simulator
	clock    Clock
	interval time.Duration
	log      *logger.Logger

	reqs    chan request
	updates chan Snapshot
	done    chan struct{}

	mu      sync.Mutex
	started bool
	running bool
	cancel  context.CancelFunc
}

// NewController creates a controller for steps. Call Start to run it.
func NewController(steps []domain.BrewStep, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		sim:      NewSimulator(steps),
		clock:    SystemClock(),
		interval: time.Second,
		log:      log,
		reqs:     make(chan request),
		updates:  make(chan Snapshot),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Steps returns the step list being played.
func (c *Controller) Steps() []domain.BrewStep { return c.sim.Steps() }

// Updates delivers a snapshot after every state change, in order. The
// channel is closed when the controller stops. When the reader falls
// behind, queued snapshots that differ from their predecessor only in
// elapsed time are merged away; step and status changes are always
// delivered.
func (c *Controller) Updates() <-chan Snapshot { return c.updates }

// Done is closed when the controller loop exits.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start begins the controller loop. Non-blocking.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		c.log.Warn("player already started")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.started, c.running = true, true

	go c.loop(childCtx)

	c.log.Info("player started (steps=%d, tick=%s)", len(c.sim.Steps()), c.interval)
}

// Stop shuts the loop down and stops any running ticker.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.cancel()
	c.running = false
	c.mu.Unlock()

	<-c.done
	c.log.Info("player stopped")
}

// Do sends a command and returns the snapshot after it was applied.
// CommandStatus returns the current snapshot without changing anything.
func (c *Controller) Do(ctx context.Context, cmd domain.CommandType) (Snapshot, error) {
	req := request{cmd: cmd, reply: make(chan Snapshot, 1)}
	select {
	case c.reqs <- req:
	case <-c.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-req.reply:
		return snap, nil
	case <-c.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (c *Controller) loop(ctx context.Context) {
	var (
		ticker  Ticker
		tick    <-chan time.Time
		pending []Snapshot
		sent    *Snapshot
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	startTicker := func() {
		stopTicker()
		ticker = c.clock.NewTicker(c.interval)
		tick = ticker.C()
	}
	// reconcile makes the ticker match the simulator: none unless playing,
	// and a fresh one whenever the step changed.
	reconcile := func(stepChanged bool) {
		switch {
		case !c.sim.State().Playing():
			stopTicker()
		case ticker == nil || stepChanged:
			startTicker()
		}
	}

	defer func() {
		stopTicker()
		close(c.updates)
		close(c.done)
	}()

	publish := func() {
		pending = c.enqueue(pending, sent, c.snapshot())
	}

	publish()

	for {
		var (
			out  chan Snapshot
			head Snapshot
		)
		if len(pending) > 0 {
			out, head = c.updates, pending[0]
		}

		select {
		case <-ctx.Done():
			return

		case out <- head:
			sent = &head
			pending = pending[1:]

		case req := <-c.reqs:
			before := c.sim.State()
			if c.apply(req.cmd) {
				reconcile(c.sim.State().StepIndex != before.StepIndex)
				publish()
			}
			req.reply <- c.snapshot()

		case <-tick:
			advanced := c.sim.Tick()
			reconcile(advanced)
			if advanced {
				c.log.Debug("auto-advanced: %s", c.sim.State())
			}
			publish()
		}
	}
}

func (c *Controller) apply(cmd domain.CommandType) bool {
	switch cmd {
	case domain.CommandPlay:
		return c.sim.Play()
	case domain.CommandPause:
		return c.sim.Pause()
	case domain.CommandToggle:
		return c.sim.Toggle()
	case domain.CommandNext:
		return c.sim.Next()
	case domain.CommandPrevious:
		return c.sim.Previous()
	default:
		return false
	}
}

func (c *Controller) snapshot() Snapshot {
	step, _ := c.sim.Current()
	return Snapshot{
		State:       c.sim.State(),
		Step:        step,
		CanPlay:     c.sim.CanPlay(),
		CanPrevious: c.sim.CanPrevious(),
		CanNext:     c.sim.CanNext(),
	}
}

// enqueue appends snap to pending. Past maxPending it drops the oldest
// queued snapshot that is a plain tick, meaning same step and status as
// the one delivered or queued before it. Only when every queued snapshot
// is a change does the oldest go.
func (c *Controller) enqueue(pending []Snapshot, sent *Snapshot, snap Snapshot) []Snapshot {
	pending = append(pending, snap)
	if len(pending) <= maxPending {
		return pending
	}
	prev := sent
	for i := range pending {
		if prev != nil && sameStage(*prev, pending[i]) {
			return append(pending[:i], pending[i+1:]...)
		}
		prev = &pending[i]
	}
	c.log.Debug("dropping snapshot %s, reader too slow", pending[0].State)
	return pending[1:]
}

func sameStage(a, b Snapshot) bool {
	return a.StepIndex == b.StepIndex && a.Status == b.Status
}
