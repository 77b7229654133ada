package livefeed

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

const DefaultInterval = 20 * time.Second

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Snapshot is the observable state of one polled resource.
type Snapshot[T any] struct {
	Key        string    `json:"key"`
	Data       T         `json:"data"`
	HasData    bool      `json:"has_data"`
	IsLoading  bool      `json:"is_loading"`
	Err        error     `json:"-"`
	NoData     bool      `json:"no_data"`
	State      State     `json:"state"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// FetchFunc loads the resource. found=false means the upstream has no record,
// which is reported as NoData rather than an error.
type FetchFunc[T any] func(ctx context.Context) (data T, found bool, err error)

// Submitter runs fetch tasks. *ants.Pool satisfies it.
type Submitter interface {
	Submit(task func()) error
}

type Config struct {
	Name     string
	Interval time.Duration
	Logger   *logging.Logger
	Pool     Submitter
	// SurfaceAlways marks errors that are reported even when data is already shown.
	// Such errors never replace the data.
	SurfaceAlways func(error) bool
}

// Controller polls one resource at a fixed interval. Every fetch is tagged with the
// generation of the Start call that issued it and a sequence number; a result is applied
// only when its generation is current and its sequence is newer than the last applied one.
type Controller[T any] struct {
	name          string
	interval      time.Duration
	logger        *logging.Logger
	pool          Submitter
	surfaceAlways func(error) bool
	now           func() time.Time

	mu          sync.Mutex
	running     bool
	seeded      bool
	fetch       FetchFunc[T]
	fetchCtx    context.Context
	stopTimer   context.CancelFunc
	generation  uint64
	nextSeq     uint64
	appliedSeq  uint64
	snapshot    Snapshot[T]
	subscribers map[int]chan Snapshot[T]
	nextSubID   int
}

func NewController[T any](cfg Config) *Controller[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	surfaceAlways := cfg.SurfaceAlways
	if surfaceAlways == nil {
		surfaceAlways = func(error) bool { return false }
	}

	return &Controller[T]{
		name:          cfg.Name,
		interval:      interval,
		logger:        logger,
		pool:          cfg.Pool,
		surfaceAlways: surfaceAlways,
		now:           time.Now,
		snapshot:      Snapshot[T]{State: StateIdle},
		subscribers:   make(map[int]chan Snapshot[T]),
	}
}

// Start switches the controller to key. Any previous timer is stopped and results of
// earlier generations are discarded. A non-nil seed is shown immediately as ready data
// and later refresh failures are not reported; otherwise data is cleared, the controller
// is loading and every refresh failure is reported next to the last data. The first fetch is issued
// immediately, then one per interval until Stop or until ctx is done.
func (c *Controller[T]) Start(ctx context.Context, key string, fetch FetchFunc[T], seed *T) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	c.stopTimerLocked()
	c.generation++
	c.appliedSeq = c.nextSeq
	gen := c.generation

	snap := Snapshot[T]{Key: key, Generation: gen}
	if seed != nil {
		snap.Data = *seed
		snap.HasData = true
		snap.State = StateReady
	} else {
		snap.IsLoading = true
		snap.State = StateLoading
	}
	c.snapshot = snap

	timerCtx, stop := context.WithCancel(ctx)
	c.running = true
	c.seeded = seed != nil
	c.fetch = fetch
	c.fetchCtx = ctx
	c.stopTimer = stop
	c.publishLocked()
	c.mu.Unlock()

	c.dispatch(ctx, gen, fetch)
	go c.loop(timerCtx, ctx, gen, fetch)
}

// Stop clears the timer. Fetches already in flight are not aborted.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
	if !c.running {
		return
	}
	c.running = false
	c.snapshot.State = StateIdle
	c.snapshot.IsLoading = false
	c.publishLocked()
}

// Refresh issues an out-of-band fetch for the current generation.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if !c.running || c.fetch == nil {
		c.mu.Unlock()
		return
	}
	ctx, gen, fetch := c.fetchCtx, c.generation, c.fetch
	c.mu.Unlock()

	c.dispatch(ctx, gen, fetch)
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

func (c *Controller[T]) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Subscribe returns a channel receiving the current snapshot and every later change.
// Slow subscribers only see the latest snapshot. The returned func unsubscribes and
// closes the channel.
func (c *Controller[T]) Subscribe() (<-chan Snapshot[T], func()) {
	ch := make(chan Snapshot[T], 1)

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshot
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

func (c *Controller[T]) loop(timerCtx, fetchCtx context.Context, gen uint64, fetch FetchFunc[T]) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-timerCtx.Done():
			return
		case <-ticker.C:
			c.dispatch(fetchCtx, gen, fetch)
		}
	}
}

func (c *Controller[T]) dispatch(ctx context.Context, gen uint64, fetch FetchFunc[T]) {
	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	task := func() {
		data, found, err := runFetch(ctx, fetch)
		c.apply(ctx, gen, seq, data, found, err)
	}
	if c.pool == nil {
		go task()
		return
	}
	if err := c.pool.Submit(task); err != nil {
		c.logger.Warn("livefeed pool rejected fetch, running inline", "feed", c.name, "error", err)
		go task()
	}
}

func runFetch[T any](ctx context.Context, fetch FetchFunc[T]) (data T, found bool, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		data, found, err = fetch(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		var zero T
		return zero, false, recovered.AsError()
	}
	return data, found, err
}

func (c *Controller[T]) apply(ctx context.Context, gen, seq uint64, data T, found bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || seq <= c.appliedSeq {
		c.logger.DebugContext(ctx, "livefeed discarded stale result",
			"feed", c.name,
			"key", c.snapshot.Key,
			"generation", gen,
			"current_generation", c.generation,
			"sequence", seq,
		)
		return
	}
	c.appliedSeq = seq

	snap := c.snapshot
	snap.IsLoading = false
	if c.running {
		snap.State = StateReady
	}

	// Every applied result replaces Err; data is only ever replaced by a successful fetch.
	switch {
	case err != nil && c.surfaceAlways(err):
		snap.Err = err
		snap.NoData = false
	case err != nil && c.seeded:
		snap.Err = nil
		c.logger.WarnContext(ctx, "livefeed refresh failed, keeping seed",
			"feed", c.name,
			"key", snap.Key,
			"error", err,
		)
	case err != nil:
		snap.Err = err
		snap.NoData = false
	case !found:
		snap.Err = nil
		snap.NoData = !snap.HasData
	default:
		snap.Data = data
		snap.HasData = true
		snap.NoData = false
		snap.Err = nil
		snap.UpdatedAt = c.now()
	}

	c.snapshot = snap
	c.publishLocked()
}

func (c *Controller[T]) stopTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}

func (c *Controller[T]) publishLocked() {
	for _, ch := range c.subscribers {
		select {
		case ch <- c.snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- c.snapshot
		}
	}
}
