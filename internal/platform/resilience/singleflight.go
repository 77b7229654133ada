package resilience

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// SingleFlight collapses concurrent calls for the same key into one execution.
// A panicking fn is reported to every waiter as an error.
type SingleFlight[V any] struct {
	mu       sync.Mutex
	inflight map[string]*flightCall[V]
}

type flightCall[V any] struct {
	done    chan struct{}
	cancel  context.CancelFunc
	val     V
	err     error
	waiters int
	active  int
	shared  bool
}

// Do runs fn once per key at a time. shared is true when the result came from
// another caller's execution.
func (g *SingleFlight[V]) Do(key string, fn func() (V, error)) (val V, err error, shared bool) {
	return g.DoContext(context.Background(), key, func(context.Context) (V, error) {
		return fn()
	})
}

// DoContext is Do for cancellable callers. The execution runs on a context that keeps
// the first caller's values but not its cancellation; it is cancelled only once every
// caller waiting on it has given up. A caller whose ctx ends returns ctx.Err() without
// affecting the others.
func (g *SingleFlight[V]) DoContext(ctx context.Context, key string, fn func(context.Context) (V, error)) (val V, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightCall[V])
	}
	c, joined := g.inflight[key]
	if joined {
		c.waiters++
		c.active++
	} else {
		runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c = &flightCall[V]{done: make(chan struct{}), cancel: cancel, active: 1}
		g.inflight[key] = c
		go g.run(runCtx, key, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
		return c.val, c.err, joined || c.shared
	case <-ctx.Done():
		g.leave(key, c)
		var zero V
		return zero, ctx.Err(), joined
	}
}

func (g *SingleFlight[V]) run(ctx context.Context, key string, c *flightCall[V], fn func(context.Context) (V, error)) {
	var catcher panics.Catcher
	catcher.Try(func() {
		c.val, c.err = fn(ctx)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		var zero V
		c.val, c.err = zero, fmt.Errorf("singleflight %s: %w", key, recovered.AsError())
	}

	g.mu.Lock()
	if g.inflight[key] == c {
		delete(g.inflight, key)
	}
	c.shared = c.waiters > 0
	g.mu.Unlock()
	c.cancel()
	close(c.done)
}

// leave drops one waiter. The last one out cancels the execution and frees the key so
// later callers start a fresh one.
func (g *SingleFlight[V]) leave(key string, c *flightCall[V]) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c.active--
	if c.active > 0 {
		return
	}
	c.cancel()
	if g.inflight[key] == c {
		delete(g.inflight, key)
	}
}

// InFlight reports how many keys are currently executing.
func (g *SingleFlight[V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
