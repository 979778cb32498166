package launchjoin

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// CtxFactory may be used to add something to the context created for a unit
var CtxFactory func(ctx context.Context, unitName string) context.Context

var nextUnitID int64 = 0x0bace1d000000000

// Group owns a set of execution units spawned under one context. For the
// common launch-then-wait case, use Run instead.
//
//	return Run(ctx, start)
//
// ...is equivalent to:
//
//	g := NewGroup(ctx)
//	if err := start(g.Context(), g.Spawn); err != nil {
//		g.Exit(err)
//	}
//	return g.Wait()
//
// Every spawned unit can also be joined on its own through the returned Unit.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running int
	done    chan struct{}
	closing bool
	err     error
}

// NewGroup creates a new Group controlled by the given context
func NewGroup(ctx context.Context) *Group {
	g := new(Group)
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.done = make(chan struct{})
	close(g.done)
	return g
}

// Context returns the inner context of the group which controls the lifespan
// of its units
func (g *Group) Context() context.Context {
	return g.ctx
}

// Spawn starts task in a new goroutine and returns its Unit.
//
// The name is only for logs and error messages. If the task returns an error
// or panics, the error becomes the group result unless one is already set, and
// the inner context is closed.
func (g *Group) Spawn(name string, task Task) *Unit {
	u := newUnit(atomic.AddInt64(&nextUnitID, 1), name)

	g.mu.Lock()
	if g.running == 0 {
		g.done = make(chan struct{})
	}
	g.running++
	g.mu.Unlock()

	go g.runUnit(g.ctx, u.id, u, task)
	return u
}

// Second parameter is the unit ID. It is ignored because the only reason to
// pass it is to add it to the stack trace
func (g *Group) runUnit(ctx context.Context, _ int64, u *Unit, task Task) {
	if CtxFactory != nil {
		ctx = CtxFactory(ctx, u.name)
	}
	log := LoggerFrom(ctx).With("unit", u.name)

	u.start()
	log.Debug("unit started")
	err := RunTask(ctx, task)
	if err != nil {
		log.Debug("unit failed", "error", err)
	} else {
		log.Debug("unit completed")
	}
	u.complete(err)

	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.exit(errors.WithMessagef(err, "unit %s", u.name))
	}

	g.running--
	if g.running == 0 {
		close(g.done)
	}
}

func (g *Group) exit(err error) {
	// Cancellations during shutdown are fine
	if g.closing && errors.Is(err, context.Canceled) {
		return
	}
	if g.err == nil {
		g.err = err
	}
	if !g.closing {
		g.closing = true
		g.cancel()
	}
}

// Exit prompts the group to shut down, if it's not already shutting down. The
// inner context closes; Wait still blocks until every unit actually finishes.
//
// If the group result is not yet set, Exit sets it to err.
func (g *Group) Exit(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.exit(err)
}

// close releases the inner context. Call it once the group's units are done
// with it; the group must not be used afterwards.
func (g *Group) close() {
	g.cancel()
}

// Running returns the number of running units
func (g *Group) Running() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.running
}

// Done returns a channel that closes when the last running unit finishes. If
// no units are running, the returned channel is already closed.
func (g *Group) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.done
}

// Wait blocks until no units are running, then returns the group result
func (g *Group) Wait() error {
	<-g.Done()

	g.mu.Lock()
	defer g.mu.Unlock()

	return g.err
}
