package launchjoin

import (
	"sync/atomic"
)

// Unit is one concurrently running invocation of a Task. Units are created by
// Group.Spawn and can be joined individually.
type Unit struct {
	id   int64
	name string

	state atomic.Int32
	done  chan struct{}
	err   error
}

func newUnit(id int64, name string) *Unit {
	return &Unit{id: id, name: name, done: make(chan struct{})}
}

// Name returns the name the unit was spawned with
func (u *Unit) Name() string {
	return u.name
}

// State returns the current lifecycle state of the unit
func (u *Unit) State() State {
	return State(u.state.Load())
}

// Done returns a channel that closes when the unit completes
func (u *Unit) Done() <-chan struct{} {
	return u.done
}

// Join blocks until the unit completes and returns the task result. There is
// no timeout. Joining a completed unit returns its result immediately, so Join
// may be called any number of times.
func (u *Unit) Join() error {
	<-u.done
	return u.err
}

func (u *Unit) start() {
	if !u.state.CompareAndSwap(int32(NotStarted), int32(Running)) {
		panic("launchjoin: unit " + u.name + " started twice")
	}
}

// complete records the result and releases joiners. err is written before
// done is closed, so every Join observes it.
func (u *Unit) complete(err error) {
	if !u.state.CompareAndSwap(int32(Running), int32(Completed)) {
		panic("launchjoin: unit " + u.name + " completed twice")
	}
	u.err = err
	close(u.done)
}
