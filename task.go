package launchjoin

import (
	"context"
	"fmt"
)

// A Task is the body of an execution unit.
//
// When ctx is closed, a long-running task should finish as soon as possible
// and return ctx.Err(). A finite task, such as printing a line, simply returns
// when it is done.
type Task func(ctx context.Context) error

// State is the lifecycle state of a Unit
type State int32

const (
	// NotStarted means the unit has been created but its goroutine has not yet
	// entered the task.
	NotStarted State = iota

	// Running means the task is executing.
	Running

	// Completed means the task has returned (or panicked). A unit reaches this
	// state exactly once and never leaves it.
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Completed:
		return "Completed"
	default:
		return fmt.Sprintf("invalid unit state: %d", s)
	}
}
