package launchjoin

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Messages printed by DefaultLauncher
const (
	DefaultMessage1 = "Hello from thread 1"
	DefaultMessage2 = "Hello from thread 2"
	DefaultFinal    = "Threads have finished execution."
)

// ErrAlreadyRun is returned by Launcher.Run on every call after the first
var ErrAlreadyRun = errors.New("launcher has already run")

// Phase is the progress of a Launcher
type Phase int32

const (
	// Idle means Run has not been called yet
	Idle Phase = iota
	// UnitsLaunched means both units have been spawned
	UnitsLaunched
	// BothJoined means both units have completed and been joined
	BothJoined
	// Done means the final message has been printed
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case UnitsLaunched:
		return "UnitsLaunched"
	case BothJoined:
		return "BothJoined"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("invalid launcher phase: %d", p)
	}
}

// Launcher starts two units that print one message each, waits for both, then
// prints a final message.
type Launcher struct {
	// Messages are printed by unit A and unit B respectively
	Messages [2]string
	// Final is printed after both units have been joined
	Final string

	mu    sync.Mutex
	phase Phase
	ran   bool
}

// DefaultLauncher returns a Launcher with the stock messages
func DefaultLauncher() *Launcher {
	return &Launcher{
		Messages: [2]string{DefaultMessage1, DefaultMessage2},
		Final:    DefaultFinal,
	}
}

// Phase returns how far the launcher has progressed
func (l *Launcher) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.phase
}

func (l *Launcher) advance(to Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.phase = to
}

// Run spawns unit A and unit B, joins A and then B, and prints the final
// message. The two unit messages may appear in either order; the final message
// always comes after both.
//
// An error from either unit is returned after both have been joined, and the
// final message is not printed.
func (l *Launcher) Run(ctx context.Context, p *Printer) error {
	l.mu.Lock()
	if l.ran {
		l.mu.Unlock()
		return ErrAlreadyRun
	}
	l.ran = true
	l.mu.Unlock()

	log := LoggerFrom(ctx)
	g := NewGroup(ctx)
	// Both units are joined on every path below
	defer g.close()

	a := g.Spawn("A", p.Task(l.Messages[0]))
	b := g.Spawn("B", p.Task(l.Messages[1]))
	l.advance(UnitsLaunched)
	log.Debug("units launched", "a", a.Name(), "b", b.Name())

	errA := a.Join()
	errB := b.Join()
	if errA != nil {
		return errors.WithMessage(errA, "unit A")
	}
	if errB != nil {
		return errors.WithMessage(errB, "unit B")
	}
	l.advance(BothJoined)
	log.Debug("units joined")

	if err := p.Println(l.Final); err != nil {
		return err
	}
	l.advance(Done)
	return nil
}
