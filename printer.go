package launchjoin

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Printer writes whole lines to an output stream.
//
// Each line, terminator included, goes out in a single Write call made under a
// mutex, so lines printed from concurrent units never interleave with each
// other. The order of lines from concurrent units is not defined.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Println writes msg followed by a newline
func (p *Printer) Println(msg string) error {
	line := make([]byte, 0, len(msg)+1)
	line = append(line, msg...)
	line = append(line, '\n')

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.w.Write(line); err != nil {
		return errors.Wrapf(err, "failed to print %q", msg)
	}
	return nil
}

// Task returns a Task that prints msg once
func (p *Printer) Task(msg string) Task {
	return func(ctx context.Context) error {
		return p.Println(msg)
	}
}
