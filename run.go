package launchjoin

import "context"

// SpawnFn starts a task in a new goroutine and returns its Unit.
//
// The name is only for logs and error messages. It is recommended that names
// are unique within a group, but it's not enforced.
type SpawnFn func(name string, task Task) *Unit

// Run runs a start-up function that launches units, then waits for all of
// them.
//
// If start returns an error, it becomes the return value of Run and the inner
// context closes. Otherwise Run returns the error or panic of the first failed
// unit, or nil. The inner context is closed by the time Run returns.
//
// Example:
//
//	err := launchjoin.Run(ctx, func(ctx context.Context, spawn launchjoin.SpawnFn) error {
//		spawn("a", p.Task("hello from a"))
//		spawn("b", p.Task("hello from b"))
//		return nil
//	})
func Run(ctx context.Context, start func(ctx context.Context, spawn SpawnFn) error) error {
	g := NewGroup(ctx)
	defer g.close()

	if err := start(g.Context(), g.Spawn); err != nil {
		g.Exit(err)
	}

	return g.Wait()
}
