package launchjoin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunNoUnitsSuccess(t *testing.T) {
	ctx := context.Background()
	err := Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
		return nil
	})
	require.NoError(t, err)
}

func TestRunNoUnitsError(t *testing.T) {
	ctx := context.Background()
	err := Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
		return errors.New("oops")
	})
	require.EqualError(t, err, "oops")
}

func TestRunWaitsForAllUnits(t *testing.T) {
	ctx := context.Background()
	seq := make(chan int)
	step1 := make(chan struct{})
	step2 := make(chan struct{})
	var err error
	go func() {
		err = Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
			spawn("one", func(ctx context.Context) error {
				<-step1
				seq <- 2
				return nil
			})
			spawn("two", func(ctx context.Context) error {
				seq <- 1
				<-step2
				seq <- 3
				return nil
			})
			return nil
		})
		seq <- 4
	}()
	require.Equal(t, 1, <-seq)
	close(step1)
	require.Equal(t, 2, <-seq)
	close(step2)
	require.Equal(t, 3, <-seq)
	require.Equal(t, 4, <-seq)
	require.NoError(t, err)
}

func TestRunUnitError(t *testing.T) {
	ctx := context.Background()
	seq := make(chan int)
	step1 := make(chan struct{})
	step2 := make(chan struct{})
	var err error
	go func() {
		err = Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
			spawn("error1", func(ctx context.Context) error {
				<-step1
				seq <- 2
				return errors.New("oops1")
			})
			spawn("error2", func(ctx context.Context) error {
				seq <- 1
				<-step2
				seq <- 3
				<-ctx.Done()
				seq <- 4
				return errors.New("oops2")
			})
			return nil
		})
		seq <- 5
	}()
	require.Equal(t, 1, <-seq)
	close(step1)
	require.Equal(t, 2, <-seq)
	close(step2)
	require.Equal(t, 3, <-seq)
	require.Equal(t, 4, <-seq)
	require.Equal(t, 5, <-seq)
	require.EqualError(t, err, "unit error1: oops1")
}

func TestRunStartError(t *testing.T) {
	ctx := context.Background()
	seq := make(chan int)
	var err error
	go func() {
		err = Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
			spawn("waiter", func(ctx context.Context) error {
				<-ctx.Done()
				seq <- 1
				return ctx.Err()
			})
			return errors.New("oops")
		})
		seq <- 2
	}()
	require.Equal(t, 1, <-seq)
	require.Equal(t, 2, <-seq)
	require.EqualError(t, err, "oops")
}

func TestRunParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	seq := make(chan int)
	var err error
	go func() {
		err = Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
			spawn("waiter", func(ctx context.Context) error {
				seq <- 1
				<-ctx.Done()
				return ctx.Err()
			})
			return nil
		})
		seq <- 2
	}()
	require.Equal(t, 1, <-seq)
	cancel()
	require.Equal(t, 2, <-seq)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunUnitsJoinable(t *testing.T) {
	ctx := context.Background()
	var units []*Unit
	err := Run(ctx, func(ctx context.Context, spawn SpawnFn) error {
		units = append(units,
			spawn("a", func(ctx context.Context) error { return nil }),
			spawn("b", func(ctx context.Context) error { return nil }))
		return nil
	})
	require.NoError(t, err)
	for _, u := range units {
		require.Equal(t, Completed, u.State())
		require.NoError(t, u.Join())
	}
}

func TestCtxFactory(t *testing.T) {
	type nameKey struct{}
	CtxFactory = func(ctx context.Context, unitName string) context.Context {
		return context.WithValue(ctx, nameKey{}, unitName)
	}
	defer func() { CtxFactory = nil }()

	var got any
	err := Run(context.Background(), func(ctx context.Context, spawn SpawnFn) error {
		spawn("named", func(ctx context.Context) error {
			got = ctx.Value(nameKey{})
			return nil
		})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "named", got)
}

// captureUnitContexts records the context of every unit spawned while the
// returned function has not been called
func captureUnitContexts() (map[string]context.Context, func()) {
	var mu sync.Mutex
	ctxs := map[string]context.Context{}
	CtxFactory = func(ctx context.Context, unitName string) context.Context {
		mu.Lock()
		defer mu.Unlock()
		ctxs[unitName] = ctx
		return ctx
	}
	return ctxs, func() { CtxFactory = nil }
}

func TestRunReleasesInnerContext(t *testing.T) {
	ctxs, restore := captureUnitContexts()
	defer restore()

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := Run(parent, func(ctx context.Context, spawn SpawnFn) error {
		spawn("finite", func(ctx context.Context) error { return nil })
		return nil
	})
	require.NoError(t, err)
	require.Error(t, ctxs["finite"].Err())
	require.NoError(t, parent.Err())
}
