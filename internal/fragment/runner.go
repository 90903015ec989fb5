package fragment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/festy23/teampulse/internal/filter"
)

// Task computes the data of one container.
type Task struct {
	ContainerID string
	Filter      filter.Filter
	Compute     func(ctx context.Context) (any, error)
}

type outcome struct {
	data any
	err  error
}

// Run computes and renders one task under its own timeout. Errors, panics
// and timeouts become an error fragment for that container only.
func (a *Assembler) Run(ctx context.Context, t Task) Fragment {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
		}()
		data, err := t.Compute(ctx)
		done <- outcome{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return a.Failed(t.ContainerID, t.Filter, res.err)
		}
		return a.Assemble(t.ContainerID, t.Filter, res.data)
	case <-ctx.Done():
		return a.Failed(t.ContainerID, t.Filter, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err()))
	}
}

// RenderAll runs tasks concurrently, at most MaxParallel at a time. The
// result has one fragment per task in task order.
func (a *Assembler) RenderAll(ctx context.Context, tasks []Task) []Fragment {
	out := make([]Fragment, len(tasks))

	var g errgroup.Group
	g.SetLimit(a.cfg.MaxParallel)
	for i, t := range tasks {
		g.Go(func() error {
			out[i] = a.Run(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
