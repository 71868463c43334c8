package concurrent

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts every task in its own goroutine and waits for all of them. The
// context handed to the tasks is cancelled as soon as one fails, and the
// first error is returned.
func Run(ctx context.Context, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			return task(gctx)
		})
	}
	return g.Wait()
}
