package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultInterval = time.Second

// Reporter prints a mark every interval while a blocking call is running.
type Reporter struct {
	out      io.Writer
	interval time.Duration
}

func NewReporter(out io.Writer, interval time.Duration) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Reporter{
		out:      out,
		interval: interval,
	}
}

// Run calls fn and prints mark until it returns. The returned error is fn's.
func Run[T any](ctx context.Context, r *Reporter, mark string, fn func(ctx context.Context) (T, error)) (T, error) {
	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	var result T
	g.Go(func() error {
		defer close(done)

		var err error
		result, err = fn(gctx)
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				fmt.Fprint(r.out, mark)
			}
		}
	})

	err := g.Wait()
	fmt.Fprintln(r.out)

	return result, err
}

// Do is Run for calls that return only an error.
func Do(ctx context.Context, r *Reporter, mark string, fn func(ctx context.Context) error) error {
	_, err := Run(ctx, r, mark, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
