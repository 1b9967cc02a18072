package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alitto/pond/v2"
	"golang.org/x/time/rate"
)

// Result is the outcome of one batch item: Value on success, Err on failure.
type Result[T any] struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Value T      `json:"value,omitempty"`
	Err   error  `json:"-"`
}

func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Report holds one Result per input label, in input order.
type Report[T any] struct {
	Results []Result[T]
}

func (r *Report[T]) Succeeded() []Result[T] {
	var results []Result[T]
	for _, result := range r.Results {
		if result.Ok() {
			results = append(results, result)
		}
	}
	return results
}

func (r *Report[T]) Failed() []Result[T] {
	var results []Result[T]
	for _, result := range r.Results {
		if !result.Ok() {
			results = append(results, result)
		}
	}
	return results
}

type Options struct {
	// Concurrency is the number of items processed at once. Defaults to 1.
	Concurrency int
	// Interval is the minimum spacing between item starts. Zero disables spacing.
	Interval time.Duration
}

// Func processes a single item.
type Func[T any] func(ctx context.Context, index int, label string) (T, error)

// Run calls fn once per label. A failing item is recorded and never stops the
// others; once ctx is done the remaining items are recorded with ctx's error.
func Run[T any](ctx context.Context, opts Options, labels []string, fn Func[T]) *Report[T] {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	report := &Report[T]{Results: make([]Result[T], len(labels))}

	pool := pond.NewPool(opts.Concurrency)
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for i, label := range labels {
		group.Submit(func() {
			report.Results[i] = runOne(ctx, limiter, i, label, fn)
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("batch group failed", "error", err)
	}

	failed := len(report.Failed())
	slog.Info("batch finished", "total", len(labels), "succeeded", len(labels)-failed, "failed", failed)

	return report
}

func runOne[T any](ctx context.Context, limiter *rate.Limiter, index int, label string, fn Func[T]) (result Result[T]) {
	result = Result[T]{Index: index, Label: label}

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("panic: %v", r)
			slog.Error("batch item panicked", "label", label, "error", result.Err)
		}
	}()

	if err := limiter.Wait(ctx); err != nil {
		result.Err = err
		return result
	}

	slog.Info("processing batch item", "index", index, "label", label)

	value, err := fn(ctx, index, label)
	if err != nil {
		slog.Error("failed to process batch item", "label", label, "error", err)
		result.Err = err
		return result
	}

	result.Value = value
	return result
}
