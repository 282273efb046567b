// Package batch runs independent tasks under a concurrency bound and gathers
// their results positionally.
package batch

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit caps simultaneous outstanding calls against the scoring backends.
const DefaultLimit = 15

type Task[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Value T
	Err   error
}

// PanicError is recorded in a Result when its task panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Run executes every task with at most limit running at once (limit <= 0 means
// no bound) and waits for all of them. results[i] always belongs to tasks[i].
// A failing task does not cancel or block the others.
func Run[T any](ctx context.Context, limit int, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, task := range tasks {
		g.Go(func() error {
			results[i] = runOne(ctx, task)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runOne[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()
	if task == nil {
		return Result[T]{Err: fmt.Errorf("nil task")}
	}
	v, err := task(ctx)
	return Result[T]{Value: v, Err: err}
}

// Partition splits results into successful values (input order kept) and errors.
func Partition[T any](results []Result[T]) ([]T, []error) {
	values := make([]T, 0, len(results))
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		values = append(values, r.Value)
	}
	return values, errs
}
