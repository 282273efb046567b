package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPreservesSubmissionOrder(t *testing.T) {
	const n = 20
	tasks := make([]Task[int], n)
	for i := 0; i < n; i++ {
		// later tasks finish first
		delay := time.Duration(n-i) * time.Millisecond
		tasks[i] = func(ctx context.Context) (int, error) {
			time.Sleep(delay)
			return i * 10, nil
		}
	}

	results := Run(context.Background(), 4, tasks)

	require.Len(t, results, n)
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, i*10, r.Value)
	}
}

func TestRunRespectsLimit(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int32

	tasks := make([]Task[struct{}], 12)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) (struct{}, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return struct{}{}, nil
		}
	}

	Run(context.Background(), limit, tasks)

	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestRunIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	var completed atomic.Int32

	tasks := []Task[string]{
		func(ctx context.Context) (string, error) { completed.Add(1); return "a", nil },
		func(ctx context.Context) (string, error) { completed.Add(1); return "", boom },
		func(ctx context.Context) (string, error) { panic("kaboom") },
		func(ctx context.Context) (string, error) {
			time.Sleep(10 * time.Millisecond)
			completed.Add(1)
			return "d", nil
		},
	}

	results := Run(context.Background(), 2, tasks)

	assert.Equal(t, int32(3), completed.Load())
	assert.Equal(t, "a", results[0].Value)
	assert.ErrorIs(t, results[1].Err, boom)

	var pe *PanicError
	require.ErrorAs(t, results[2].Err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.Equal(t, "d", results[3].Value)

	values, errs := Partition(results)
	assert.Equal(t, []string{"a", "d"}, values)
	assert.Len(t, errs, 2)
}

func TestRunUnboundedAndEmpty(t *testing.T) {
	assert.Empty(t, Run[int](context.Background(), 0, nil))

	tasks := []Task[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		nil,
	}
	results := Run(context.Background(), 0, tasks)
	assert.Equal(t, 1, results[0].Value)
	assert.Error(t, results[1].Err)
}
