package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteKeepsInputOrder(t *testing.T) {
	p := NewPool(3, func(_ context.Context, n int) (int, error) {
		if n == 3 {
			return 0, errors.New("three")
		}
		return n * n, nil
	})

	tasks := p.Execute(context.Background(), []int{1, 2, 3, 4})
	require.Len(t, tasks, 4)
	assert.Equal(t, 1, tasks[0].Result)
	assert.Equal(t, 4, tasks[1].Result)
	assert.EqualError(t, tasks[2].Err, "three")
	assert.Equal(t, 16, tasks[3].Result)
	assert.Equal(t, 4, tasks[3].Input)
}

func TestExecuteRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	p := NewPool(2, func(_ context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		running.Add(-1)
		return struct{}{}, nil
	})

	p.Execute(context.Background(), make([]int, 20))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	p := NewPool(0, func(_ context.Context, _ string) (string, error) {
		calls.Add(1)
		return "", nil
	})

	tasks := p.Execute(ctx, []string{"a", "b"})
	assert.Zero(t, calls.Load())
	for _, task := range tasks {
		assert.ErrorIs(t, task.Err, context.Canceled)
	}
}
