package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/poolsort/internal/config"
)

func TestSortError_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  *SortError
		want string
	}{
		{
			name: "ordering",
			err:  NewOrderingError("run-1", 4, 2.5, 1.5),
			want: "ORDERING_VIOLATION: array not sorted: 2.5 > 1.5 (index=4, next=5) (run=run-1)",
		},
		{
			name: "allocation",
			err:  NewAllocationError("", "task queue", errors.New("too big")),
			want: "ALLOCATION_FAILED: cannot allocate task queue: too big",
		},
		{
			name: "thread creation",
			err:  NewThreadCreationError("run-2", 3, 3, errors.New("refused")),
			want: "THREAD_CREATION_FAILED: worker 3 failed to start (3 started, rolled back) (run=run-2): refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSortError_Predicates(t *testing.T) {
	cause := errors.New("cause")
	wrapped := fmt.Errorf("sort: %w", NewAllocationError("", "pool", cause))

	assert.True(t, IsAllocationError(wrapped))
	assert.False(t, IsThreadCreationError(wrapped))
	assert.False(t, IsOrderingViolation(wrapped))
	assert.False(t, IsConfigError(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	assert.False(t, IsAllocationError(nil))
	assert.False(t, IsAllocationError(cause))
}

func TestVerify(t *testing.T) {
	assert.NoError(t, Verify([]int{}))
	assert.NoError(t, Verify([]int{1}))
	assert.NoError(t, Verify([]int{1, 1, 2, 3}))

	err := Verify([]float64{0.1, 0.3, 0.2, 0.4})
	require.Error(t, err)
	assert.True(t, IsOrderingViolation(err))

	var se *SortError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, 2, se.Next)
	assert.Contains(t, se.Error(), "0.3 > 0.2")
}

func TestSort_VerifyDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Verify = false

	a := []int{5, 4, 3, 2, 1}
	_, err := Sort(a, cfg, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, a)
}
