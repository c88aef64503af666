package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), func() bool {
		calls++
		return calls >= 3
	}, DefaultTimeout, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPoll_Timeout(t *testing.T) {
	err := Poll(context.Background(), func() bool { return false }, 20*time.Millisecond, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out after 20ms")
}

func TestPoll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Poll(ctx, func() bool { return false }, DefaultTimeout, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForState(t *testing.T) {
	n := 0
	got, err := WaitForState(context.Background(), func() int { n++; return n }, func(v int) bool { return v == 4 }, DefaultTimeout, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	gotStr, err := WaitForState(context.Background(), func() string { return "stuck" }, func(string) bool { return false }, 10*time.Millisecond, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, "stuck", gotStr)
}

func TestNewTestSessionID(t *testing.T) {
	a := NewTestSessionID("shop", "TestX/sub case")
	b := NewTestSessionID("shop", "TestX/sub case")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "shop-TestX_sub_case-"), a)
	assert.NotContains(t, a, "/")
}
