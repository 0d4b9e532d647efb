package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest_SecondRequestSupersedesFirst(t *testing.T) {
	var l Latest

	ctx1, isLatest1, cancel1 := l.Begin(context.Background(), time.Minute)
	defer cancel1()
	assert.True(t, isLatest1())

	ctx2, isLatest2, cancel2 := l.Begin(context.Background(), time.Minute)
	defer cancel2()

	// Beginning a new generation cancels the previous context and marks
	// the old check stale.
	require.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.False(t, isLatest1())

	assert.NoError(t, ctx2.Err())
	assert.True(t, isLatest2())
}

func TestLatest_TimeoutApplies(t *testing.T) {
	var l Latest

	ctx, _, cancel := l.Begin(context.Background(), time.Millisecond)
	defer cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not time out")
	}
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestLatestGroup_KeysAreIndependent(t *testing.T) {
	var g LatestGroup

	ctxA, aLatest, cancelA := g.Begin(context.Background(), "viewer-a", time.Minute)
	defer cancelA()
	ctxB, bLatest, cancelB := g.Begin(context.Background(), "viewer-b", time.Minute)
	defer cancelB()

	// One viewer's request never supersedes another viewer's.
	assert.NoError(t, ctxA.Err())
	assert.NoError(t, ctxB.Err())
	assert.True(t, aLatest())
	assert.True(t, bLatest())

	// A second request under the same key supersedes only that key.
	_, aLatest2, cancelA2 := g.Begin(context.Background(), "viewer-a", time.Minute)
	defer cancelA2()
	require.ErrorIs(t, ctxA.Err(), context.Canceled)
	assert.False(t, aLatest())
	assert.True(t, aLatest2())
	assert.NoError(t, ctxB.Err())
	assert.True(t, bLatest())
}

func TestLatest_StaleCheckAfterManyGenerations(t *testing.T) {
	var l Latest

	_, first, cancelFirst := l.Begin(context.Background(), time.Minute)
	defer cancelFirst()

	var last func() bool
	var cancelLast context.CancelFunc
	for i := 0; i < 5; i++ {
		_, last, cancelLast = l.Begin(context.Background(), time.Minute)
	}
	defer cancelLast()

	assert.False(t, first())
	assert.True(t, last())
}
