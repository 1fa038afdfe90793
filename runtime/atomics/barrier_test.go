package atomics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrier(t *testing.T) {
	b := Barrier{}
	assert.False(t, b.IsFallen())
	done := make(chan struct{})
	go func() {
		<-b.Barrier()
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	select {
	case <-done:
		assert.FailNow(t, "should not be done")
	default:
	}
	assert.True(t, b.Fall())
	assert.True(t, b.IsFallen())
	<-done
	assert.False(t, b.Fall())
	assert.True(t, b.IsFallen())
	<-b.Barrier()
}

func TestBarrierAsContext(t *testing.T) {
	var b Barrier
	ctx := b.AsContext()
	require.NoError(t, ctx.Err())
	_, ok := ctx.Deadline()
	assert.False(t, ok)

	go b.Fall()
	<-ctx.Done()
	assert.Equal(t, context.Canceled, ctx.Err())
}
