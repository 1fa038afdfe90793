package atomics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	assert.Equal(t, 0, c.Value())
	assert.Equal(t, 2, c.Add(2))
	assert.Equal(t, 2, c.Add(0))

	done := make(chan struct{})
	go func() {
		c.WaitForZero()
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	select {
	case <-done:
		assert.FailNow(t, "counter isn't zero yet")
	default:
	}

	assert.Equal(t, 1, c.Add(-1))
	c.WaitForLessThan(2)
	c.Add(-1)
	<-done
	assert.Equal(t, 0, c.Value())
}
