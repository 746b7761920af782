package background

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeat(t *testing.T) {
	t.Parallel()

	var calls int32
	cancel := Repeat(func(elapsed time.Duration) {
		assert.True(t, elapsed > 0)
		atomic.AddInt32(&calls, 1)
	}, time.Millisecond*5)

	time.Sleep(time.Millisecond * 60)
	cancel()
	n := atomic.LoadInt32(&calls)
	assert.True(t, n > 0, "expected at least one call")

	time.Sleep(time.Millisecond * 20)
	assert.Equal(t, n, atomic.LoadInt32(&calls), "called after cancel")

	// Second cancel is a no-op.
	cancel()
}
