package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleCollapsesBursts(t *testing.T) {
	d := New(30 * time.Millisecond)

	var calls int32
	var last atomic.Value
	for _, v := range []string{"1", "10", "101"} {
		v := v
		d.Schedule(func() {
			atomic.AddInt32(&calls, 1)
			last.Store(v)
		})
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "101", last.Load())
	assert.False(t, d.Pending())
}

func TestCancel(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls int32
	d.Schedule(func() { atomic.AddInt32(&calls, 1) })
	assert.True(t, d.Pending())
	d.Cancel()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
