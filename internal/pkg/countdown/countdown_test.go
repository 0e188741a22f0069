package countdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = time.Millisecond

type recorder struct {
	mu      sync.Mutex
	ticks   []int
	expires int
}

func (r *recorder) tick(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, n)
}

func (r *recorder) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expires++
}

func (r *recorder) snapshot() ([]int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.expires
}

func TestStartTicksDownThenExpiresOnce(t *testing.T) {
	rec := &recorder{}
	c := New(testTick).Start(5, rec.tick, rec.expire)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown did not finish")
	}

	ticks, expires := rec.snapshot()
	assert.Equal(t, []int{4, 3, 2, 1, 0}, ticks)
	assert.Equal(t, 1, expires)

	c.Cancel()
	_, expires = rec.snapshot()
	assert.Equal(t, 1, expires)
}

func TestCancelPreventsExpiry(t *testing.T) {
	rec := &recorder{}
	c := New(10 * time.Millisecond).Start(100, rec.tick, rec.expire)

	time.Sleep(25 * time.Millisecond)
	c.Cancel()
	c.Cancel()

	<-c.Done()
	time.Sleep(30 * time.Millisecond)

	ticks, expires := rec.snapshot()
	assert.Zero(t, expires)
	assert.Less(t, len(ticks), 100)
	for i := 1; i < len(ticks); i++ {
		assert.Equal(t, ticks[i-1]-1, ticks[i])
	}
}

func TestZeroSecondsExpiresWithoutTicks(t *testing.T) {
	rec := &recorder{}
	c := New(testTick).Start(0, rec.tick, rec.expire)
	<-c.Done()

	ticks, expires := rec.snapshot()
	assert.Empty(t, ticks)
	assert.Equal(t, 1, expires)
}

func TestRunBlocksUntilExpiry(t *testing.T) {
	rec := &recorder{}
	err := New(testTick).Run(context.Background(), 3, rec.tick)
	require.NoError(t, err)

	ticks, _ := rec.snapshot()
	assert.Equal(t, []int{2, 1, 0}, ticks)
}

func TestRunStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := New(10*time.Millisecond).Run(ctx, 1000, nil)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)
}
