package throttle

import (
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGasBucketDebit(t *testing.T) {
	t.Parallel()

	clock := new(mclock.Simulated)
	bucket := NewGasBucket(Config{GasPerSecond: 1000}, clock)

	require.True(t, bucket.TryDebit(600))
	require.False(t, bucket.TryDebit(500))
	assert.Equal(t, uint64(400), bucket.Available(), "a rejected debit takes nothing")
	require.True(t, bucket.TryDebit(400))
	assert.Zero(t, bucket.Available())
}

func TestGasBucketRefill(t *testing.T) {
	t.Parallel()

	clock := new(mclock.Simulated)
	bucket := NewGasBucket(Config{GasPerSecond: 1000, Capacity: 2000}, clock)
	require.True(t, bucket.TryDebit(2000))

	clock.Run(500 * time.Millisecond)
	assert.Equal(t, uint64(500), bucket.Available())

	// Partial tokens carry over to the next refill.
	clock.Run(1500 * time.Microsecond)
	assert.Equal(t, uint64(501), bucket.Available())
	clock.Run(500 * time.Microsecond)
	assert.Equal(t, uint64(502), bucket.Available())

	clock.Run(time.Hour)
	assert.Equal(t, uint64(2000), bucket.Available(), "refill stops at capacity")
}

func TestGasBucketCreditCapped(t *testing.T) {
	t.Parallel()

	bucket := NewGasBucket(Config{GasPerSecond: 1000}, new(mclock.Simulated))
	require.True(t, bucket.TryDebit(100))
	bucket.Credit(1_000_000)
	assert.Equal(t, uint64(1000), bucket.Available())
}

func TestGasBucketDisabled(t *testing.T) {
	t.Parallel()

	bucket := NewGasBucket(Config{}, nil)
	for range 10 {
		assert.True(t, bucket.TryDebit(15_000_000))
	}
	assert.Zero(t, bucket.Refund(15_000_000, 21_000))
}

func TestRefundAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limit   uint64
		used    uint64
		percent uint64
		want    uint64
	}{
		{name: "capped by percent", limit: 100_000, used: 21_000, percent: 10, want: 10_000},
		{name: "capped by unused", limit: 100_000, used: 95_000, percent: 10, want: 5_000},
		{name: "fully used", limit: 100_000, used: 100_000, percent: 10, want: 0},
		{name: "used above limit", limit: 100_000, used: 120_000, percent: 10, want: 0},
		{name: "no refund", limit: 100_000, used: 0, percent: 0, want: 0},
		{name: "full refund", limit: 100_000, used: 40_000, percent: 100, want: 60_000},
		{name: "percent clamped", limit: 100_000, used: 40_000, percent: 500, want: 60_000},
		{name: "large limit", limit: 1 << 63, used: 0, percent: 50, want: 1 << 62},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RefundAmount(tt.limit, tt.used, tt.percent))
		})
	}
}

func TestGasBucketConcurrentAccounting(t *testing.T) {
	t.Parallel()

	const (
		capacity = 1_000_000_000
		percent  = 10
		workers  = 64
		rounds   = 50
	)
	bucket := NewGasBucket(Config{GasPerSecond: capacity, RefundPercent: percent}, new(mclock.Simulated))

	type request struct{ limit, used uint64 }
	requests := make([]request, workers)
	var want uint64
	for i := range requests {
		limit := uint64(50_000 + i*1_000)
		used := uint64(21_000 + i*800)
		requests[i] = request{limit, used}
		want += rounds * max(used, limit-limit*percent/100)
	}

	var wg sync.WaitGroup
	for _, r := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				if !bucket.TryDebit(r.limit) {
					t.Errorf("debit of %d rejected", r.limit)
					return
				}
				bucket.Refund(r.limit, r.used)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(capacity)-want, bucket.Available())
}
