// Package throttle bounds the gas and request rate the node accepts.
package throttle

import (
	"math/bits"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
)

// Config parameterises the gas bucket and the request limiter.
type Config struct {
	GasPerSecond      uint64  `koanf:"gasPerSecond"`
	Capacity          uint64  `koanf:"capacity"` // defaults to one second of gas
	RefundPercent     uint64  `koanf:"refundPercent"`
	RequestsPerSecond float64 `koanf:"requestsPerSecond"`
	Burst             int     `koanf:"burst"`
}

// GasBucket is a token bucket of gas shared by all requests. Every request
// debits its gas limit before executing and is refunded part of the unused
// gas afterwards.
type GasBucket struct {
	rate          uint64 // gas per second, 0 disables the bucket
	capacity      uint64
	refundPercent uint64
	clock         mclock.Clock

	mu     sync.Mutex
	tokens uint64
	last   mclock.AbsTime
}

// NewGasBucket returns a full bucket. A nil clock uses the system clock.
func NewGasBucket(cfg Config, clock mclock.Clock) *GasBucket {
	if clock == nil {
		clock = mclock.System{}
	}
	capacity := cfg.Capacity
	if capacity == 0 {
		capacity = cfg.GasPerSecond
	}
	return &GasBucket{
		rate:          cfg.GasPerSecond,
		capacity:      capacity,
		refundPercent: min(cfg.RefundPercent, 100),
		clock:         clock,
		tokens:        capacity,
		last:          clock.Now(),
	}
}

// TryDebit takes gas from the bucket. It reports false, taking nothing,
// when the bucket holds less than gas.
func (b *GasBucket) TryDebit(gas uint64) bool {
	if b.rate == 0 {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	if b.tokens < gas {
		return false
	}
	b.tokens -= gas
	return true
}

// Credit returns gas to the bucket, up to its capacity.
func (b *GasBucket) Credit(gas uint64) {
	if b.rate == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	b.add(gas)
}

// Refund credits the part of an executed request's limit it gets back:
// min(limit-used, limit*refundPercent/100).
func (b *GasBucket) Refund(limit, used uint64) uint64 {
	amount := RefundAmount(limit, used, b.refundPercent)
	b.Credit(amount)
	return amount
}

// Available reports the gas currently in the bucket.
func (b *GasBucket) Available() uint64 {
	if b.rate == 0 {
		return b.capacity
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill()
	return b.tokens
}

// RefundAmount is the gas credited back for a request with the given limit
// and usage.
func RefundAmount(limit, used, percent uint64) uint64 {
	var unused uint64
	if used < limit {
		unused = limit - used
	}
	hi, lo := bits.Mul64(limit, min(percent, 100))
	capped, _ := bits.Div64(hi, lo, 100)
	return min(unused, capped)
}

func (b *GasBucket) add(gas uint64) {
	if sum := b.tokens + gas; sum >= b.tokens && sum < b.capacity {
		b.tokens = sum
	} else {
		b.tokens = b.capacity
	}
}

// refill adds the gas accrued since the last refill. Only the time that
// produced whole tokens is consumed. Must hold mu.
func (b *GasBucket) refill() {
	now := b.clock.Now()
	elapsed := now.Sub(b.last)
	if elapsed <= 0 {
		return
	}
	if b.tokens >= b.capacity {
		b.last = now
		return
	}
	hi, lo := bits.Mul64(uint64(elapsed), b.rate)
	if hi >= uint64(time.Second) {
		// More than the bucket could ever hold.
		b.tokens, b.last = b.capacity, now
		return
	}
	gained, _ := bits.Div64(hi, lo, uint64(time.Second))
	if gained == 0 {
		return
	}
	b.add(gained)
	if b.tokens == b.capacity {
		b.last = now
		return
	}
	hi, lo = bits.Mul64(gained, uint64(time.Second))
	spent, _ := bits.Div64(hi, lo, b.rate)
	b.last = b.last.Add(time.Duration(spent))
}
