package web3

//go:generate go tool mockgen -source deps.go -destination mock_deps.go -package web3

import (
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

type (
	// GasThrottle is the shared gas budget requests are admitted against.
	GasThrottle interface {
		TryDebit(gas uint64) bool
		Refund(limit, used uint64) uint64
	}

	// RequestLimiter bounds the request rate per key.
	RequestLimiter interface {
		Allow(key string) bool
	}

	// Metrics records per request usage.
	Metrics interface {
		AddGas(callType types.CallType, used, limit uint64)
		IncRequest(callType types.CallType, outcome string)
		IncThrottled(callType types.CallType)
	}
)

type nopMetrics struct{}

func (nopMetrics) AddGas(types.CallType, uint64, uint64) {}
func (nopMetrics) IncRequest(types.CallType, string)     {}
func (nopMetrics) IncThrottled(types.CallType)           {}
