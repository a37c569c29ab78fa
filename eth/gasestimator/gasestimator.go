// Copyright 2023 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package gasestimator searches for the smallest gas limit a call succeeds
// with.
package gasestimator

import (
	"context"
	"errors"
	"math/bits"

	ethparams "github.com/ethereum/go-ethereum/params"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
)

// DefaultErrorRatio is the overestimation accepted in exchange for fewer
// trial executions.
const DefaultErrorRatio = 0.015

// ErrNoGasLimit is returned when neither the call nor the options provide a
// gas limit to start from.
var ErrNoGasLimit = errors.New("gas estimation requires a gas limit")

// RunFunc executes the call once at the given gas limit. Every invocation
// must use fresh state.
type RunFunc func(ctx context.Context, gas uint64) (execution.Outcome, error)

// Options are the parameters of an estimation.
type Options struct {
	GasLimit    uint64  // gas provided with the call, 0 if none
	MaxGasLimit uint64  // upper bound used when GasLimit is 0
	ErrorRatio  float64 // allowed relative overestimation
}

func (o *Options) limit() uint64 {
	if o.GasLimit != 0 {
		return o.GasLimit
	}
	return o.MaxGasLimit
}

// Estimate returns the lowest gas limit, within the error ratio, that lets
// the call run successfully. When the call cannot succeed, the failed outcome
// that ends the search is returned instead. Infrastructure errors are
// returned as errors.
func Estimate(ctx context.Context, run RunFunc, opts Options) (uint64, execution.Outcome, error) {
	hi := opts.limit()
	if hi == 0 {
		return 0, nil, ErrNoGasLimit
	}
	// Execute at the highest allowable gas limit first. If that fails there
	// is nothing to search for.
	outcome, err := run(ctx, hi)
	if err != nil {
		return 0, nil, err
	}
	baseline, ok := outcome.(*execution.Success)
	if !ok {
		return 0, outcome, nil
	}
	// The gas consumed by the unconstrained execution lower-bounds the limit
	// required for it to succeed.
	var lo uint64
	if baseline.GasUsed > 0 {
		lo = baseline.GasUsed - 1
	}
	// Most calls succeed with the gas used plus the refund, allowing for the
	// 63/64 rule on nested calls. Try that first to narrow the search.
	optimistic := (baseline.GasUsed + baseline.Refund + ethparams.CallStipend) * 64 / 63
	if optimistic < hi {
		failed, outcome, err := trial(ctx, run, optimistic)
		if err != nil || outcome != nil {
			return 0, outcome, err
		}
		if failed {
			lo = optimistic
		} else {
			hi = optimistic
		}
	}
	for i, n := 0, maxTrials(opts.limit()); lo+1 < hi && i < n; i++ {
		if opts.ErrorRatio > 0 && float64(hi-lo)/float64(hi) < opts.ErrorRatio {
			break
		}
		mid := (hi + lo) / 2
		if mid > lo*2 {
			// Bisect skewed to the low side, most calls need little more
			// than they used.
			mid = lo * 2
		}
		failed, outcome, err := trial(ctx, run, mid)
		if err != nil || outcome != nil {
			return 0, outcome, err
		}
		if failed {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil, nil
}

// trial runs the call at gas and reports whether the limit was too low. A
// non-nil outcome aborts the search.
func trial(ctx context.Context, run RunFunc, gas uint64) (bool, execution.Outcome, error) {
	outcome, err := run(ctx, gas)
	if err != nil {
		return true, nil, err
	}
	switch o := outcome.(type) {
	case *execution.Success:
		return false, nil, nil
	case *execution.Revert, *execution.Halt:
		return true, nil, nil
	case *execution.PreCheckFailure:
		if o.Code == execution.PreCheckInsufficientGas {
			return true, nil, nil
		}
		return true, o, nil
	default:
		panic("gasestimator: unknown outcome")
	}
}

// maxTrials bounds the binary search to ⌈log2(limit)⌉ + 1 iterations.
func maxTrials(limit uint64) int {
	if limit <= 1 {
		return 1
	}
	return bits.Len64(limit-1) + 1
}
