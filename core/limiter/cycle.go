package limiter

import (
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
)

// cycleLimiter tracks weighted execution costs to prevent resource exhaustion.
// Opcodes cost gasUsed × multiplier, precompiles (callOverhead + gasUsed) ×
// multiplier.
type cycleLimiter struct {
	callOverhead          uint64                    // base cost per precompile call
	threshold             uint64                    // max cycles allowed per request
	opcodeCyclePerGas     [256]uint64               // weight per opcode
	precompileCyclePerGas map[common.Address]uint64 // weight per precompile

	cycles uint64
}

func newCycleLimiter(cfg *CycleLimitConfig) ExecutionLimiter {
	if cfg == nil || cfg.Threshold == 0 {
		return nil
	}
	lim := &cycleLimiter{
		callOverhead:          cfg.CallOverhead,
		threshold:             cfg.Threshold,
		precompileCyclePerGas: make(map[common.Address]uint64, len(cfg.PrecompileCyclePerGas)),
	}
	for op, multiplier := range cfg.OpcodeCyclePerGas {
		lim.opcodeCyclePerGas[int(op)] = multiplier
	}
	for addr, multiplier := range cfg.PrecompileCyclePerGas {
		lim.precompileCyclePerGas[addr] = multiplier
	}
	return lim
}

// TrackOpcode records cycles for an opcode execution.
func (l *cycleLimiter) TrackOpcode(op vm.OpCode, gasUsed uint64) error {
	multiplier := l.opcodeCyclePerGas[int(op)]
	if multiplier == 0 {
		return nil
	}
	hi, cycles := bits.Mul64(gasUsed, multiplier)
	if hi != 0 || !l.add(cycles) {
		return opcodeLimitError(op, CycleScope, l.threshold)
	}
	return nil
}

// TrackPrecompile records cycles for a precompile call.
func (l *cycleLimiter) TrackPrecompile(addr common.Address, gasUsed uint64) error {
	multiplier := l.precompileCyclePerGas[addr]
	if multiplier == 0 {
		return nil
	}
	total := l.callOverhead + gasUsed
	if total < gasUsed {
		return precompileLimitError(addr, CycleScope, l.threshold)
	}
	hi, cycles := bits.Mul64(total, multiplier)
	if hi != 0 || !l.add(cycles) {
		return precompileLimitError(addr, CycleScope, l.threshold)
	}
	return nil
}

// add accumulates delta, reporting false on overflow or when the threshold is
// exceeded. The total is left unchanged in that case.
func (l *cycleLimiter) add(delta uint64) bool {
	actual := l.cycles + delta
	if actual < l.cycles || actual > l.threshold {
		log.Trace("limiter: cycle threshold exceeded", "delta", delta, "before", l.cycles, "limit", l.threshold)
		return false
	}
	l.cycles = actual
	return true
}
