package limiter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
)

type countLimiter struct {
	opcodeLimit [256]uint64
	opcodeCount [256]uint64

	precompileLimit map[common.Address]uint64
	precompileCount map[common.Address]uint64
}

func newCountLimiter(cfg *CountLimitConfig) ExecutionLimiter {
	if cfg == nil {
		return nil
	}
	lim := &countLimiter{
		precompileLimit: make(map[common.Address]uint64, len(cfg.Precompile)),
		precompileCount: make(map[common.Address]uint64),
	}
	for op, limit := range cfg.Opcode {
		lim.opcodeLimit[int(op)] = limit
	}
	for addr, limit := range cfg.Precompile {
		lim.precompileLimit[addr] = limit
		log.Trace("limiter: configured precompile limit", "addr", addr, "limit", limit)
	}
	return lim
}

func (l *countLimiter) TrackOpcode(op vm.OpCode, _ uint64) error {
	idx := int(op)
	if limit := l.opcodeLimit[idx]; limit > 0 {
		if l.opcodeCount[idx] >= limit {
			return opcodeLimitError(op, CountScope, limit)
		}
		l.opcodeCount[idx]++
	}
	return nil
}

func (l *countLimiter) TrackPrecompile(addr common.Address, _ uint64) error {
	if limit, ok := l.precompileLimit[addr]; ok && limit > 0 {
		if count := l.precompileCount[addr]; count >= limit {
			return precompileLimitError(addr, CountScope, limit)
		}
		l.precompileCount[addr]++
	}
	return nil
}
