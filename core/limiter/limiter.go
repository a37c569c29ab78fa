// Package limiter caps how many times a single request may run expensive
// opcodes and precompiles.
package limiter

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// ExecutionLimiter enforces execution limits over one request. Count and
// cycle based implementations can be swapped in through configuration.
type ExecutionLimiter interface {
	TrackOpcode(op vm.OpCode, gasUsed uint64) error
	TrackPrecompile(addr common.Address, gasUsed uint64) error
}

// LimiterScope names the kind of limit that was breached.
type LimiterScope uint8

const (
	CountScope LimiterScope = iota
	CycleScope
)

func (s LimiterScope) String() string {
	if s == CycleScope {
		return "cycles"
	}
	return "count"
}

type ErrOpcodeLimit struct {
	Opcode vm.OpCode
	Scope  LimiterScope
	Limit  uint64
}

func (e *ErrOpcodeLimit) Error() string {
	return fmt.Sprintf("opcode %s exceeded %s limit %d", e.Opcode, e.Scope, e.Limit)
}

type ErrPrecompileLimit struct {
	Address common.Address
	Scope   LimiterScope
	Limit   uint64
}

func (e *ErrPrecompileLimit) Error() string {
	return fmt.Sprintf("precompile %s exceeded %s limit %d", e.Address.Hex(), e.Scope, e.Limit)
}

func opcodeLimitError(op vm.OpCode, scope LimiterScope, limit uint64) error {
	return &ErrOpcodeLimit{Opcode: op, Scope: scope, Limit: limit}
}

func precompileLimitError(addr common.Address, scope LimiterScope, limit uint64) error {
	return &ErrPrecompileLimit{Address: addr, Scope: scope, Limit: limit}
}

// New builds a fresh ExecutionLimiter for one request, or nil when no limits
// are configured. Cycle based limits take precedence over count based limits
// if both are present.
func New(cfg LimitConfig) ExecutionLimiter {
	if cfg.Empty() {
		return nil
	}
	if cfg.Cycle != nil {
		return newCycleLimiter(cfg.Cycle)
	}
	return newCountLimiter(cfg.Count)
}
