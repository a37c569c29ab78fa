package limiter

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Tracker feeds interpreter events into an ExecutionLimiter. The first
// breach is latched and the abort function, the interpreter's Cancel, is
// called so execution stops at the next opcode.
type Tracker struct {
	limiter     ExecutionLimiter
	precompiles map[common.Address]struct{}
	abort       func()

	callees []common.Address
	err     error
}

// NewTracker returns a tracker for limiter. precompiles lists the addresses
// whose calls count as precompile invocations.
func NewTracker(limiter ExecutionLimiter, precompiles []common.Address, abort func()) *Tracker {
	set := make(map[common.Address]struct{}, len(precompiles))
	for _, addr := range precompiles {
		set[addr] = struct{}{}
	}
	return &Tracker{limiter: limiter, precompiles: set, abort: abort}
}

// SetAbort replaces the abort function.
func (t *Tracker) SetAbort(abort func()) {
	t.abort = abort
}

// Err returns the first limit breached, if any.
func (t *Tracker) Err() error {
	return t.err
}

// Hooks returns nil when the tracker has no limiter.
func (t *Tracker) Hooks() *tracing.Hooks {
	if t == nil || t.limiter == nil {
		return nil
	}
	return &tracing.Hooks{
		OnOpcode: t.onOpcode,
		OnEnter:  t.onEnter,
		OnExit:   t.onExit,
	}
}

func (t *Tracker) fail(err error) {
	if err == nil || t.err != nil {
		return
	}
	t.err = err
	if t.abort != nil {
		t.abort()
	}
}

func (t *Tracker) onOpcode(pc uint64, op byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	if t.err != nil {
		return
	}
	t.fail(t.limiter.TrackOpcode(vm.OpCode(op), cost))
}

func (t *Tracker) onEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	t.callees = append(t.callees, to)
}

func (t *Tracker) onExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if len(t.callees) == 0 {
		return
	}
	to := t.callees[len(t.callees)-1]
	t.callees = t.callees[:len(t.callees)-1]
	if _, ok := t.precompiles[to]; !ok || t.err != nil {
		return
	}
	t.fail(t.limiter.TrackPrecompile(to, gasUsed))
}
