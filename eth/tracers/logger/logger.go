// Package logger records opcode level traces of a single execution.
package logger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Config selects what each step captures. The zero value captures the stack
// and storage but not memory, matching debug_traceTransaction defaults.
type Config struct {
	EnableMemory   bool `json:"enableMemory"`
	DisableStack   bool `json:"disableStack"`
	DisableStorage bool `json:"disableStorage"`
	Limit          int  `json:"limit"` // maximum number of steps recorded, zero for no limit
}

// Opcode is one recorded step.
type Opcode struct {
	Pc      uint64            `json:"pc"`
	Op      string            `json:"op"`
	Gas     uint64            `json:"gas"`
	GasCost uint64            `json:"gasCost"`
	Depth   int               `json:"depth"`
	Stack   []string          `json:"stack"`
	Memory  []string          `json:"memory"`
	Storage map[string]string `json:"storage"`
	Reason  *string           `json:"reason"`
}

// StateReader is the state the logger reads SLOAD results from.
type StateReader interface {
	GetState(common.Address, common.Hash) common.Hash
}

type callFrame struct {
	typ        vm.OpCode
	to         common.Address
	gas        uint64
	precompile bool
}

// OpcodeLogger collects an Opcode for every executed instruction, plus one
// synthetic step for each call into a precompile, which has no bytecode.
// Depths are zero based at the top level call.
type OpcodeLogger struct {
	cfg         Config
	state       StateReader
	precompiles map[common.Address]struct{}

	steps     []Opcode
	truncated bool
	frames    []callFrame
	storage   map[common.Address]map[common.Hash]common.Hash
}

// NewOpcodeLogger returns a logger reading state through state. A nil cfg
// selects the defaults.
func NewOpcodeLogger(cfg *Config, state StateReader, precompiles []common.Address) *OpcodeLogger {
	l := &OpcodeLogger{
		state:       state,
		precompiles: make(map[common.Address]struct{}, len(precompiles)),
		storage:     make(map[common.Address]map[common.Hash]common.Hash),
	}
	if cfg != nil {
		l.cfg = *cfg
	}
	for _, addr := range precompiles {
		l.precompiles[addr] = struct{}{}
	}
	return l
}

func (l *OpcodeLogger) Hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnOpcode: l.OnOpcode,
		OnFault:  l.OnFault,
		OnEnter:  l.OnEnter,
		OnExit:   l.OnExit,
	}
}

// Steps returns the recorded trace.
func (l *OpcodeLogger) Steps() []Opcode {
	return l.steps
}

// Truncated reports whether steps were dropped because of Config.Limit.
// A truncated trace keeps the first Limit-1 steps followed by the last
// executed step, so a failure reason always lands on the failing step.
func (l *OpcodeLogger) Truncated() bool {
	return l.truncated
}

// Finalize sets the reason of the final step. It is called once execution
// is known to have failed.
func (l *OpcodeLogger) Finalize(reason string) {
	if reason == "" || len(l.steps) == 0 {
		return
	}
	l.steps[len(l.steps)-1].Reason = &reason
}

func (l *OpcodeLogger) record(step Opcode) bool {
	if l.cfg.Limit > 0 && len(l.steps) >= l.cfg.Limit {
		l.truncated = true
		l.steps[len(l.steps)-1] = step
		return false
	}
	l.steps = append(l.steps, step)
	return true
}

func (l *OpcodeLogger) OnOpcode(pc uint64, opcode byte, gas, cost uint64, scope tracing.OpContext, rData []byte, depth int, err error) {
	op := vm.OpCode(opcode)
	step := Opcode{
		Pc:      pc,
		Op:      op.String(),
		Gas:     gas,
		GasCost: cost,
		Depth:   depth - 1,
	}
	stack := scope.StackData()
	if !l.cfg.DisableStack {
		step.Stack = make([]string, len(stack))
		for i, word := range stack {
			b := word.Bytes32()
			step.Stack[i] = hexutil.Encode(b[:])
		}
	}
	if l.cfg.EnableMemory {
		step.Memory = words(scope.MemoryData())
	}
	if trace, ok := storageExecs[op]; ok && !l.cfg.DisableStorage {
		step.Storage = trace(l, scope.Address(), stack)
	}
	if err != nil {
		reason := err.Error()
		step.Reason = &reason
	}
	l.record(step)
}

func (l *OpcodeLogger) OnFault(pc uint64, op byte, gas, cost uint64, scope tracing.OpContext, depth int, err error) {
	if err == nil || len(l.steps) == 0 {
		return
	}
	reason := err.Error()
	l.steps[len(l.steps)-1].Reason = &reason
}

func (l *OpcodeLogger) OnEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	_, precompile := l.precompiles[to]
	l.frames = append(l.frames, callFrame{typ: vm.OpCode(typ), to: to, gas: gas, precompile: precompile})
}

func (l *OpcodeLogger) OnExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if len(l.frames) == 0 {
		return
	}
	frame := l.frames[len(l.frames)-1]
	l.frames = l.frames[:len(l.frames)-1]
	if !frame.precompile || frame.typ == vm.SELFDESTRUCT {
		return
	}
	step := Opcode{
		Op:      frame.typ.String(),
		Gas:     frame.gas,
		GasCost: gasUsed,
		Depth:   depth,
	}
	if err != nil {
		reason := err.Error()
		if len(output) > 0 {
			reason = hexutil.Encode(output)
		}
		step.Reason = &reason
	}
	l.record(step)
}

// words splits memory into 32 byte hex words.
func words(memory []byte) []string {
	out := make([]string, 0, (len(memory)+31)/32)
	for i := 0; i < len(memory); i += 32 {
		end := min(i+32, len(memory))
		out = append(out, hexutil.Encode(memory[i:end]))
	}
	return out
}
