package logger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/holiman/uint256"
)

type storageFunc func(l *OpcodeLogger, contract common.Address, stack []uint256.Int) map[string]string

// storageExecs lists the opcodes whose steps carry the contract's observed
// storage.
var storageExecs = map[vm.OpCode]storageFunc{
	vm.SLOAD:  traceLoad,
	vm.SSTORE: traceStore,
}

// traceLoad records the slot at stack.peek() as read through the state.
func traceLoad(l *OpcodeLogger, contract common.Address, stack []uint256.Int) map[string]string {
	slots := l.slots(contract)
	if n := len(stack); n >= 1 {
		key := common.Hash(stack[n-1].Bytes32())
		slots[key] = l.state.GetState(contract, key)
	}
	return render(slots)
}

// traceStore records the value about to be written, stack.nth_last(1), at
// stack.peek().
func traceStore(l *OpcodeLogger, contract common.Address, stack []uint256.Int) map[string]string {
	slots := l.slots(contract)
	if n := len(stack); n >= 2 {
		key := common.Hash(stack[n-1].Bytes32())
		slots[key] = common.Hash(stack[n-2].Bytes32())
	}
	return render(slots)
}

func (l *OpcodeLogger) slots(contract common.Address) map[common.Hash]common.Hash {
	slots, ok := l.storage[contract]
	if !ok {
		slots = make(map[common.Hash]common.Hash)
		l.storage[contract] = slots
	}
	return slots
}

func render(slots map[common.Hash]common.Hash) map[string]string {
	out := make(map[string]string, len(slots))
	for k, v := range slots {
		out[k.Hex()] = v.Hex()
	}
	return out
}
