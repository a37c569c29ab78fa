package execution

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Outcome is the result of executing one unit. It is one of *Success,
// *Revert, *Halt or *PreCheckFailure.
type Outcome interface {
	// Reason describes why execution failed, empty on success.
	Reason() string
	outcome()
}

// Success is a unit that ran to completion.
type Success struct {
	GasUsed    uint64
	Refund     uint64
	ReturnData []byte
	Logs       []*ethtypes.Log
	Created    *common.Address // set when the unit deployed a contract
}

// Revert is a unit that executed REVERT at the top level, or that failed
// inside a system contract.
type Revert struct {
	GasUsed uint64
	Data    []byte
	Message string // decoded Error(string) or Panic(uint256), empty otherwise
}

// Halt is an interpreter fault such as an invalid opcode or running out of
// gas mid execution.
type Halt struct {
	GasUsed uint64
	Code    HaltReason
	Err     error
}

// PreCheckFailure is a unit rejected before any gas was spent.
type PreCheckFailure struct {
	Code PreCheckCode
	Err  error
}

func (*Success) outcome()         {}
func (*Revert) outcome()          {}
func (*Halt) outcome()            {}
func (*PreCheckFailure) outcome() {}

func (*Success) Reason() string { return "" }

// contractRevertExecuted is reported for reverts that carry no decodable
// message.
const contractRevertExecuted = "CONTRACT_REVERT_EXECUTED"

func (r *Revert) Reason() string {
	if r.Message != "" {
		return r.Message
	}
	return contractRevertExecuted
}

// HexData renders the revert payload the way it is returned to clients.
func (r *Revert) HexData() string {
	return hexutil.Encode(r.Data)
}

func (h *Halt) Reason() string { return h.Code.String() }

func (p *PreCheckFailure) Reason() string { return p.Code.String() }

func (p *PreCheckFailure) Unwrap() error { return p.Err }

func newRevert(data []byte, gasUsed uint64) *Revert {
	r := &Revert{GasUsed: gasUsed, Data: common.CopyBytes(data)}
	if msg, err := abi.UnpackRevert(data); err == nil {
		r.Message = msg
	}
	return r
}

// GasUsed returns the gas charged for o. Pre-check failures charge nothing.
func GasUsed(o Outcome) uint64 {
	switch o := o.(type) {
	case *Success:
		return o.GasUsed
	case *Revert:
		return o.GasUsed
	case *Halt:
		return o.GasUsed
	case *PreCheckFailure:
		return 0
	default:
		panic(fmt.Sprintf("execution: unexpected outcome %T", o))
	}
}

// Failed reports whether o is anything but a success.
func Failed(o Outcome) bool {
	_, ok := o.(*Success)
	return !ok
}
