// Package execution drives one unit through the interpreter and classifies
// what happened.
package execution

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	ethparams "github.com/ethereum/go-ethereum/params"
)

// Strategy executes a unit against a call context. Implementations agree on
// the outcome for every unit and differ only in how they drive the
// interpreter.
type Strategy interface {
	Name() string
	// Execute returns an outcome, or an error when the strategy itself
	// could not run.
	Execute(cc *CallContext, unit *Unit) (Outcome, error)
}

// Run executes unit with s. Infrastructure errors raised during execution
// take precedence over whatever outcome the interpreter produced, since a
// cancelled or starved interpreter can look like a success.
func Run(cc *CallContext, s Strategy, unit *Unit) (Outcome, error) {
	outcome, err := s.Execute(cc, unit)
	if infraErr := cc.Err(); infraErr != nil {
		return nil, infraErr
	}
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// refundGas is the part of gasUsed returned to the sender from the refund
// counter.
func refundGas(cc *CallContext, gasUsed uint64) uint64 {
	quotient := ethparams.RefundQuotient
	if cc.Rules.IsLondon {
		quotient = ethparams.RefundQuotientEIP3529
	}
	return min(gasUsed/quotient, cc.State.GetRefund())
}

// conclude classifies the interpreter's result.
func conclude(cc *CallContext, ret []byte, vmErr error, gasUsed, refund uint64, created *common.Address) Outcome {
	switch {
	case vmErr == nil:
		return &Success{
			GasUsed:    gasUsed,
			Refund:     refund,
			ReturnData: ret,
			Logs:       cc.State.Logs(),
			Created:    created,
		}
	case errors.Is(vmErr, vm.ErrExecutionReverted):
		return newRevert(ret, gasUsed)
	default:
		return &Halt{GasUsed: gasUsed, Code: HaltReasonOf(vmErr), Err: vmErr}
	}
}
