package execution

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	ethparams "github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// transition is the record the modular stages share.
type transition struct {
	cc   *CallContext
	unit *Unit

	value   *uint256.Int
	gas     uint64 // remaining
	ret     []byte
	created *common.Address
	vmErr   error
	refund  uint64
}

// stage is one step of the modular pipeline. A returned error rejects the
// unit as a pre-check failure.
type stage interface {
	apply(t *transition) error
}

type modular struct {
	stages []stage
}

// NewModular returns the strategy that drives the interpreter directly
// through a fixed pipeline of stages.
func NewModular() Strategy {
	return &modular{stages: []stage{
		validateStage{},
		intrinsicGasStage{},
		nonceStage{},
		prepareStage{},
		executeStage{},
		refundStage{},
	}}
}

func (*modular) Name() string { return "modular" }

func (m *modular) Execute(cc *CallContext, u *Unit) (Outcome, error) {
	t := &transition{cc: cc, unit: u}
	for _, s := range m.stages {
		if err := s.apply(t); err != nil {
			return newPreCheckFailure(err), nil
		}
	}
	gasUsed := u.Gas - t.gas
	return conclude(cc, t.ret, t.vmErr, gasUsed, t.refund, t.created), nil
}

type validateStage struct{}

func (validateStage) apply(t *transition) error {
	u := t.unit
	if err := validate(t.cc, u); err != nil {
		return err
	}
	value, overflow := uint256.FromBig(u.value())
	if overflow {
		return fmt.Errorf("%w: address %v required balance exceeds 256 bits", core.ErrInsufficientFunds, u.From.Hex())
	}
	if !value.IsZero() && !t.cc.BlockContext.CanTransfer(t.cc.State, u.From, value) {
		return fmt.Errorf("%w: address %v", core.ErrInsufficientFundsForTransfer, u.From.Hex())
	}
	if t.cc.Rules.IsShanghai && u.To == nil && len(u.Data) > ethparams.MaxInitCodeSize {
		return fmt.Errorf("%w: code size %v limit %v", core.ErrMaxInitCodeSizeExceeded, len(u.Data), ethparams.MaxInitCodeSize)
	}
	t.value = value
	return nil
}

type intrinsicGasStage struct{}

func (intrinsicGasStage) apply(t *transition) error {
	gas, err := intrinsicGas(t.cc, t.unit)
	if err != nil {
		return err
	}
	t.gas = t.unit.Gas - gas
	return nil
}

type nonceStage struct{}

func (nonceStage) apply(t *transition) error {
	return checkNonce(t.cc.State, t.unit)
}

type prepareStage struct{}

func (prepareStage) apply(t *transition) error {
	cc, u := t.cc, t.unit
	cc.EVM().Reset(core.NewEVMTxContext(u.message()), cc.State)
	cc.State.Prepare(cc.Rules, u.From, cc.BlockContext.Coinbase, u.To, vm.ActivePrecompiles(cc.Rules), u.AccessList)
	return nil
}

type executeStage struct{}

func (executeStage) apply(t *transition) error {
	cc, u := t.cc, t.unit
	evm := cc.EVM()
	sender := vm.AccountRef(u.From)
	switch {
	case u.To == nil:
		ret, addr, left, err := evm.Create(sender, u.Data, t.gas, t.value)
		t.ret, t.gas, t.vmErr = ret, left, err
		if err == nil {
			t.created = &addr
		}
	case u.Static:
		t.ret, t.gas, t.vmErr = evm.StaticCall(sender, *u.To, u.Data, t.gas)
	default:
		cc.State.SetNonce(u.From, cc.State.GetNonce(u.From)+1)
		t.ret, t.gas, t.vmErr = evm.Call(sender, *u.To, u.Data, t.gas, t.value)
	}
	return nil
}

type refundStage struct{}

func (refundStage) apply(t *transition) error {
	t.refund = refundGas(t.cc, t.unit.Gas-t.gas)
	t.gas += t.refund
	return nil
}
