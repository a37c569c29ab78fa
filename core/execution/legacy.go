package execution

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
)

type legacy struct{}

// NewLegacy returns the strategy that hands a transaction body to the
// standard state transition.
func NewLegacy() Strategy {
	return legacy{}
}

func (legacy) Name() string { return "legacy" }

func (l legacy) Execute(cc *CallContext, u *Unit) (Outcome, error) {
	if err := validate(cc, u); err != nil {
		return newPreCheckFailure(err), nil
	}
	msg := u.message()
	if u.Static {
		return l.static(cc, u, msg)
	}

	nonce := cc.State.GetNonce(u.From)
	evm := cc.EVM()
	evm.Reset(core.NewEVMTxContext(msg), cc.State)
	res, err := core.ApplyMessage(evm, msg, new(core.GasPool).AddGas(msg.GasLimit))
	if err != nil {
		return newPreCheckFailure(err), nil
	}
	var created *common.Address
	if u.To == nil && res.Err == nil {
		addr := crypto.CreateAddress(u.From, nonce)
		created = &addr
	}
	return conclude(cc, res.ReturnData, res.Err, res.UsedGas, res.RefundedGas, created), nil
}

// static runs a read only call. The state transition has no static mode, so
// the pre-checks it would apply are repeated here.
func (legacy) static(cc *CallContext, u *Unit, msg *core.Message) (Outcome, error) {
	evm := cc.EVM()
	evm.Reset(core.NewEVMTxContext(msg), cc.State)
	if err := checkNonce(cc.State, u); err != nil {
		return newPreCheckFailure(err), nil
	}
	intrinsic, err := intrinsicGas(cc, u)
	if err != nil {
		return newPreCheckFailure(err), nil
	}
	cc.State.Prepare(cc.Rules, u.From, cc.BlockContext.Coinbase, u.To, vm.ActivePrecompiles(cc.Rules), u.AccessList)

	ret, left, vmErr := evm.StaticCall(vm.AccountRef(u.From), *u.To, u.Data, u.Gas-intrinsic)
	gasUsed := u.Gas - left
	refund := refundGas(cc, gasUsed)
	return conclude(cc, ret, vmErr, gasUsed-refund, refund, nil), nil
}
