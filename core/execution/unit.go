package execution

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/state"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

var (
	// ErrStaticCreate is reported for a static unit without a receiver.
	ErrStaticCreate = errors.New("static call cannot create a contract")

	// ErrStaticValue is reported for a static unit transferring value.
	ErrStaticValue = errors.New("static call cannot transfer value")
)

// Unit is one executable call, built from a request or a recorded
// transaction.
type Unit struct {
	From       common.Address
	To         *common.Address // nil for contract creation
	Data       []byte
	Value      *big.Int
	Gas        uint64
	Nonce      *uint64 // checked against the sender's nonce when set
	Static     bool
	AccessList ethtypes.AccessList
}

// NewUnit converts a request into a unit.
func NewUnit(req *types.CallRequest) *Unit {
	return &Unit{
		From:   req.From,
		To:     req.To,
		Data:   req.Data,
		Value:  req.ValueOrZero(),
		Gas:    req.Gas,
		Static: req.Static,
	}
}

// WithGas returns a copy of u with a different gas limit.
func (u *Unit) WithGas(gas uint64) *Unit {
	cpy := *u
	cpy.Gas = gas
	return &cpy
}

func (u *Unit) value() *big.Int {
	if u.Value == nil {
		return new(big.Int)
	}
	return u.Value
}

// message builds the transaction body the state transition consumes. Calls
// never pay for gas.
func (u *Unit) message() *core.Message {
	msg := &core.Message{
		From:             u.From,
		To:               u.To,
		Value:            u.value(),
		GasLimit:         u.Gas,
		GasPrice:         new(big.Int),
		GasFeeCap:        new(big.Int),
		GasTipCap:        new(big.Int),
		Data:             u.Data,
		AccessList:       u.AccessList,
		SkipNonceChecks:  u.Nonce == nil,
		SkipFromEOACheck: true,
	}
	if u.Nonce != nil {
		msg.Nonce = *u.Nonce
	}
	return msg
}

// validate runs the checks both strategies apply before handing a unit to
// the interpreter.
func validate(cc *CallContext, u *Unit) error {
	if u.value().Sign() < 0 {
		return ErrNegativeValue
	}
	if u.Gas > cc.MaxGasLimit {
		return fmt.Errorf("%w: have %d, max %d", ErrGasLimitTooHigh, u.Gas, cc.MaxGasLimit)
	}
	if u.Static {
		if u.To == nil {
			return ErrStaticCreate
		}
		if u.value().Sign() != 0 {
			return ErrStaticValue
		}
	}
	return nil
}

func checkNonce(statedb *state.StateDB, u *Unit) error {
	if u.Nonce == nil {
		return nil
	}
	have, want := statedb.GetNonce(u.From), *u.Nonce
	switch {
	case have < want:
		return fmt.Errorf("%w: address %v, tx: %d state: %d", core.ErrNonceTooHigh, u.From.Hex(), want, have)
	case have > want:
		return fmt.Errorf("%w: address %v, tx: %d state: %d", core.ErrNonceTooLow, u.From.Hex(), want, have)
	case have+1 < have:
		return fmt.Errorf("%w: address %v, nonce: %d", core.ErrNonceMax, u.From.Hex(), have)
	}
	return nil
}

func intrinsicGas(cc *CallContext, u *Unit) (uint64, error) {
	gas, err := core.IntrinsicGas(u.Data, u.AccessList, u.To == nil, cc.Rules.IsHomestead, cc.Rules.IsIstanbul, cc.Rules.IsShanghai)
	if err != nil {
		return 0, err
	}
	if u.Gas < gas {
		return 0, fmt.Errorf("%w: have %d, want %d", core.ErrIntrinsicGas, u.Gas, gas)
	}
	return gas, nil
}
