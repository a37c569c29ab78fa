package execution

import (
	"errors"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
)

// HaltReason classifies interpreter faults.
type HaltReason uint8

const (
	HaltUnknown HaltReason = iota
	HaltInsufficientGas
	HaltInvalidOperation
	HaltInvalidJumpDestination
	HaltInsufficientStackItems
	HaltTooManyStackItems
	HaltIllegalStateChange
	HaltContractCreationFailed
	HaltMaxCodeSizeExceeded
	HaltMaxInitCodeSizeExceeded
	HaltCallDepthExceeded
	HaltInsufficientBalance
	HaltReturnDataOutOfBounds
	HaltInvalidCode
	HaltNonceOverflow
)

var haltReasonNames = [...]string{
	HaltUnknown:                 "UNKNOWN",
	HaltInsufficientGas:         "INSUFFICIENT_GAS",
	HaltInvalidOperation:        "INVALID_OPERATION",
	HaltInvalidJumpDestination:  "INVALID_JUMP_DESTINATION",
	HaltInsufficientStackItems:  "INSUFFICIENT_STACK_ITEMS",
	HaltTooManyStackItems:       "TOO_MANY_STACK_ITEMS",
	HaltIllegalStateChange:      "ILLEGAL_STATE_CHANGE",
	HaltContractCreationFailed:  "CONTRACT_CREATION_FAILED",
	HaltMaxCodeSizeExceeded:     "MAX_CODE_SIZE_EXCEEDED",
	HaltMaxInitCodeSizeExceeded: "MAX_INITCODE_SIZE_EXCEEDED",
	HaltCallDepthExceeded:       "CALL_DEPTH_EXCEEDED",
	HaltInsufficientBalance:     "INSUFFICIENT_BALANCE",
	HaltReturnDataOutOfBounds:   "RETURN_DATA_OUT_OF_BOUNDS",
	HaltInvalidCode:             "INVALID_CODE",
	HaltNonceOverflow:           "NONCE_OVERFLOW",
}

func (h HaltReason) String() string {
	if int(h) < len(haltReasonNames) {
		return haltReasonNames[h]
	}
	return haltReasonNames[HaltUnknown]
}

var haltErrors = []struct {
	err    error
	reason HaltReason
}{
	{vm.ErrOutOfGas, HaltInsufficientGas},
	{vm.ErrCodeStoreOutOfGas, HaltInsufficientGas},
	{vm.ErrGasUintOverflow, HaltInsufficientGas},
	{vm.ErrInvalidJump, HaltInvalidJumpDestination},
	{vm.ErrWriteProtection, HaltIllegalStateChange},
	{vm.ErrContractAddressCollision, HaltContractCreationFailed},
	{vm.ErrMaxCodeSizeExceeded, HaltMaxCodeSizeExceeded},
	{vm.ErrMaxInitCodeSizeExceeded, HaltMaxInitCodeSizeExceeded},
	{vm.ErrDepth, HaltCallDepthExceeded},
	{vm.ErrInsufficientBalance, HaltInsufficientBalance},
	{vm.ErrReturnDataOutOfBounds, HaltReturnDataOutOfBounds},
	{vm.ErrInvalidCode, HaltInvalidCode},
	{vm.ErrNonceUintOverflow, HaltNonceOverflow},
}

// HaltReasonOf maps an interpreter error onto its halt reason.
func HaltReasonOf(err error) HaltReason {
	var (
		invalidOp *vm.ErrInvalidOpCode
		underflow *vm.ErrStackUnderflow
		overflow  *vm.ErrStackOverflow
	)
	switch {
	case errors.As(err, &invalidOp):
		return HaltInvalidOperation
	case errors.As(err, &underflow):
		return HaltInsufficientStackItems
	case errors.As(err, &overflow):
		return HaltTooManyStackItems
	}
	for _, h := range haltErrors {
		if errors.Is(err, h.err) {
			return h.reason
		}
	}
	return HaltUnknown
}

// PreCheckCode classifies units rejected before execution.
type PreCheckCode uint8

const (
	PreCheckInvalidTransaction PreCheckCode = iota
	PreCheckInsufficientGas
	PreCheckInsufficientPayerBalance
	PreCheckWrongNonce
	PreCheckMaxCodeSizeExceeded
	PreCheckMaxGasLimitExceeded
	PreCheckNegativeValue
	PreCheckInvalidSender
)

var preCheckNames = [...]string{
	PreCheckInvalidTransaction:       "INVALID_TRANSACTION",
	PreCheckInsufficientGas:          "INSUFFICIENT_GAS",
	PreCheckInsufficientPayerBalance: "INSUFFICIENT_PAYER_BALANCE",
	PreCheckWrongNonce:               "WRONG_NONCE",
	PreCheckMaxCodeSizeExceeded:      "MAX_CODE_SIZE_EXCEEDED",
	PreCheckMaxGasLimitExceeded:      "MAX_GAS_LIMIT_EXCEEDED",
	PreCheckNegativeValue:            "CONTRACT_NEGATIVE_VALUE",
	PreCheckInvalidSender:            "INVALID_SENDER",
}

func (c PreCheckCode) String() string {
	if int(c) < len(preCheckNames) {
		return preCheckNames[c]
	}
	return preCheckNames[PreCheckInvalidTransaction]
}

var (
	// ErrNegativeValue is reported for units transferring a negative amount.
	ErrNegativeValue = errors.New("negative value")

	// ErrGasLimitTooHigh is reported for units asking for more gas than a
	// single call may use.
	ErrGasLimitTooHigh = errors.New("gas limit above the maximum")
)

var preCheckErrors = []struct {
	err  error
	code PreCheckCode
}{
	{core.ErrIntrinsicGas, PreCheckInsufficientGas},
	{core.ErrInsufficientFunds, PreCheckInsufficientPayerBalance},
	{core.ErrInsufficientFundsForTransfer, PreCheckInsufficientPayerBalance},
	{core.ErrNonceTooLow, PreCheckWrongNonce},
	{core.ErrNonceTooHigh, PreCheckWrongNonce},
	{core.ErrNonceMax, PreCheckWrongNonce},
	{core.ErrMaxInitCodeSizeExceeded, PreCheckMaxCodeSizeExceeded},
	{core.ErrGasLimitReached, PreCheckMaxGasLimitExceeded},
	{ErrGasLimitTooHigh, PreCheckMaxGasLimitExceeded},
	{ErrNegativeValue, PreCheckNegativeValue},
	{core.ErrSenderNoEOA, PreCheckInvalidSender},
}

func newPreCheckFailure(err error) *PreCheckFailure {
	for _, p := range preCheckErrors {
		if errors.Is(err, p.err) {
			return &PreCheckFailure{Code: p.code, Err: err}
		}
	}
	return &PreCheckFailure{Code: PreCheckInvalidTransaction, Err: err}
}
