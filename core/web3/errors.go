package web3

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
)

// ErrThrottled is returned when a request is rejected by the gas bucket or
// the request rate limiter.
var ErrThrottled = errors.New("rate limit exceeded")

// EntityKind names the artifact a trace lookup could not find.
type EntityKind string

const (
	KindTransactionHash EntityKind = "TransactionHash"
	KindTransaction     EntityKind = "Transaction"
	KindContractResult  EntityKind = "ContractResult"
)

// EntityNotFoundError is returned when a record needed to replay a
// transaction is missing.
type EntityNotFoundError struct {
	Kind EntityKind
	Key  string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// PreCheckError is a request rejected before execution.
type PreCheckError struct {
	Code execution.PreCheckCode
	Err  error
}

func (e *PreCheckError) Error() string {
	if e.Err == nil {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *PreCheckError) Unwrap() error { return e.Err }

// RevertError is an execution that reverted. Reason holds the decoded
// revert message, if any.
type RevertError struct {
	Data    []byte
	Reason  string
	GasUsed uint64
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

// HexData returns the revert data as hex.
func (e *RevertError) HexData() string {
	return hexutil.Encode(e.Data)
}

// HaltError is an execution stopped by the interpreter.
type HaltError struct {
	Reason  execution.HaltReason
	GasUsed uint64
	Err     error
}

func (e *HaltError) Error() string {
	if e.Err == nil {
		return e.Reason.String()
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *HaltError) Unwrap() error { return e.Err }

// outcomeError converts a failed outcome into the error a caller sees. It
// returns nil for a success.
func outcomeError(o execution.Outcome) error {
	switch o := o.(type) {
	case *execution.Success:
		return nil
	case *execution.Revert:
		return &RevertError{Data: o.Data, Reason: o.Message, GasUsed: o.GasUsed}
	case *execution.Halt:
		return &HaltError{Reason: o.Code, GasUsed: o.GasUsed, Err: o.Err}
	case *execution.PreCheckFailure:
		return &PreCheckError{Code: o.Code, Err: o.Err}
	default:
		panic(fmt.Sprintf("web3: unknown outcome %T", o))
	}
}
