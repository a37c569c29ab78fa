package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CallType selects what the orchestrator does with a request.
type CallType uint8

const (
	CallTypeCall CallType = iota
	CallTypeEstimateGas
	CallTypeDebugTrace
)

func (c CallType) String() string {
	switch c {
	case CallTypeCall:
		return "ETH_CALL"
	case CallTypeEstimateGas:
		return "ETH_ESTIMATE_GAS"
	case CallTypeDebugTrace:
		return "ETH_DEBUG_TRACE_TRANSACTION"
	default:
		return "UNKNOWN"
	}
}

// CallRequest is one inbound simulation request. It is not modified after
// construction.
type CallRequest struct {
	From     common.Address
	To       *common.Address // nil for contract creation
	Data     []byte
	Value    *big.Int // tinybars
	Gas      uint64
	Static   bool
	CallType CallType
	Block    BlockReference
}

// ValueOrZero returns the value, treating nil as zero.
func (r *CallRequest) ValueOrZero() *big.Int {
	if r.Value == nil {
		return new(big.Int)
	}
	return r.Value
}
