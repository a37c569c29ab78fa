package logger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TraceResult is the response of an opcode trace.
type TraceResult struct {
	Address     common.Address `json:"address"`
	ContractID  string         `json:"contractId"`
	Failed      bool           `json:"failed"`
	Gas         uint64         `json:"gasUsed"`
	Opcodes     []Opcode       `json:"opcodes"`
	ReturnValue hexutil.Bytes  `json:"returnValue"`
	Truncated   bool           `json:"truncated,omitempty"`
}
