package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockKind tags the symbolic form of a block reference.
type BlockKind uint8

const (
	BlockLatest BlockKind = iota
	BlockEarliest
	BlockSafe
	BlockPending
	BlockFinalized
	BlockNumber
)

var blockKindNames = map[BlockKind]string{
	BlockLatest:    "latest",
	BlockEarliest:  "earliest",
	BlockSafe:      "safe",
	BlockPending:   "pending",
	BlockFinalized: "finalized",
}

// BlockReference identifies the record a request executes against. The zero
// value is "latest".
type BlockReference struct {
	Kind   BlockKind
	Number uint64
}

var (
	LatestBlock    = BlockReference{Kind: BlockLatest}
	EarliestBlock  = BlockReference{Kind: BlockEarliest}
	SafeBlock      = BlockReference{Kind: BlockSafe}
	PendingBlock   = BlockReference{Kind: BlockPending}
	FinalizedBlock = BlockReference{Kind: BlockFinalized}
)

// BlockAt returns an explicit index reference.
func BlockAt(n uint64) BlockReference {
	return BlockReference{Kind: BlockNumber, Number: n}
}

func (b BlockReference) String() string {
	if b.Kind == BlockNumber {
		return hexutil.EncodeUint64(b.Number)
	}
	if name, ok := blockKindNames[b.Kind]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", b.Kind)
}

// ParseBlockReference accepts a tag, a 0x quantity or a decimal number.
func ParseBlockReference(s string) (BlockReference, error) {
	input := strings.TrimSpace(s)
	for kind, name := range blockKindNames {
		if input == name {
			return BlockReference{Kind: kind}, nil
		}
	}
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		n, err := hexutil.DecodeUint64(strings.ToLower(input))
		if err != nil {
			return BlockReference{}, fmt.Errorf("invalid block number %q: %w", s, err)
		}
		return BlockAt(n), nil
	}
	n, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return BlockReference{}, fmt.Errorf("invalid block number %q", s)
	}
	return BlockAt(n), nil
}

func (b BlockReference) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

func (b *BlockReference) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if numErr := json.Unmarshal(data, &n); numErr != nil {
			return err
		}
		*b = BlockAt(n)
		return nil
	}
	ref, err := ParseBlockReference(s)
	if err != nil {
		return err
	}
	*b = ref
	return nil
}
