package model

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

type (
	// RecordFile is one block of the mirror record stream. Its consensus
	// interval, together with its index, defines a historical range.
	RecordFile struct {
		bun.BaseModel `bun:"table:record_file,alias:r"`

		Index            int64  `bun:"index,pk"`           // Block number.
		ConsensusStart   int64  `bun:"consensus_start"`    // First transaction timestamp, in ns.
		ConsensusEnd     int64  `bun:"consensus_end"`      // Last transaction timestamp, in ns.
		Hash             string `bun:"hash"`               // Running hash, hex encoded.
		GasUsed          int64  `bun:"gas_used"`           // Gas consumed by contract transactions.
		HapiVersionMajor int    `bun:"hapi_version_major"` // Services version that produced the file.
		HapiVersionMinor int    `bun:"hapi_version_minor"` // Services version that produced the file.
		HapiVersionPatch int    `bun:"hapi_version_patch"` // Services version that produced the file.
		Count            int64  `bun:"count,notnull"`      // Number of transactions.
	}
)

// Range converts the record file into the half open interval it owns.
func (r *RecordFile) Range() *types.HistoricalRange {
	gasUsed := uint64(0)
	if r.GasUsed > 0 {
		gasUsed = uint64(r.GasUsed)
	}
	return &types.HistoricalRange{
		Index:   uint64(r.Index),
		Start:   r.ConsensusStart,
		End:     r.ConsensusEnd + 1,
		Hash:    blockHash(r.Hash),
		GasUsed: gasUsed,
		Version: types.HapiVersion{
			Major: r.HapiVersionMajor,
			Minor: r.HapiVersionMinor,
			Patch: r.HapiVersionPatch,
		},
	}
}

// blockHash derives the 32 byte EVM block hash from a 48 byte record file
// hash by keeping its leading bytes.
func blockHash(hash string) common.Hash {
	b := common.FromHex(hash)
	if len(b) > common.HashLength {
		b = b[:common.HashLength]
	}
	return common.BytesToHash(b)
}
