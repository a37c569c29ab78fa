package model

import (
	"github.com/uptrace/bun"
)

type EntityType string

const (
	EntityTypeAccount  EntityType = "ACCOUNT"
	EntityTypeContract EntityType = "CONTRACT"
	EntityTypeToken    EntityType = "TOKEN"
	EntityTypeFile     EntityType = "FILE"
	EntityTypeTopic    EntityType = "TOPIC"
)

type (
	// EntityFields holds the columns shared by entity and entity_history.
	// A row is valid over [TimestampRangeStart, TimestampRangeEnd); a nil end
	// marks the current version.
	EntityFields struct {
		ID                  int64      `bun:"id"`
		EvmAddress          []byte     `bun:"evm_address"`
		Alias               []byte     `bun:"alias"`
		Balance             int64      `bun:"balance,notnull"`
		EthereumNonce       int64      `bun:"ethereum_nonce,notnull"`
		Type                EntityType `bun:"type"`
		Deleted             bool       `bun:"deleted,notnull"`
		CreatedTimestamp    *int64     `bun:"created_timestamp"`
		TimestampRangeStart int64      `bun:"timestamp_range_start"`
		TimestampRangeEnd   *int64     `bun:"timestamp_range_end"`
	}

	// Entity is the current version of an account, contract or token.
	Entity struct {
		bun.BaseModel `bun:"table:entity,alias:e"`
		EntityFields
	}

	// EntityHistory keeps every superseded version of an entity.
	EntityHistory struct {
		bun.BaseModel `bun:"table:entity_history,alias:e"`
		EntityFields
	}

	// Contract holds deployed bytecode. Bytecode never changes once written.
	Contract struct {
		bun.BaseModel `bun:"table:contract,alias:c"`

		ID              int64  `bun:"id,pk"`
		RuntimeBytecode []byte `bun:"runtime_bytecode"`
		Initcode        []byte `bun:"initcode"`
	}

	// ContractState is the latest value of a storage slot.
	ContractState struct {
		bun.BaseModel `bun:"table:contract_state,alias:cs"`

		ContractID        int64  `bun:"contract_id,pk"`
		Slot              []byte `bun:"slot,pk"`
		Value             []byte `bun:"value"`
		CreatedTimestamp  int64  `bun:"created_timestamp"`
		ModifiedTimestamp int64  `bun:"modified_timestamp"`
	}

	// ContractStateChange records every storage write, which is how slots are
	// read as of a past range.
	ContractStateChange struct {
		bun.BaseModel `bun:"table:contract_state_change,alias:csc"`

		ConsensusTimestamp int64  `bun:"consensus_timestamp,pk"`
		ContractID         int64  `bun:"contract_id,pk"`
		Slot               []byte `bun:"slot,pk"`
		ValueRead          []byte `bun:"value_read"`
		ValueWritten       []byte `bun:"value_written"`
		Migration          bool   `bun:"migration,notnull"`
	}
)

// Fields lets callers treat current and historical rows alike.
func (e *Entity) Fields() *EntityFields { return &e.EntityFields }
func (e *EntityHistory) Fields() *EntityFields { return &e.EntityFields }
