package model

import (
	"github.com/uptrace/bun"
)

type (
	// ExchangeRate is the hbar to cent rate published in the exchange rate
	// file, effective from ConsensusTimestamp until ExpirationTime.
	ExchangeRate struct {
		bun.BaseModel `bun:"table:exchange_rate,alias:er"`

		ConsensusTimestamp int64 `bun:"consensus_timestamp,pk"`
		CentEquivalent     int64 `bun:"cent_equivalent,notnull"`
		HbarEquivalent     int64 `bun:"hbar_equivalent,notnull"`
		ExpirationTime     int64 `bun:"expiration_time"`
	}

	// TransactionHash indexes transactions by their Ethereum or native hash.
	TransactionHash struct {
		bun.BaseModel `bun:"table:transaction_hash,alias:th"`

		Hash               []byte `bun:"hash,pk"`
		ConsensusTimestamp int64  `bun:"consensus_timestamp"`
		PayerAccountID     int64  `bun:"payer_account_id"`
	}

	// ContractResult is the receipt of a contract transaction.
	ContractResult struct {
		bun.BaseModel `bun:"table:contract_result,alias:cr"`

		ConsensusTimestamp int64  `bun:"consensus_timestamp,pk"`
		ContractID         int64  `bun:"contract_id"`
		SenderID           int64  `bun:"sender_id"`
		PayerAccountID     int64  `bun:"payer_account_id"`
		FunctionParameters []byte `bun:"function_parameters"`
		FunctionResult     []byte `bun:"function_result"`
		GasLimit           int64  `bun:"gas_limit,notnull"`
		GasUsed            int64  `bun:"gas_used"`
		Amount             int64  `bun:"amount"`
		ErrorMessage       string `bun:"error_message"`
		TransactionHash    []byte `bun:"transaction_hash"`
		TransactionResult  int16  `bun:"transaction_result,notnull"`
	}

	// EthereumTransaction is the decoded body of an Ethereum transaction
	// submitted to the network.
	EthereumTransaction struct {
		bun.BaseModel `bun:"table:ethereum_transaction,alias:et"`

		ConsensusTimestamp int64  `bun:"consensus_timestamp,pk"`
		Hash               []byte `bun:"hash"`
		FromAddress        []byte `bun:"from_address"`
		ToAddress          []byte `bun:"to_address"`
		CallData           []byte `bun:"call_data"`
		GasLimit           int64  `bun:"gas_limit,notnull"`
		Value              []byte `bun:"value"`
		Nonce              int64  `bun:"nonce,notnull"`
		PayerAccountID     int64  `bun:"payer_account_id"`
		Type               int16  `bun:"type,notnull"`
	}
)
