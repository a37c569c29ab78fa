package model

import (
	"github.com/uptrace/bun"
)

type (
	FreezeStatus int16
	KycStatus    int16
)

const (
	FreezeNotApplicable FreezeStatus = 0
	FreezeFrozen        FreezeStatus = 1
	FreezeUnfrozen      FreezeStatus = 2

	KycNotApplicable KycStatus = 0
	KycGranted       KycStatus = 1
	KycRevoked       KycStatus = 2
)

type (
	TokenFields struct {
		TokenID             int64  `bun:"token_id"`
		Name                string `bun:"name"`
		Symbol              string `bun:"symbol"`
		Decimals            int64  `bun:"decimals,notnull"`
		TotalSupply         int64  `bun:"total_supply,notnull"`
		FreezeDefault       bool   `bun:"freeze_default,notnull"`
		KycKey              []byte `bun:"kyc_key"`
		FreezeKey           []byte `bun:"freeze_key"`
		TreasuryAccountID   int64  `bun:"treasury_account_id"`
		CreatedTimestamp    int64  `bun:"created_timestamp"`
		TimestampRangeStart int64  `bun:"timestamp_range_start"`
		TimestampRangeEnd   *int64 `bun:"timestamp_range_end"`
	}

	Token struct {
		bun.BaseModel `bun:"table:token,alias:t"`
		TokenFields
	}

	TokenHistory struct {
		bun.BaseModel `bun:"table:token_history,alias:t"`
		TokenFields
	}

	// TokenAccountFields describe the relationship between an account and a
	// token: association, balance, freeze and KYC status.
	TokenAccountFields struct {
		AccountID           int64        `bun:"account_id"`
		TokenID             int64        `bun:"token_id"`
		Associated          bool         `bun:"associated,notnull"`
		Balance             int64        `bun:"balance,notnull"`
		FreezeStatus        FreezeStatus `bun:"freeze_status,notnull"`
		KycStatus           KycStatus    `bun:"kyc_status,notnull"`
		CreatedTimestamp    int64        `bun:"created_timestamp"`
		TimestampRangeStart int64        `bun:"timestamp_range_start"`
		TimestampRangeEnd   *int64       `bun:"timestamp_range_end"`
	}

	TokenAccount struct {
		bun.BaseModel `bun:"table:token_account,alias:ta"`
		TokenAccountFields
	}

	TokenAccountHistory struct {
		bun.BaseModel `bun:"table:token_account_history,alias:ta"`
		TokenAccountFields
	}

	TokenAllowanceFields struct {
		Owner               int64  `bun:"owner"`
		Spender             int64  `bun:"spender"`
		TokenID             int64  `bun:"token_id"`
		Amount              int64  `bun:"amount,notnull"`
		AmountGranted       int64  `bun:"amount_granted,notnull"`
		PayerAccountID      int64  `bun:"payer_account_id"`
		TimestampRangeStart int64  `bun:"timestamp_range_start"`
		TimestampRangeEnd   *int64 `bun:"timestamp_range_end"`
	}

	TokenAllowance struct {
		bun.BaseModel `bun:"table:token_allowance,alias:tal"`
		TokenAllowanceFields
	}

	TokenAllowanceHistory struct {
		bun.BaseModel `bun:"table:token_allowance_history,alias:tal"`
		TokenAllowanceFields
	}
)

func (t *Token) Fields() *TokenFields { return &t.TokenFields }
func (t *TokenHistory) Fields() *TokenFields { return &t.TokenFields }
func (t *TokenAccount) Fields() *TokenAccountFields { return &t.TokenAccountFields }
func (t *TokenAccountHistory) Fields() *TokenAccountFields { return &t.TokenAccountFields }
func (t *TokenAllowance) Fields() *TokenAllowanceFields { return &t.TokenAllowanceFields }
func (t *TokenAllowanceHistory) Fields() *TokenAllowanceFields { return &t.TokenAllowanceFields }
