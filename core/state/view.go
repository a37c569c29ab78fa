// Package state layers a mutable, per-request overlay over the read only
// mirror history.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenNotAssociated = errors.New("token not associated to account")
	ErrFeatureUnavailable = errors.New("feature not available at this block")
)

// MissingPolicy selects how an accessor treats a relationship that has no
// row valid for the range.
type MissingPolicy uint8

const (
	// MissingIsError surfaces the absence as an error.
	MissingIsError MissingPolicy = iota
	// MissingIsDefault substitutes the documented default.
	MissingIsDefault
)

// Account is the base state of an entity as seen through a View.
type Account struct {
	ID       types.EntityID
	Address  common.Address // canonical address, the EVM alias when one exists
	Balance  *uint256.Int   // tinybars
	Nonce    uint64
	Contract bool
}

// View reads the mirror database as of one historical range. A nil range
// reads the current state. Views never write.
type View struct {
	ctx   context.Context
	store storage.Storage
	rng   *types.HistoricalRange
}

// NewView binds store to rng for the lifetime of one request.
func NewView(ctx context.Context, store storage.Storage, rng *types.HistoricalRange) *View {
	return &View{ctx: ctx, store: store, rng: rng}
}

// Range returns the range the view reads, nil for current state.
func (v *View) Range() *types.HistoricalRange {
	return v.rng
}

// ResolveEntity maps an EVM address onto the entity it names. Long-zero
// addresses decode directly; anything else is looked up as an alias.
func (v *View) ResolveEntity(addr common.Address) (types.EntityID, bool, error) {
	if id, ok := types.EntityIDFromAddress(addr); ok {
		return id, true, nil
	}
	e, err := v.store.EntityByEvmAddress(v.ctx, addr.Bytes(), v.rng)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, stacktrace.Wrap(err)
	}
	return types.EntityID(e.ID), true, nil
}

// Account returns the entity behind addr, or nil when it did not exist (or was
// deleted) during the range.
func (v *View) Account(addr common.Address) (*Account, error) {
	var (
		e   *model.EntityFields
		err error
	)
	if id, ok := types.EntityIDFromAddress(addr); ok {
		e, err = v.store.EntityByID(v.ctx, int64(id), v.rng)
	} else {
		e, err = v.store.EntityByEvmAddress(v.ctx, addr.Bytes(), v.rng)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	if e.Deleted {
		return nil, nil
	}

	id := types.EntityID(e.ID)
	acc := &Account{
		ID:       id,
		Address:  id.ToAddress(),
		Balance:  uint256.NewInt(0),
		Contract: e.Type == model.EntityTypeContract,
	}
	if len(e.EvmAddress) == common.AddressLength {
		acc.Address = common.BytesToAddress(e.EvmAddress)
	}
	if e.Balance > 0 {
		acc.Balance.SetUint64(uint64(e.Balance))
	}
	if e.EthereumNonce > 0 {
		acc.Nonce = uint64(e.EthereumNonce)
	}
	return acc, nil
}

// Code returns the runtime bytecode of a contract entity. Bytecode is not
// versioned, so no range applies.
func (v *View) Code(id types.EntityID) ([]byte, error) {
	code, err := v.store.RuntimeBytecode(v.ctx, int64(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return code, nil
}

// Storage returns the value of slot for the contract, zero when never
// written before the range end.
func (v *View) Storage(id types.EntityID, slot common.Hash) (common.Hash, error) {
	value, err := v.store.StorageSlot(v.ctx, int64(id), slot.Bytes(), v.rng)
	if errors.Is(err, storage.ErrNotFound) {
		return common.Hash{}, nil
	}
	if err != nil {
		return common.Hash{}, stacktrace.Wrap(err)
	}
	return common.BytesToHash(value), nil
}

// Token is a hard lookup: a token that did not exist during the range is an
// error.
func (v *View) Token(tokenID types.EntityID) (*model.TokenFields, error) {
	t, err := v.store.Token(v.ctx, int64(tokenID), v.rng)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return t, nil
}

// TokenRelationship reads the account's relationship with a token. With
// MissingIsDefault an absent row reads as dissociated, not frozen and not
// KYC granted.
func (v *View) TokenRelationship(accountID, tokenID types.EntityID, policy MissingPolicy) (*model.TokenAccountFields, error) {
	ta, err := v.store.TokenAccount(v.ctx, int64(accountID), int64(tokenID), v.rng)
	if errors.Is(err, storage.ErrNotFound) {
		if policy == MissingIsDefault {
			return &model.TokenAccountFields{
				AccountID:    int64(accountID),
				TokenID:      int64(tokenID),
				FreezeStatus: model.FreezeNotApplicable,
				KycStatus:    model.KycNotApplicable,
			}, nil
		}
		return nil, fmt.Errorf("%w: account %s token %s", ErrTokenNotAssociated, accountID, tokenID)
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	return ta, nil
}

// Allowance returns the spender's remaining allowance, zero when none was
// granted. Ranges produced before allowances existed fail with
// ErrFeatureUnavailable rather than reading as zero.
func (v *View) Allowance(owner, spender, tokenID types.EntityID) (int64, error) {
	if v.rng != nil && !v.rng.Version.AtLeast(params.AllowancesSince.Major, params.AllowancesSince.Minor) {
		return 0, fmt.Errorf("%w: allowances require services %s, range produced by %s",
			ErrFeatureUnavailable, params.AllowancesSince, v.rng.Version)
	}
	a, err := v.store.TokenAllowance(v.ctx, int64(owner), int64(spender), int64(tokenID), v.rng)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, stacktrace.Wrap(err)
	}
	return a.Amount, nil
}

// ExchangeRate returns the rate in force at the end of the range. A missing
// rate is reported as storage.ErrNotFound for the caller to default.
func (v *View) ExchangeRate() (*model.ExchangeRate, error) {
	rate, err := v.store.ExchangeRate(v.ctx, v.rng)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, stacktrace.Wrap(err)
	}
	return rate, err
}
