package precompile

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/state"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

const tokenServiceGas = 100

const tokenServiceABI = `[
	{"type":"function","name":"isToken","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"isToken","type":"bool"}]},
	{"type":"function","name":"getTokenDefaultFreezeStatus","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"defaultFreezeStatus","type":"bool"}]},
	{"type":"function","name":"isFrozen","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"},{"name":"account","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"frozen","type":"bool"}]},
	{"type":"function","name":"isKyc","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"},{"name":"account","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"kycGranted","type":"bool"}]},
	{"type":"function","name":"allowance","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"},{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"allowance","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"token","type":"address"},{"name":"account","type":"address"}],
	 "outputs":[{"name":"responseCode","type":"int64"},{"name":"balance","type":"uint256"}]}
]`

type tokenService struct {
	*contract
}

func newTokenService(env *Env) *tokenService {
	ts := &tokenService{contract: newContract("HTS", tokenServiceABI, tokenServiceGas, env)}
	ts.handlers["isToken"] = ts.isToken
	ts.handlers["getTokenDefaultFreezeStatus"] = ts.defaultFreezeStatus
	ts.handlers["isFrozen"] = ts.isFrozen
	ts.handlers["isKyc"] = ts.isKyc
	ts.handlers["allowance"] = ts.allowance
	ts.handlers["balanceOf"] = ts.balanceOf
	return ts
}

func (ts *tokenService) view() *state.View {
	return ts.env.View
}

// token loads the token behind addr. Tokens are only addressable by their
// long-zero address.
func (ts *tokenService) token(addr common.Address) (*model.TokenFields, error) {
	id, ok := types.EntityIDFromAddress(addr)
	if !ok {
		return nil, failure(codeInvalidTokenID)
	}
	t, err := ts.view().Token(id)
	if errors.Is(err, state.ErrTokenNotFound) {
		return nil, failure(codeInvalidTokenID)
	}
	return t, err
}

func (ts *tokenService) account(addr common.Address) (types.EntityID, error) {
	id, ok, err := ts.view().ResolveEntity(addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, failure(codeInvalidAccountID)
	}
	return id, nil
}

// relationship loads the token and account and their relationship.
func (ts *tokenService) relationship(args []any, policy state.MissingPolicy) (*model.TokenAccountFields, error) {
	t, err := ts.token(args[0].(common.Address))
	if err != nil {
		return nil, err
	}
	accountID, err := ts.account(args[1].(common.Address))
	if err != nil {
		return nil, err
	}
	rel, err := ts.view().TokenRelationship(accountID, types.EntityID(t.TokenID), policy)
	if errors.Is(err, state.ErrTokenNotAssociated) {
		return nil, failure(codeTokenNotAssociated)
	}
	return rel, err
}

func (ts *tokenService) isToken(args []any) ([]any, error) {
	_, err := ts.token(args[0].(common.Address))
	var f failure
	if errors.As(err, &f) {
		return []any{responseSuccess, false}, nil
	}
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, true}, nil
}

func (ts *tokenService) defaultFreezeStatus(args []any) ([]any, error) {
	t, err := ts.token(args[0].(common.Address))
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, t.FreezeDefault}, nil
}

func (ts *tokenService) isFrozen(args []any) ([]any, error) {
	rel, err := ts.relationship(args, state.MissingIsDefault)
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, rel.FreezeStatus == model.FreezeFrozen}, nil
}

func (ts *tokenService) isKyc(args []any) ([]any, error) {
	rel, err := ts.relationship(args, state.MissingIsDefault)
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, rel.KycStatus == model.KycGranted}, nil
}

func (ts *tokenService) balanceOf(args []any) ([]any, error) {
	rel, err := ts.relationship(args, state.MissingIsError)
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, big.NewInt(rel.Balance)}, nil
}

func (ts *tokenService) allowance(args []any) ([]any, error) {
	t, err := ts.token(args[0].(common.Address))
	if err != nil {
		return nil, err
	}
	owner, err := ts.account(args[1].(common.Address))
	if err != nil {
		return nil, err
	}
	spender, err := ts.account(args[2].(common.Address))
	if err != nil {
		return nil, err
	}
	amount, err := ts.view().Allowance(owner, spender, types.EntityID(t.TokenID))
	if errors.Is(err, state.ErrFeatureUnavailable) {
		return nil, failure(codeNotSupported)
	}
	if err != nil {
		return nil, err
	}
	return []any{responseSuccess, big.NewInt(amount)}, nil
}
