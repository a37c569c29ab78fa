package ethapi

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/limiter"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/web3"
)

func TestToRPCError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "wrapped revert", err: fmt.Errorf("call: %w", &web3.RevertError{}), code: errCodeReverted},
		{name: "insufficient funds", err: &web3.PreCheckError{Code: execution.PreCheckInsufficientPayerBalance}, code: errCodeInsufficientFunds},
		{name: "nonce too low", err: &web3.PreCheckError{Code: execution.PreCheckWrongNonce, Err: core.ErrNonceTooLow}, code: errCodeNonceTooLow},
		{name: "nonce too high", err: &web3.PreCheckError{Code: execution.PreCheckWrongNonce, Err: core.ErrNonceTooHigh}, code: errCodeNonceTooHigh},
		{name: "other pre-check", err: &web3.PreCheckError{Code: execution.PreCheckMaxGasLimitExceeded}, code: errCodeInvalidInput},
		{name: "missing artifact", err: &web3.EntityNotFoundError{Kind: web3.KindContractResult, Key: "1"}, code: errCodeNotFound},
		{name: "opcode limit", err: fmt.Errorf("execute: %w", &limiter.ErrOpcodeLimit{Opcode: vm.SSTORE}), code: errCodeClientLimitExceeded},
		{name: "precompile limit", err: &limiter.ErrPrecompileLimit{}, code: errCodeClientLimitExceeded},
		{name: "invalid params", err: &invalidParamsError{message: "bad"}, code: errCodeInvalidParams},
		{name: "deadline", err: context.DeadlineExceeded, code: errCodeInternalError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var rpcErr rpc.Error
			require.ErrorAs(t, ToRPCError(tt.err), &rpcErr)
			assert.Equal(t, tt.code, rpcErr.ErrorCode())
		})
	}
}

func TestToRPCErrorData(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ToRPCError(nil))

	err := ToRPCError(&web3.EntityNotFoundError{Kind: web3.KindTransactionHash, Key: "0x01"})
	var dataErr rpc.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "TransactionHash", dataErr.ErrorData())
	assert.Equal(t, "TransactionHash not found: 0x01", err.Error())

	revert := ToRPCError(&web3.RevertError{Data: []byte{1}, Reason: "boom"})
	assert.Equal(t, "execution reverted: boom", revert.Error())
}
