package web3

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/history"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/eth/tracers/logger"
)

const (
	senderID   types.EntityID = 1002
	storerID   types.EntityID = 1001
	reverterID types.EntityID = 1004
	invalidID  types.EntityID = 1005
	counterID  types.EntityID = 1007
	originID   types.EntityID = 1008

	txTimestamp = 250
)

var (
	sender = senderID.ToAddress()
	txHash = common.HexToHash("0xfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeedfeed")

	// sstore(0, 1); return(sload(0))
	storerCode = common.FromHex("0x600160005560005460005260206000f3")
	// revert(0, 0)
	reverterCode = common.FromHex("0x60006000fd")
	// sstore(0, sload(0) + 1); return the new value
	counterCode = common.FromHex("0x6000546001018060005560005260206000f3")
	// return(origin)
	originCode = common.FromHex("0x3260005260206000f3")
)

func newStore() *storage.Memory {
	m := storage.NewMemory()
	m.AddEntity(&model.EntityFields{ID: int64(senderID), Balance: 1_000_000, EthereumNonce: 3, Type: model.EntityTypeAccount, TimestampRangeStart: 1})
	for id, code := range map[types.EntityID][]byte{
		storerID:   storerCode,
		reverterID: reverterCode,
		invalidID:  {byte(vm.INVALID)},
		counterID:  counterCode,
		originID:   originCode,
	} {
		m.AddEntity(&model.EntityFields{ID: int64(id), Type: model.EntityTypeContract, TimestampRangeStart: 1})
		m.AddContract(int64(id), code)
	}
	// Index 1 is missing from the record stream.
	m.AddRecordFile(&model.RecordFile{Index: 0, ConsensusStart: 1, ConsensusEnd: 99, Hash: "0x01", HapiVersionMinor: 51})
	m.AddRecordFile(&model.RecordFile{Index: 2, ConsensusStart: 200, ConsensusEnd: 299, Hash: "0x02", HapiVersionMinor: 51})

	counter := counterID.ToAddress()
	m.AddTransaction(
		&model.TransactionHash{Hash: txHash.Bytes(), ConsensusTimestamp: txTimestamp},
		&model.ContractResult{ConsensusTimestamp: txTimestamp, ContractID: int64(counterID), SenderID: int64(senderID), GasLimit: 100_000},
		&model.EthereumTransaction{ConsensusTimestamp: txTimestamp, Hash: txHash.Bytes(), FromAddress: sender.Bytes(), ToAddress: counter.Bytes(), GasLimit: 100_000, Nonce: 3},
	)
	return m
}

func newService(t *testing.T, store storage.Storage, opts ...Option) *Service {
	t.Helper()
	env := execution.NewEnvironment(store, nil, execution.Config{})
	s := NewService(Config{MaxConcurrency: 4}, store, env, opts...)
	t.Cleanup(s.Stop)
	return s
}

func callTo(id types.EntityID, gas uint64) *types.CallRequest {
	to := id.ToAddress()
	return &types.CallRequest{From: sender, To: &to, Gas: gas}
}

func TestCall(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	ret, err := s.Call(context.Background(), callTo(storerID, 100_000))
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), ret)

	// A missing gas limit runs with the maximum.
	ret, err = s.Call(context.Background(), callTo(counterID, 0))
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), ret)
}

func TestCallSeesOrigin(t *testing.T) {
	t.Parallel()

	for _, modularized := range []bool{false, true} {
		modularized := modularized
		t.Run(fmt.Sprintf("modularized=%v", modularized), func(t *testing.T) {
			t.Parallel()

			store := newStore()
			env := execution.NewEnvironment(store, nil, execution.Config{Modularized: modularized})
			s := NewService(Config{MaxConcurrency: 1}, store, env)
			t.Cleanup(s.Stop)

			ret, err := s.Call(context.Background(), callTo(originID, 100_000))
			require.NoError(t, err)
			assert.Equal(t, common.LeftPadBytes(sender.Bytes(), 32), ret)
		})
	}
}

func TestCallErrors(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	tests := []struct {
		name  string
		req   *types.CallRequest
		check func(t *testing.T, err error)
	}{
		{
			name: "revert",
			req:  callTo(reverterID, 100_000),
			check: func(t *testing.T, err error) {
				var revert *RevertError
				require.ErrorAs(t, err, &revert)
				assert.Equal(t, "execution reverted", revert.Error())
				assert.Positive(t, revert.GasUsed)
			},
		},
		{
			name: "halt",
			req:  callTo(invalidID, 100_000),
			check: func(t *testing.T, err error) {
				var halt *HaltError
				require.ErrorAs(t, err, &halt)
				assert.Equal(t, execution.HaltInvalidOperation, halt.Reason)
			},
		},
		{
			name: "insufficient balance",
			req: func() *types.CallRequest {
				req := callTo(storerID, 100_000)
				req.Value = big.NewInt(2_000_000)
				return req
			}(),
			check: func(t *testing.T, err error) {
				var pre *PreCheckError
				require.ErrorAs(t, err, &pre)
				assert.Equal(t, execution.PreCheckInsufficientPayerBalance, pre.Code)
			},
		},
		{
			name: "gas above maximum",
			req:  callTo(storerID, 15_000_001),
			check: func(t *testing.T, err error) {
				var pre *PreCheckError
				require.ErrorAs(t, err, &pre)
				assert.Equal(t, execution.PreCheckMaxGasLimitExceeded, pre.Code)
			},
		},
		{
			name: "block out of range",
			req: func() *types.CallRequest {
				req := callTo(storerID, 100_000)
				req.Block = types.BlockAt(3)
				return req
			}(),
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, history.ErrBlockOutOfRange)
			},
		},
		{
			name: "block not found",
			req: func() *types.CallRequest {
				req := callTo(storerID, 100_000)
				req.Block = types.BlockAt(1)
				return req
			}(),
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, history.ErrBlockNotFound)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Call(context.Background(), tt.req)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCallsAreIsolated(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	var wg sync.WaitGroup
	results := make([][]byte, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.Call(context.Background(), callTo(counterID, 100_000))
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), results[i], "call %d saw another call's write", i)
	}
}

func TestEstimateGas(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	ctx := context.Background()

	estimate, err := s.EstimateGas(ctx, callTo(counterID, 0))
	require.NoError(t, err)
	again, err := s.EstimateGas(ctx, callTo(counterID, 0))
	require.NoError(t, err)
	assert.Equal(t, estimate, again)

	_, err = s.Call(ctx, callTo(counterID, estimate))
	require.NoError(t, err, "the estimate is enough gas")

	_, err = s.Call(ctx, callTo(counterID, estimate*100/120))
	var halt *HaltError
	require.ErrorAs(t, err, &halt, "the estimate is within 20%% of the minimum")
	assert.Equal(t, execution.HaltInsufficientGas, halt.Reason)
}

func TestEstimateGasFailures(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	ctx := context.Background()

	_, err := s.EstimateGas(ctx, callTo(reverterID, 0))
	var revert *RevertError
	require.ErrorAs(t, err, &revert)

	_, err = s.EstimateGas(ctx, callTo(storerID, 21_000))
	var halt *HaltError
	require.ErrorAs(t, err, &halt, "the provided limit caps the search")
}

func TestTraceCall(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		res, err := s.TraceCall(ctx, callTo(storerID, 100_000), nil)
		require.NoError(t, err)
		assert.False(t, res.Failed)
		assert.Equal(t, storerID.ToAddress(), res.Address)
		assert.Equal(t, "0.0.1001", res.ContractID)
		assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), []byte(res.ReturnValue))
		require.NotEmpty(t, res.Opcodes)
		assert.Equal(t, "PUSH1", res.Opcodes[0].Op)
		assert.Equal(t, "RETURN", res.Opcodes[len(res.Opcodes)-1].Op)
		for _, op := range res.Opcodes {
			assert.Zero(t, op.Depth)
			assert.Nil(t, op.Reason)
		}

		ret, err := s.Call(ctx, callTo(storerID, 100_000))
		require.NoError(t, err)
		assert.Equal(t, ret, []byte(res.ReturnValue))
	})

	tests := []struct {
		name   string
		to     types.EntityID
		reason string
	}{
		{name: "revert", to: reverterID, reason: "CONTRACT_REVERT_EXECUTED"},
		{name: "halt", to: invalidID, reason: "INVALID_OPERATION"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := s.TraceCall(ctx, callTo(tt.to, 100_000), &logger.Config{DisableStack: true})
			require.NoError(t, err)
			assert.True(t, res.Failed)
			require.NotEmpty(t, res.Opcodes)
			last := res.Opcodes[len(res.Opcodes)-1]
			require.NotNil(t, last.Reason)
			assert.Equal(t, tt.reason, *last.Reason)
			assert.Nil(t, res.Opcodes[0].Stack)
		})
	}

	t.Run("pre-check failure", func(t *testing.T) {
		t.Parallel()
		req := callTo(storerID, 100_000)
		req.Value = big.NewInt(2_000_000)
		_, err := s.TraceCall(ctx, req, nil)
		var pre *PreCheckError
		require.ErrorAs(t, err, &pre)
	})
}

func TestTraceTransaction(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	res, err := s.TraceTransaction(context.Background(), txHash, &logger.Config{EnableMemory: true})
	require.NoError(t, err)
	assert.False(t, res.Failed)
	assert.Equal(t, "0.0.1007", res.ContractID)
	assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), []byte(res.ReturnValue))

	var sstore *logger.Opcode
	for i := range res.Opcodes {
		if res.Opcodes[i].Op == "SSTORE" {
			sstore = &res.Opcodes[i]
		}
	}
	require.NotNil(t, sstore)
	assert.Equal(t, map[string]string{
		"0x0000000000000000000000000000000000000000000000000000000000000000": "0x0000000000000000000000000000000000000000000000000000000000000001",
	}, sstore.Storage)
}

func TestTraceTransactionMissingArtifacts(t *testing.T) {
	t.Parallel()

	noResult := storage.NewMemory()
	noResult.AddTransaction(&model.TransactionHash{Hash: txHash.Bytes(), ConsensusTimestamp: txTimestamp}, nil, nil)

	noBody := storage.NewMemory()
	noBody.AddTransaction(
		&model.TransactionHash{Hash: txHash.Bytes(), ConsensusTimestamp: txTimestamp},
		&model.ContractResult{ConsensusTimestamp: txTimestamp, ContractID: int64(counterID)},
		nil,
	)

	tests := []struct {
		name  string
		store storage.Storage
		kind  EntityKind
	}{
		{name: "hash", store: storage.NewMemory(), kind: KindTransactionHash},
		{name: "contract result", store: noResult, kind: KindContractResult},
		{name: "ethereum transaction", store: noBody, kind: KindTransaction},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newService(t, tt.store)
			_, err := s.TraceTransaction(context.Background(), txHash, nil)
			var notFound *EntityNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.kind, notFound.Kind)
		})
	}
}

func TestThrottleAndMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gas := NewMockGasThrottle(ctrl)
	rate := NewMockRequestLimiter(ctrl)
	metrics := NewMockMetrics(ctrl)
	s := newService(t, newStore(), WithThrottle(gas), WithRequestLimiter(rate), WithMetrics(metrics))

	rate.EXPECT().Allow("ETH_CALL").Return(true).Times(2)
	gomock.InOrder(
		gas.EXPECT().TryDebit(uint64(100_000)).Return(true),
		gas.EXPECT().Refund(uint64(100_000), gomock.Any()).Return(uint64(10_000)),
	)
	metrics.EXPECT().AddGas(types.CallTypeCall, gomock.Any(), uint64(100_000))
	metrics.EXPECT().IncRequest(types.CallTypeCall, "CONTRACT_REVERT_EXECUTED")

	_, err := s.Call(context.Background(), callTo(reverterID, 100_000))
	var revert *RevertError
	require.ErrorAs(t, err, &revert)

	gas.EXPECT().TryDebit(uint64(100_000)).Return(false)
	metrics.EXPECT().IncThrottled(types.CallTypeCall)
	_, err = s.Call(context.Background(), callTo(storerID, 100_000))
	require.ErrorIs(t, err, ErrThrottled)

	rate.EXPECT().Allow("ETH_ESTIMATE_GAS").Return(false)
	metrics.EXPECT().IncThrottled(types.CallTypeEstimateGas)
	_, err = s.EstimateGas(context.Background(), callTo(storerID, 100_000))
	require.ErrorIs(t, err, ErrThrottled)
}

func TestEstimateGasChargedOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gas := NewMockGasThrottle(ctrl)
	metrics := NewMockMetrics(ctrl)
	s := newService(t, newStore(), WithThrottle(gas), WithMetrics(metrics))

	var used uint64
	gas.EXPECT().TryDebit(uint64(15_000_000)).Return(true)
	gas.EXPECT().Refund(uint64(15_000_000), gomock.Any()).DoAndReturn(func(limit, u uint64) uint64 {
		used = u
		return 0
	})
	metrics.EXPECT().AddGas(types.CallTypeEstimateGas, gomock.Any(), uint64(15_000_000))
	metrics.EXPECT().IncRequest(types.CallTypeEstimateGas, "")

	estimate, err := s.EstimateGas(context.Background(), callTo(counterID, 0))
	require.NoError(t, err)
	assert.Equal(t, estimate, used)
}

// failingStore fails bytecode reads.
type failingStore struct {
	storage.Storage
	err error
}

func (f *failingStore) RuntimeBytecode(context.Context, int64) ([]byte, error) {
	return nil, f.err
}

func TestRefundOnInfrastructureError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	gas := NewMockGasThrottle(ctrl)
	metrics := NewMockMetrics(ctrl)
	boom := errors.New("connection reset")
	s := newService(t, &failingStore{Storage: newStore(), err: boom}, WithThrottle(gas), WithMetrics(metrics))

	gas.EXPECT().TryDebit(uint64(100_000)).Return(true)
	gas.EXPECT().Refund(uint64(100_000), uint64(0)).Return(uint64(0))
	metrics.EXPECT().AddGas(types.CallTypeCall, uint64(0), uint64(100_000))
	metrics.EXPECT().IncRequest(types.CallTypeCall, "ERROR")

	_, err := s.Call(context.Background(), callTo(storerID, 100_000))
	require.ErrorIs(t, err, boom)
}

func TestOutcomeErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "execution reverted: nope", (&RevertError{Reason: "nope"}).Error())
	assert.Equal(t, "0xdead", (&RevertError{Data: []byte{0xde, 0xad}}).HexData())
	assert.Equal(t, "INSUFFICIENT_GAS", (&HaltError{Reason: execution.HaltInsufficientGas}).Error())
	assert.Equal(t, "WRONG_NONCE: bad", (&PreCheckError{Code: execution.PreCheckWrongNonce, Err: errors.New("bad")}).Error())
	assert.Equal(t, "TransactionHash not found: 0x01", (&EntityNotFoundError{Kind: KindTransactionHash, Key: "0x01"}).Error())
	assert.Nil(t, outcomeError(&execution.Success{}))
}

func TestChainHead(t *testing.T) {
	t.Parallel()

	s := newService(t, newStore())
	n, err := s.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.NotZero(t, s.ChainID())

	empty := newService(t, storage.NewMemory())
	_, err = empty.BlockNumber(context.Background())
	require.ErrorIs(t, err, history.ErrBlockNotFound)
}
