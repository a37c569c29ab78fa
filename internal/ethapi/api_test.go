package ethapi

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/history"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/web3"
)

func dial(t *testing.T, b Backend) *rpc.Client {
	t.Helper()
	srv := rpc.NewServer()
	for _, api := range GetAPIs(b) {
		require.NoError(t, srv.RegisterName(api.Namespace, api.Service))
	}
	client := rpc.DialInProc(srv)
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
	})
	return client
}

func TestChainHead(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	b.EXPECT().ChainID().Return(uint64(296))
	b.EXPECT().BlockNumber(gomock.Any()).Return(uint64(42), nil)
	client := dial(t, b)

	var chainID hexutil.Big
	require.NoError(t, client.Call(&chainID, "eth_chainId"))
	assert.Equal(t, int64(296), chainID.ToInt().Int64())

	var number hexutil.Uint64
	require.NoError(t, client.Call(&number, "eth_blockNumber"))
	assert.Equal(t, hexutil.Uint64(42), number)

	var version string
	require.NoError(t, client.Call(&version, "web3_clientVersion"))
	assert.Contains(t, version, "hedera-web3/")
}

func TestCallForwardsRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	client := dial(t, b)

	to := common.HexToAddress("0x00000000000000000000000000000000000003e9")
	b.EXPECT().Call(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *types.CallRequest) ([]byte, error) {
		assert.Equal(t, &to, req.To)
		assert.Equal(t, []byte{0xde, 0xad}, req.Data)
		assert.Equal(t, uint64(50_000), req.Gas)
		assert.Equal(t, big.NewInt(3), req.Value)
		assert.Equal(t, types.BlockAt(7), req.Block)
		return []byte{0x01}, nil
	})

	args := map[string]any{
		"to":    to,
		"input": "0xdead",
		"gas":   "0xc350",
		"value": "0x6fc23ac00", // 3 tinybars
	}
	var ret hexutil.Bytes
	require.NoError(t, client.Call(&ret, "eth_call", args, "0x7"))
	assert.Equal(t, hexutil.Bytes{0x01}, ret)
}

func TestCallDefaultsToLatest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	b := NewMockBackend(ctrl)
	client := dial(t, b)

	b.EXPECT().EstimateGas(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req *types.CallRequest) (uint64, error) {
		assert.Equal(t, types.LatestBlock, req.Block)
		assert.Zero(t, req.Gas)
		return 21_000, nil
	})
	var estimate hexutil.Uint64
	require.NoError(t, client.Call(&estimate, "eth_estimateGas", map[string]any{"to": common.Address{1}}))
	assert.Equal(t, hexutil.Uint64(21_000), estimate)
}

func TestErrorCodesOnTheWire(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		data any
	}{
		{
			name: "revert",
			err:  &web3.RevertError{Data: []byte{0xca, 0xfe}, Reason: "nope"},
			code: 3,
			data: "0xcafe",
		},
		{
			name: "halt",
			err:  &web3.HaltError{Reason: execution.HaltInvalidOperation},
			code: -32015,
			data: "INVALID_OPERATION",
		},
		{
			name: "block not found",
			err:  history.ErrBlockNotFound,
			code: -32001,
		},
		{
			name: "block out of range",
			err:  history.ErrBlockOutOfRange,
			code: -38020,
		},
		{
			name: "intrinsic gas",
			err:  &web3.PreCheckError{Code: execution.PreCheckInsufficientGas},
			code: -38013,
		},
		{
			name: "throttled",
			err:  web3.ErrThrottled,
			code: -38026,
		},
		{
			name: "infrastructure",
			err:  errors.New("connection refused"),
			code: -32603,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			b := NewMockBackend(ctrl)
			b.EXPECT().Call(gomock.Any(), gomock.Any()).Return(nil, tt.err)
			client := dial(t, b)

			var ret hexutil.Bytes
			err := client.Call(&ret, "eth_call", map[string]any{"to": common.Address{1}})
			var rpcErr rpc.Error
			require.ErrorAs(t, err, &rpcErr)
			assert.Equal(t, tt.code, rpcErr.ErrorCode())
			if tt.data != nil {
				var dataErr rpc.DataError
				require.ErrorAs(t, err, &dataErr)
				assert.Equal(t, tt.data, dataErr.ErrorData())
			}
		})
	}
}

func TestInvalidArgsSkipBackend(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := dial(t, NewMockBackend(ctrl))

	var ret hexutil.Bytes
	err := client.Call(&ret, "eth_call", map[string]any{"to": common.Address{1}, "data": "0x01", "input": "0x02"})
	var rpcErr rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.ErrorCode())
}

func TestSha3(t *testing.T) {
	t.Parallel()

	got := NewWeb3API().Sha3(hexutil.Bytes{})
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", got.String())
}
