package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph/hedera-mirror-node-sub001/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.DB.DSN = ""
	cfg.RPC.Addr = "127.0.0.1:0"
	cfg.Metrics.Addr = "127.0.0.1:0"
	return cfg
}

func startNode(t *testing.T, cfg *config.Config) *node {
	t.Helper()
	n, err := newNode(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		n.Close()
	})
	return n
}

func dialNode(t *testing.T, n *node) *rpc.Client {
	t.Helper()
	client, err := rpc.Dial("http://" + n.services[0].listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNodeServesRPC(t *testing.T) {
	t.Parallel()

	n := startNode(t, testConfig(t))
	client := dialNode(t, n)

	var chainID hexutil.Big
	require.NoError(t, client.Call(&chainID, "eth_chainId"))
	assert.EqualValues(t, 295, chainID.ToInt().Int64())

	var clientVersion string
	require.NoError(t, client.Call(&clientVersion, "web3_clientVersion"))
	assert.True(t, strings.HasPrefix(clientVersion, "hedera-web3/"), clientVersion)

	var trace map[string]any
	err := client.Call(&trace, "debug_traceTransaction", common.Hash{0x01})
	var rpcErr rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32001, rpcErr.ErrorCode())
}

func TestNodeWithoutDebug(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.RPC.EnableDebug = false
	n := startNode(t, cfg)
	client := dialNode(t, n)

	var trace map[string]any
	err := client.Call(&trace, "debug_traceTransaction", common.Hash{0x01})
	var rpcErr rpc.Error
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32601, rpcErr.ErrorCode())
}

func TestNodeServesMetrics(t *testing.T) {
	t.Parallel()

	n := startNode(t, testConfig(t))
	require.Len(t, n.services, 2)

	resp, err := http.Get("http://" + n.services[1].listener.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNodeMetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Metrics.Addr = ""
	n := startNode(t, cfg)
	assert.Len(t, n.services, 1)
}

func TestNodeRejectsBadLimits(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.EVM.Limits.File = "testdata/missing.json"
	_, err := newNode(context.Background(), cfg)
	assert.ErrorContains(t, err, "evm limits")
}

func TestWithRequestTimeout(t *testing.T) {
	t.Parallel()

	var deadline time.Time
	var ok bool
	h := withRequestTimeout(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}), time.Minute)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	next := http.NewServeMux()
	assert.Equal(t, next, withRequestTimeout(next, 0))
}
