package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/ethereum/go-ethereum/log"
	gethnode "github.com/ethereum/go-ethereum/node"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/limiter"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/metrics"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/precompile"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/throttle"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/web3"
	"github.com/hashgraph/hedera-mirror-node-sub001/eth/tracers"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/config"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/ethapi"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/web3log"
)

// node owns the long lived components of a running process.
type node struct {
	cfg      *config.Config
	store    storage.Storage
	service  *web3.Service
	rpc      *rpc.Server
	registry *prometheus.Registry
	services []*httpService
	logger   log.Logger
}

// newNode builds every component described by cfg and binds the listeners.
func newNode(ctx context.Context, cfg *config.Config) (*node, error) {
	logger := web3log.New("node")

	store, err := storage.NewStorage(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open mirror storage: %w", err)
	}
	if cfg.DB.DSN == "" {
		logger.Warn("No database configured, serving an empty in-memory mirror")
	}

	limits, err := limiter.BuildLimitConfig(cfg.EVM.Limits)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("evm limits: %w", err)
	}
	env := execution.NewEnvironment(store, precompile.NewRegistry(cfg.ExchangeRate), execution.Config{
		ChainID:     cfg.EVM.ChainID,
		MaxGasLimit: cfg.EVM.MaxGasLimit,
		Modularized: cfg.EVM.Modularized,
		Limits:      limits,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		closeStore(store)
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	service := web3.NewService(cfg.Web3, store, env,
		web3.WithThrottle(throttle.NewGasBucket(cfg.Throttle, nil)),
		web3.WithRequestLimiter(throttle.NewRequestLimiter(cfg.Throttle)),
		web3.WithMetrics(collector),
		web3.WithLogger(web3log.New("web3")),
	)

	n := &node{
		cfg:      cfg,
		store:    store,
		service:  service,
		rpc:      newRPCServer(cfg.RPC, service),
		registry: registry,
		logger:   logger,
	}
	if err := n.listen(); err != nil {
		n.Close()
		return nil, err
	}
	return n, nil
}

// newRPCServer registers the eth and web3 namespaces, plus debug when
// tracing is enabled.
func newRPCServer(cfg config.RPCConfig, service *web3.Service) *rpc.Server {
	srv := rpc.NewServer()
	if cfg.BatchLimit > 0 || cfg.BatchResponse > 0 {
		srv.SetBatchLimits(cfg.BatchLimit, cfg.BatchResponse)
	}
	apis := ethapi.GetAPIs(service)
	if cfg.EnableDebug {
		apis = append(apis, tracers.APIs(service)...)
	}
	for _, api := range apis {
		if err := srv.RegisterName(api.Namespace, api.Service); err != nil {
			// The services are fixed, a failure is a programming error.
			panic(fmt.Sprintf("register %s namespace: %v", api.Namespace, err))
		}
	}
	return srv
}

// handler returns the HTTP stack serving JSON-RPC.
func (n *node) handler() http.Handler {
	h := gethnode.NewHTTPHandlerStack(n.rpc, n.cfg.RPC.Cors, n.cfg.RPC.VHosts, nil)
	return withRequestTimeout(h, n.cfg.EVM.Timeout.Std())
}

func (n *node) listen() error {
	rpcListener, err := net.Listen("tcp", n.cfg.RPC.Addr)
	if err != nil {
		return fmt.Errorf("rpc listener: %w", err)
	}
	n.services = append(n.services, newHTTPService("rpc", rpcListener, n.handler(), n.cfg.RPC))

	if n.cfg.Metrics.Addr == "" {
		return nil
	}
	metricsListener, err := net.Listen("tcp", n.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{Registry: n.registry}))
	n.services = append(n.services, newHTTPService("metrics", metricsListener, mux, n.cfg.RPC))
	return nil
}

// Run serves until ctx is cancelled or a listener fails.
func (n *node) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range n.services {
		s := s
		n.logger.Info("HTTP server started", "service", s.name, "endpoint", s.listener.Addr())
		g.Go(func() error {
			return s.Run(ctx)
		})
	}
	return g.Wait()
}

// Close stops the servers, waits for running requests and closes storage.
func (n *node) Close() {
	for _, s := range n.services {
		s.listener.Close()
	}
	n.rpc.Stop()
	n.service.Stop()
	closeStore(n.store)
}

func closeStore(store storage.Storage) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Failed to close mirror storage", "err", err)
		}
	}
}
