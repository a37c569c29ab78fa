package execution

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/vm"
	ethparams "github.com/ethereum/go-ethereum/params"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/limiter"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/precompile"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/state"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

// ErrAborted is returned when the interpreter was cancelled without a more
// specific cause.
var ErrAborted = errors.New("execution aborted")

// FeeCollector receives transaction fees. Calls run with a zero gas price so
// it only matters to contracts reading COINBASE.
var FeeCollector = types.NewEntityID(0, 0, 98).ToAddress()

// Config is the static configuration of the execution layer.
type Config struct {
	ChainID     uint64
	MaxGasLimit uint64
	Modularized bool
	Limits      limiter.LimitConfig
}

// TracerFunc builds request scoped hooks once the request's state and
// precompile addresses are known.
type TracerFunc func(statedb *state.StateDB, precompiles []common.Address) *tracing.Hooks

// Environment creates call contexts over one mirror database.
type Environment struct {
	store    storage.Storage
	registry *precompile.Registry
	cfg      Config
}

// NewEnvironment returns an environment executing against store.
func NewEnvironment(store storage.Storage, registry *precompile.Registry, cfg Config) *Environment {
	if registry == nil {
		registry = precompile.NewRegistry(precompile.DefaultExchangeRate)
	}
	if cfg.MaxGasLimit == 0 {
		cfg.MaxGasLimit = params.MaxGasLimit
	}
	if cfg.ChainID == 0 {
		cfg.ChainID = params.MainnetChainID
	}
	return &Environment{store: store, registry: registry, cfg: cfg}
}

// Config returns the environment's configuration.
func (e *Environment) Config() Config {
	return e.cfg
}

// Strategy returns the strategy selected by the configuration.
func (e *Environment) Strategy() Strategy {
	if e.cfg.Modularized {
		return NewModular()
	}
	return NewLegacy()
}

// CallContext carries everything one request executes with: a fresh
// StateDB, the interpreter and its hooks, the limiter and the block. It is
// created per request and must not be shared.
type CallContext struct {
	State        *state.StateDB
	ChainConfig  *ethparams.ChainConfig
	BlockContext vm.BlockContext
	Rules        ethparams.Rules
	Precompiles  vm.PrecompiledContracts
	Limits       *limiter.Tracker
	MaxGasLimit  uint64

	ctx  context.Context
	evm  *vm.EVM
	stop func() bool
}

// NewCallContext prepares a call context reading state as of rng. Hooks
// built by tracer, if any, run after the state and limiter hooks.
func (e *Environment) NewCallContext(ctx context.Context, rng *types.HistoricalRange, tracer TracerFunc) *CallContext {
	fork := params.ForkCancun
	number, timestamp := new(big.Int), uint64(0)
	var random *common.Hash
	if rng != nil {
		fork = params.ForkAt(rng.Version)
		number.SetUint64(rng.Index)
		timestamp = rng.Timestamp()
		hash := rng.Hash
		random = &hash
	}
	chainConfig := params.ChainConfig(e.cfg.ChainID, fork)
	if fork < params.ForkParis {
		random = nil
	}

	statedb := state.New(state.NewView(ctx, e.store, rng))
	cc := &CallContext{
		State:       statedb,
		ChainConfig: chainConfig,
		MaxGasLimit: e.cfg.MaxGasLimit,
		ctx:         ctx,
	}
	cc.BlockContext = vm.BlockContext{
		CanTransfer: core.CanTransfer,
		Transfer:    core.Transfer,
		GetHash:     cc.blockHash(e.store),
		Coinbase:    FeeCollector,
		GasLimit:    e.cfg.MaxGasLimit,
		BlockNumber: number,
		Time:        timestamp,
		Difficulty:  new(big.Int),
		BaseFee:     new(big.Int),
		BlobBaseFee: new(big.Int),
		Random:      random,
	}
	cc.Rules = chainConfig.Rules(number, random != nil, timestamp)
	cc.Precompiles = e.registry.Active(cc.Rules, &precompile.Env{View: statedb.View(), Fault: statedb.Fail})
	addrs := precompile.Addresses(cc.Precompiles)
	statedb.SetWarmAddresses(addrs)
	cc.Limits = limiter.NewTracker(limiter.New(e.cfg.Limits), addrs, nil)

	var extra *tracing.Hooks
	if tracer != nil {
		extra = tracer(statedb, addrs)
	}
	hooks := NewMuxTracer(statedb.Hooks(), cc.Limits.Hooks(), extra).Hooks()
	cc.evm = vm.NewEVM(cc.BlockContext, vm.TxContext{}, statedb, chainConfig, vm.Config{Tracer: hooks, NoBaseFee: true})
	cc.evm.SetPrecompiles(cc.Precompiles)

	statedb.SetAbort(cc.evm.Cancel)
	cc.Limits.SetAbort(cc.evm.Cancel)
	cc.stop = context.AfterFunc(ctx, cc.evm.Cancel)
	return cc
}

func (cc *CallContext) blockHash(store storage.Storage) vm.GetHashFunc {
	return func(n uint64) common.Hash {
		rf, err := store.RecordFileByIndex(cc.ctx, int64(n))
		if errors.Is(err, storage.ErrNotFound) {
			return common.Hash{}
		}
		if err != nil {
			cc.State.Fail(err)
			return common.Hash{}
		}
		return rf.Range().Hash
	}
}

// EVM returns the interpreter bound to the context.
func (cc *CallContext) EVM() *vm.EVM {
	return cc.evm
}

// Context returns the request context.
func (cc *CallContext) Context() context.Context {
	return cc.ctx
}

// Err returns the infrastructure error that interrupted execution, if any.
// Storage failures win over limit breaches, which win over cancellation.
func (cc *CallContext) Err() error {
	if err := cc.State.Error(); err != nil {
		return err
	}
	if err := cc.Limits.Err(); err != nil {
		return err
	}
	if cc.evm.Cancelled() {
		if err := cc.ctx.Err(); err != nil {
			return err
		}
		return ErrAborted
	}
	return nil
}

// Close releases the cancellation watch. The context cannot be reused.
func (cc *CallContext) Close() {
	if cc.stop != nil {
		cc.stop()
	}
}
