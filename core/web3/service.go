// Package web3 answers call, gas estimation and trace requests against the
// historical state of the mirror database.
package web3

import (
	"context"
	"errors"
	"math/big"
	"runtime"
	"strconv"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/log"
	"github.com/zircuit-labs/zkr-go-common/xerrors/stacktrace"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/history"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/model"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/state"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/throttle"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/eth/gasestimator"
	"github.com/hashgraph/hedera-mirror-node-sub001/eth/tracers/logger"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

// reasonError labels requests that ended with an infrastructure error in
// the request counter.
const reasonError = "ERROR"

// Config configures the orchestrator.
type Config struct {
	MaxConcurrency     int     `koanf:"maxConcurrency"`
	EstimateErrorRatio float64 `koanf:"estimateErrorRatio"`
}

// Service runs requests against the execution environment. Each request is
// executed synchronously on one worker of a bounded pool.
type Service struct {
	cfg      Config
	env      *execution.Environment
	strategy execution.Strategy
	store    storage.Storage
	resolver *history.Resolver
	throttle GasThrottle
	limiter  RequestLimiter
	metrics  Metrics
	pool     pond.Pool
	logger   log.Logger
}

type Option func(*Service)

func WithThrottle(t GasThrottle) Option { return func(s *Service) { s.throttle = t } }

func WithRequestLimiter(l RequestLimiter) Option { return func(s *Service) { s.limiter = l } }

func WithMetrics(m Metrics) Option { return func(s *Service) { s.metrics = m } }

func WithLogger(l log.Logger) Option { return func(s *Service) { s.logger = l } }

// NewService returns a service reading from store. Without options requests
// are neither throttled nor measured.
func NewService(cfg Config, store storage.Storage, env *execution.Environment, opts ...Option) *Service {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = runtime.NumCPU()
	}
	if cfg.EstimateErrorRatio <= 0 {
		cfg.EstimateErrorRatio = gasestimator.DefaultErrorRatio
	}
	s := &Service{
		cfg:      cfg,
		env:      env,
		strategy: env.Strategy(),
		store:    store,
		throttle: throttle.NewGasBucket(throttle.Config{}, nil),
		limiter:  throttle.NewRequestLimiter(throttle.Config{}),
		metrics:  nopMetrics{},
		logger:   log.Root(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = history.NewResolver(store, s.logger)
	s.pool = pond.NewPool(cfg.MaxConcurrency)
	return s
}

// Stop waits for running requests and releases the pool.
func (s *Service) Stop() {
	s.pool.StopAndWait()
}

// Resolver exposes the range resolver requests use.
func (s *Service) Resolver() *history.Resolver {
	return s.resolver
}

// ChainID returns the configured EIP-155 chain id.
func (s *Service) ChainID() uint64 {
	return s.env.Config().ChainID
}

// BlockNumber returns the index of the most recent record file.
func (s *Service) BlockNumber(ctx context.Context) (uint64, error) {
	rng, err := s.resolver.Resolve(ctx, types.LatestBlock)
	if err != nil {
		return 0, err
	}
	return rng.Index, nil
}

// Call executes req once and returns its output.
func (s *Service) Call(ctx context.Context, req *types.CallRequest) ([]byte, error) {
	return submit(s, func() ([]byte, error) {
		req := s.prepare(req, types.CallTypeCall)
		if err := s.admit(req.CallType); err != nil {
			return nil, err
		}
		rng, err := s.resolver.Resolve(ctx, req.Block)
		if err != nil {
			return nil, err
		}
		var ret []byte
		err = s.metered(req.CallType, req.Gas, func() (uint64, string, error) {
			outcome, err := s.execute(ctx, rng, execution.NewUnit(req), nil)
			if err != nil {
				return 0, reasonError, err
			}
			if success, ok := outcome.(*execution.Success); ok {
				ret = success.ReturnData
			}
			return execution.GasUsed(outcome), outcome.Reason(), outcomeError(outcome)
		})
		return ret, err
	})
}

// EstimateGas returns the smallest gas limit, within the configured error
// ratio, that req succeeds with.
func (s *Service) EstimateGas(ctx context.Context, req *types.CallRequest) (uint64, error) {
	return submit(s, func() (uint64, error) {
		provided := req.Gas
		req := s.prepare(req, types.CallTypeEstimateGas)
		if err := s.admit(req.CallType); err != nil {
			return 0, err
		}
		rng, err := s.resolver.Resolve(ctx, req.Block)
		if err != nil {
			return 0, err
		}
		unit := execution.NewUnit(req)
		run := func(ctx context.Context, gas uint64) (execution.Outcome, error) {
			return s.execute(ctx, rng, unit.WithGas(gas), nil)
		}
		opts := gasestimator.Options{
			GasLimit:    provided,
			MaxGasLimit: s.env.Config().MaxGasLimit,
			ErrorRatio:  s.cfg.EstimateErrorRatio,
		}
		var estimate uint64
		err = s.metered(req.CallType, req.Gas, func() (uint64, string, error) {
			gas, failed, err := gasestimator.Estimate(ctx, run, opts)
			if err != nil {
				return 0, reasonError, err
			}
			if failed != nil {
				return execution.GasUsed(failed), failed.Reason(), outcomeError(failed)
			}
			estimate = gas
			return gas, "", nil
		})
		return estimate, err
	})
}

// TraceCall executes req with the opcode logger attached.
func (s *Service) TraceCall(ctx context.Context, req *types.CallRequest, cfg *logger.Config) (*logger.TraceResult, error) {
	return submit(s, func() (*logger.TraceResult, error) {
		req := s.prepare(req, types.CallTypeDebugTrace)
		if err := s.admit(req.CallType); err != nil {
			return nil, err
		}
		rng, err := s.resolver.Resolve(ctx, req.Block)
		if err != nil {
			return nil, err
		}
		return s.trace(ctx, &traceJob{rng: rng, lookup: rng, unit: execution.NewUnit(req)}, cfg)
	})
}

// TraceTransaction replays a recorded transaction against the state just
// before it reached consensus.
func (s *Service) TraceTransaction(ctx context.Context, hash common.Hash, cfg *logger.Config) (*logger.TraceResult, error) {
	return submit(s, func() (*logger.TraceResult, error) {
		if err := s.admit(types.CallTypeDebugTrace); err != nil {
			return nil, err
		}
		job, err := s.replay(ctx, hash)
		if err != nil {
			return nil, err
		}
		return s.trace(ctx, job, cfg)
	})
}

// traceJob is one execution to trace. The receiver's canonical address is
// read as of lookup, which for a replayed transaction includes its own
// effects.
type traceJob struct {
	rng      *types.HistoricalRange
	lookup   *types.HistoricalRange
	unit     *execution.Unit
	contract *types.EntityID
}

func (s *Service) replay(ctx context.Context, hash common.Hash) (*traceJob, error) {
	th, err := s.store.TransactionHash(ctx, hash.Bytes())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &EntityNotFoundError{Kind: KindTransactionHash, Key: hash.Hex()}
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	ts := th.ConsensusTimestamp
	cr, err := s.store.ContractResult(ctx, ts)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &EntityNotFoundError{Kind: KindContractResult, Key: strconv.FormatInt(ts, 10)}
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}
	et, err := s.store.EthereumTransaction(ctx, ts)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &EntityNotFoundError{Kind: KindTransaction, Key: hash.Hex()}
	}
	if err != nil {
		return nil, stacktrace.Wrap(err)
	}

	rng, err := s.resolver.ResolveTimestamp(ctx, ts)
	if err != nil {
		return nil, err
	}
	before := *rng
	before.End = ts
	job := &traceJob{rng: &before, lookup: rng, unit: replayUnit(et, cr)}
	if cr.ContractID > 0 {
		id := types.EntityID(cr.ContractID)
		job.contract = &id
	}
	return job, nil
}

// replayUnit rebuilds the unit a recorded transaction executed.
func replayUnit(et *model.EthereumTransaction, cr *model.ContractResult) *execution.Unit {
	u := &execution.Unit{
		Data:  et.CallData,
		Value: new(big.Int),
		Gas:   uint64(max(et.GasLimit, 0)),
	}
	if len(et.FromAddress) == common.AddressLength {
		u.From = common.BytesToAddress(et.FromAddress)
	} else {
		u.From = types.EntityID(cr.SenderID).ToAddress()
	}
	if len(et.ToAddress) == common.AddressLength {
		to := common.BytesToAddress(et.ToAddress)
		u.To = &to
	}
	if len(u.Data) == 0 {
		u.Data = cr.FunctionParameters
	}
	if u.Gas == 0 {
		u.Gas = uint64(max(cr.GasLimit, 0))
	}
	if len(et.Value) > 0 {
		u.Value.SetBytes(et.Value)
		u.Value.Quo(u.Value, params.WeibarsPerTinybar)
	}
	return u
}

func (s *Service) trace(ctx context.Context, job *traceJob, cfg *logger.Config) (*logger.TraceResult, error) {
	var result *logger.TraceResult
	err := s.metered(types.CallTypeDebugTrace, job.unit.Gas, func() (uint64, string, error) {
		var tracer *logger.OpcodeLogger
		outcome, err := s.execute(ctx, job.rng, job.unit, func(statedb *state.StateDB, precompiles []common.Address) *tracing.Hooks {
			tracer = logger.NewOpcodeLogger(cfg, statedb, precompiles)
			return tracer.Hooks()
		})
		if err != nil {
			return 0, reasonError, err
		}
		if pre, ok := outcome.(*execution.PreCheckFailure); ok {
			return 0, pre.Reason(), outcomeError(pre)
		}
		if execution.Failed(outcome) {
			tracer.Finalize(outcome.Reason())
		}
		result, err = s.traceResult(ctx, job, outcome, tracer)
		if err != nil {
			return execution.GasUsed(outcome), reasonError, err
		}
		return execution.GasUsed(outcome), outcome.Reason(), nil
	})
	return result, err
}

func (s *Service) traceResult(ctx context.Context, job *traceJob, outcome execution.Outcome, tracer *logger.OpcodeLogger) (*logger.TraceResult, error) {
	res := &logger.TraceResult{
		Failed:    execution.Failed(outcome),
		Gas:       execution.GasUsed(outcome),
		Opcodes:   tracer.Steps(),
		Truncated: tracer.Truncated(),
	}
	if res.Opcodes == nil {
		res.Opcodes = []logger.Opcode{}
	}
	target := job.unit.To
	switch o := outcome.(type) {
	case *execution.Success:
		res.ReturnValue = o.ReturnData
		if o.Created != nil {
			target = o.Created
		}
	case *execution.Revert:
		res.ReturnValue = o.Data
	}
	if job.contract != nil {
		addr := job.contract.ToAddress()
		target = &addr
	}
	if target == nil {
		return res, nil
	}
	acc, err := state.NewView(ctx, s.store, job.lookup).Account(*target)
	if err != nil {
		return nil, err
	}
	if acc != nil {
		res.Address = acc.Address
		res.ContractID = acc.ID.String()
	}
	return res, nil
}

// prepare returns a copy of req with the call type set and a missing gas
// limit replaced by the maximum.
func (s *Service) prepare(req *types.CallRequest, callType types.CallType) *types.CallRequest {
	cpy := *req
	cpy.CallType = callType
	if cpy.Gas == 0 {
		cpy.Gas = s.env.Config().MaxGasLimit
	}
	return &cpy
}

func (s *Service) admit(callType types.CallType) error {
	if !s.limiter.Allow(callType.String()) {
		s.metrics.IncThrottled(callType)
		return ErrThrottled
	}
	return nil
}

// metered debits limit from the gas throttle and runs fn, which reports the
// gas used and the outcome reason. The refund and metrics are recorded once,
// however fn returns.
func (s *Service) metered(callType types.CallType, limit uint64, fn func() (uint64, string, error)) error {
	if !s.throttle.TryDebit(limit) {
		s.metrics.IncThrottled(callType)
		return ErrThrottled
	}
	var (
		used   uint64
		reason = reasonError
	)
	defer func() {
		s.throttle.Refund(limit, used)
		s.metrics.AddGas(callType, used, limit)
		s.metrics.IncRequest(callType, reason)
	}()

	var err error
	used, reason, err = fn()
	return err
}

// execute runs unit in a fresh call context.
func (s *Service) execute(ctx context.Context, rng *types.HistoricalRange, unit *execution.Unit, tracer execution.TracerFunc) (execution.Outcome, error) {
	cc := s.env.NewCallContext(ctx, rng, tracer)
	defer cc.Close()

	outcome, err := execution.Run(cc, s.strategy, unit)
	if err != nil {
		s.logger.Debug("Execution interrupted", "range", rng, "strategy", s.strategy.Name(), "err", err)
		return nil, stacktrace.Wrap(err)
	}
	return outcome, nil
}

// submit runs fn on the pool and waits for it. A panic inside fn is
// returned as an error.
func submit[T any](s *Service, fn func() (T, error)) (T, error) {
	var result T
	task := s.pool.SubmitErr(func() error {
		var err error
		result, err = fn()
		return err
	})
	err := task.Wait()
	return result, err
}
