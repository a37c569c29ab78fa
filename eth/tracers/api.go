// Copyright 2021 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package tracers implements the debug tracing RPC namespace.
package tracers

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/eth/tracers/logger"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/ethapi"
)

//go:generate go tool mockgen -source api.go -destination mock_api.go -package tracers

const (
	// defaultTraceTimeout is the amount of time a single transaction can execute
	// by default before being forcefully aborted.
	defaultTraceTimeout = 5 * time.Second

	// opcodeTracer is the only tracer served, and the default.
	opcodeTracer = "opcodeLogger"
)

// Backend executes traced requests.
type Backend interface {
	TraceCall(ctx context.Context, req *types.CallRequest, cfg *logger.Config) (*logger.TraceResult, error)
	TraceTransaction(ctx context.Context, hash common.Hash, cfg *logger.Config) (*logger.TraceResult, error)
}

// API is the collection of tracing APIs exposed over the debugging endpoint.
type API struct {
	backend Backend
}

// NewAPI creates a new API definition for the tracing methods.
func NewAPI(backend Backend) *API {
	return &API{backend: backend}
}

// TraceConfig holds extra parameters to trace functions.
type TraceConfig struct {
	*logger.Config
	Tracer  *string
	Timeout *string
}

func (c *TraceConfig) loggerConfig() *logger.Config {
	if c == nil {
		return nil
	}
	return c.Config
}

// deadline derives the context a trace runs under.
func (c *TraceConfig) deadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	timeout := defaultTraceTimeout
	if c != nil {
		if c.Tracer != nil && *c.Tracer != opcodeTracer {
			return nil, nil, ethapi.NewInvalidParamsError(fmt.Sprintf("unsupported tracer %q", *c.Tracer))
		}
		if c.Timeout != nil {
			var err error
			if timeout, err = time.ParseDuration(*c.Timeout); err != nil {
				return nil, nil, ethapi.NewInvalidParamsError(fmt.Sprintf("invalid timeout: %v", err))
			}
		}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, cancel, nil
}

// TraceTransaction returns the opcodes executed by a recorded transaction,
// replayed against the state just before it reached consensus.
func (api *API) TraceTransaction(ctx context.Context, hash common.Hash, config *TraceConfig) (*logger.TraceResult, error) {
	ctx, cancel, err := config.deadline(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	res, err := api.backend.TraceTransaction(ctx, hash, config.loggerConfig())
	if err != nil {
		return nil, ethapi.ToRPCError(err)
	}
	return res, nil
}

// TraceCall lets you trace a given eth_call against the state of the given
// block, or the latest block when none is given.
func (api *API) TraceCall(ctx context.Context, args ethapi.TransactionArgs, block *types.BlockReference, config *TraceConfig) (*logger.TraceResult, error) {
	ref := types.LatestBlock
	if block != nil {
		ref = *block
	}
	req, err := args.ToCallRequest(ref)
	if err != nil {
		return nil, err
	}
	ctx, cancel, err := config.deadline(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	res, err := api.backend.TraceCall(ctx, req, config.loggerConfig())
	if err != nil {
		return nil, ethapi.ToRPCError(err)
	}
	return res, nil
}

// APIs return the collection of RPC services the tracer package offers.
func APIs(backend Backend) []rpc.API {
	return []rpc.API{
		{
			Namespace: "debug",
			Service:   NewAPI(backend),
		},
	}
}
