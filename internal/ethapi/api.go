// Copyright 2015 The go-ethereum Authors
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

package ethapi

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/version"
	"github.com/hashgraph/hedera-mirror-node-sub001/internal/web3log"
)

// BlockChainAPI provides an API to execute calls against the mirrored chain.
type BlockChainAPI struct {
	b      Backend
	logger log.Logger
}

// NewBlockChainAPI creates a new blockchain API.
func NewBlockChainAPI(b Backend) *BlockChainAPI {
	return &BlockChainAPI{b: b, logger: web3log.New("ethapi")}
}

// ChainId is the EIP-155 replay-protection chain id of the network.
func (api *BlockChainAPI) ChainId() *hexutil.Big {
	return (*hexutil.Big)(new(big.Int).SetUint64(api.b.ChainID()))
}

// BlockNumber returns the index of the most recent record file.
func (api *BlockChainAPI) BlockNumber(ctx context.Context) (hexutil.Uint64, error) {
	n, err := api.b.BlockNumber(ctx)
	if err != nil {
		return 0, api.rpcError("eth_blockNumber", err)
	}
	return hexutil.Uint64(n), nil
}

// Call executes the given transaction against the state of the given block,
// or the latest block when none is given. Nothing is persisted.
func (api *BlockChainAPI) Call(ctx context.Context, args TransactionArgs, block *types.BlockReference) (hexutil.Bytes, error) {
	req, err := args.ToCallRequest(blockOrLatest(block))
	if err != nil {
		return nil, err
	}
	ret, err := api.b.Call(ctx, req)
	if err != nil {
		return nil, api.rpcError("eth_call", err)
	}
	return ret, nil
}

// EstimateGas returns the lowest gas limit that allows the transaction to run
// successfully at the given block, or the latest block when none is given.
// The estimate is capped by args.Gas when set.
func (api *BlockChainAPI) EstimateGas(ctx context.Context, args TransactionArgs, block *types.BlockReference) (hexutil.Uint64, error) {
	req, err := args.ToCallRequest(blockOrLatest(block))
	if err != nil {
		return 0, err
	}
	estimate, err := api.b.EstimateGas(ctx, req)
	if err != nil {
		return 0, api.rpcError("eth_estimateGas", err)
	}
	return hexutil.Uint64(estimate), nil
}

func (api *BlockChainAPI) rpcError(method string, err error) error {
	rpcErr := ToRPCError(err)
	if _, internal := rpcErr.(*internalError); internal {
		api.logger.Warn("Request failed", "method", method, "err", err)
	} else {
		api.logger.Debug("Request rejected", "method", method, "err", err)
	}
	return rpcErr
}

func blockOrLatest(block *types.BlockReference) types.BlockReference {
	if block == nil {
		return types.LatestBlock
	}
	return *block
}

// Web3API offers helper utils.
type Web3API struct{}

// NewWeb3API creates a new Web3API instance.
func NewWeb3API() *Web3API {
	return &Web3API{}
}

// ClientVersion returns the node name.
func (s *Web3API) ClientVersion() string {
	return version.ClientName("")
}

// Sha3 applies the ethereum sha3 implementation on the input.
// It assumes the input is hex encoded.
func (s *Web3API) Sha3(input hexutil.Bytes) hexutil.Bytes {
	return crypto.Keccak256(input)
}
