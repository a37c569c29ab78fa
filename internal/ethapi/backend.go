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

// Package ethapi implements the eth and web3 JSON-RPC namespaces.
package ethapi

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

//go:generate go tool mockgen -source backend.go -destination mock_backend.go -package ethapi

// Backend is the execution service the API forwards requests to.
type Backend interface {
	ChainID() uint64
	BlockNumber(ctx context.Context) (uint64, error)
	Call(ctx context.Context, req *types.CallRequest) ([]byte, error)
	EstimateGas(ctx context.Context, req *types.CallRequest) (uint64, error)
}

// GetAPIs returns the eth and web3 services served over RPC.
func GetAPIs(b Backend) []rpc.API {
	return []rpc.API{
		{
			Namespace: "eth",
			Service:   NewBlockChainAPI(b),
		}, {
			Namespace: "web3",
			Service:   NewWeb3API(),
		},
	}
}
