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

package ethapi

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

// TransactionArgs represents the arguments to construct a new call.
type TransactionArgs struct {
	From                 *common.Address `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	Value                *hexutil.Big    `json:"value"` // weibars

	// We accept "data" and "input" for backwards-compatibility reasons.
	// "input" is the newer name and should be preferred by clients.
	// Issue detail: https://github.com/ethereum/go-ethereum/issues/15628
	Data  *hexutil.Bytes `json:"data"`
	Input *hexutil.Bytes `json:"input"`
}

// from retrieves the transaction sender address.
func (args *TransactionArgs) from() common.Address {
	if args.From == nil {
		return common.Address{}
	}
	return *args.From
}

// data retrieves the transaction calldata. Input field is preferred.
func (args *TransactionArgs) data() []byte {
	if args.Input != nil {
		return *args.Input
	}
	if args.Data != nil {
		return *args.Data
	}
	return nil
}

func (args *TransactionArgs) validate() error {
	if args.Data != nil && args.Input != nil && !bytes.Equal(*args.Data, *args.Input) {
		return &invalidParamsError{message: `both "data" and "input" are set and not equal. Please use "input" to pass transaction call data`}
	}
	if args.GasPrice != nil && (args.MaxFeePerGas != nil || args.MaxPriorityFeePerGas != nil) {
		return &invalidParamsError{message: "both gasPrice and (maxFeePerGas or maxPriorityFeePerGas) specified"}
	}
	if args.To == nil && len(args.data()) == 0 {
		return &invalidParamsError{message: "contract creation without any data provided"}
	}
	return nil
}

// ToCallRequest converts the arguments into a request executed at block. The
// value is converted from weibars to tinybars, dropping any remainder. Fee
// fields are accepted but ignored since calls run at a zero gas price.
func (args *TransactionArgs) ToCallRequest(block types.BlockReference) (*types.CallRequest, error) {
	if err := args.validate(); err != nil {
		return nil, err
	}
	req := &types.CallRequest{
		From:  args.from(),
		To:    args.To,
		Data:  args.data(),
		Value: new(big.Int),
		Block: block,
	}
	if args.Gas != nil {
		req.Gas = uint64(*args.Gas)
	}
	if args.Value != nil {
		req.Value.Quo(args.Value.ToInt(), params.WeibarsPerTinybar)
	}
	return req, nil
}
