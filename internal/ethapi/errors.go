// Copyright 2024 The go-ethereum Authors
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
	"errors"

	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/execution"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/history"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/limiter"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/web3"
)

const (
	errCodeReverted            = 3
	errCodeNonceTooHigh        = -38011
	errCodeNonceTooLow         = -38010
	errCodeIntrinsicGas        = -38013
	errCodeInsufficientFunds   = -38014
	errCodeBlockNumberInvalid  = -38020
	errCodeClientLimitExceeded = -38026
	errCodeInternalError       = -32603
	errCodeInvalidParams       = -32602
	errCodeNotFound            = -32001
	errCodeInvalidInput        = -32000
	errCodeVMError             = -32015
)

// revertError is an API error that encompasses an EVM revert with JSON error
// code and a binary data blob.
type revertError struct {
	message string
	reason  string // revert data hex encoded
}

func (e *revertError) Error() string { return e.message }

// ErrorCode returns the JSON error code for a revert.
func (e *revertError) ErrorCode() int { return errCodeReverted }

// ErrorData returns the hex encoded revert reason.
func (e *revertError) ErrorData() any { return e.reason }

func newRevertError(revert *web3.RevertError) *revertError {
	return &revertError{message: revert.Error(), reason: revert.HexData()}
}

// vmError is an execution the interpreter halted.
type vmError struct {
	message string
	reason  string
}

func (e *vmError) Error() string  { return e.message }
func (e *vmError) ErrorCode() int { return errCodeVMError }
func (e *vmError) ErrorData() any { return e.reason }

// invalidTxError is a request rejected before execution.
type invalidTxError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *invalidTxError) Error() string  { return e.Message }
func (e *invalidTxError) ErrorCode() int { return e.Code }

func txValidationError(pre *web3.PreCheckError) *invalidTxError {
	code := errCodeInvalidInput
	switch pre.Code {
	case execution.PreCheckInsufficientGas:
		code = errCodeIntrinsicGas
	case execution.PreCheckInsufficientPayerBalance:
		code = errCodeInsufficientFunds
	case execution.PreCheckWrongNonce:
		code = errCodeNonceTooLow
		if errors.Is(pre, core.ErrNonceTooHigh) {
			code = errCodeNonceTooHigh
		}
	}
	return &invalidTxError{Message: pre.Error(), Code: code}
}

type invalidParamsError struct{ message string }

func (e *invalidParamsError) Error() string  { return e.message }
func (e *invalidParamsError) ErrorCode() int { return errCodeInvalidParams }

type clientLimitExceededError struct{ message string }

func (e *clientLimitExceededError) Error() string  { return e.message }
func (e *clientLimitExceededError) ErrorCode() int { return errCodeClientLimitExceeded }

type invalidBlockNumberError struct{ message string }

func (e *invalidBlockNumberError) Error() string  { return e.message }
func (e *invalidBlockNumberError) ErrorCode() int { return errCodeBlockNumberInvalid }

// notFoundError is a missing block or transaction artifact. Data names the
// missing artifact, if known.
type notFoundError struct {
	message string
	data    string
}

func (e *notFoundError) Error() string  { return e.message }
func (e *notFoundError) ErrorCode() int { return errCodeNotFound }
func (e *notFoundError) ErrorData() any {
	if e.data == "" {
		return nil
	}
	return e.data
}

type internalError struct{ message string }

func (e *internalError) Error() string  { return e.message }
func (e *internalError) ErrorCode() int { return errCodeInternalError }

// ToRPCError maps an error returned by the execution service onto the
// JSON-RPC error it is reported as.
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}
	var (
		revert   *web3.RevertError
		halt     *web3.HaltError
		pre      *web3.PreCheckError
		notFound *web3.EntityNotFoundError
		opLimit  *limiter.ErrOpcodeLimit
		pcLimit  *limiter.ErrPrecompileLimit
		rpcErr   rpc.Error
	)
	switch {
	case errors.As(err, &revert):
		return newRevertError(revert)
	case errors.As(err, &halt):
		return &vmError{message: halt.Error(), reason: halt.Reason.String()}
	case errors.As(err, &pre):
		return txValidationError(pre)
	case errors.As(err, &notFound):
		return &notFoundError{message: notFound.Error(), data: string(notFound.Kind)}
	case errors.Is(err, history.ErrBlockNotFound):
		return &notFoundError{message: err.Error()}
	case errors.Is(err, history.ErrBlockOutOfRange):
		return &invalidBlockNumberError{message: err.Error()}
	case errors.Is(err, web3.ErrThrottled), errors.As(err, &opLimit), errors.As(err, &pcLimit):
		return &clientLimitExceededError{message: err.Error()}
	case errors.As(err, &rpcErr):
		return rpcErr
	default:
		return &internalError{message: err.Error()}
	}
}

// NewInvalidParamsError returns an error reported with the invalid params
// code.
func NewInvalidParamsError(message string) error {
	return &invalidParamsError{message: message}
}
