package precompile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/vm"
)

// Response code names returned in revert reasons.
const (
	codeInvalidTokenID         = "INVALID_TOKEN_ID"
	codeInvalidAccountID       = "INVALID_ACCOUNT_ID"
	codeTokenNotAssociated     = "TOKEN_NOT_ASSOCIATED_TO_ACCOUNT"
	codeNotSupported           = "NOT_SUPPORTED"
	codeInvalidTransactionBody = "INVALID_TRANSACTION_BODY"
)

// Successful response code as defined by the services ResponseCodeEnum.
const responseSuccess int64 = 22

var (
	revertSelector = []byte{0x08, 0xc3, 0x79, 0xa0}
	stringArgs     = abi.Arguments{{Type: mustType("string")}}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// failure is a business level rejection, surfaced as an Error(string) revert.
type failure string

func (f failure) Error() string { return string(f) }

func revertWith(reason string) ([]byte, error) {
	packed, err := stringArgs.Pack(reason)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, revertSelector...), packed...), vm.ErrExecutionReverted
}

type handler func(args []any) ([]any, error)

// contract dispatches ABI encoded calls to handlers by selector.
type contract struct {
	name     string
	abi      abi.ABI
	gas      uint64
	env      *Env
	handlers map[string]handler
}

func newContract(name, definition string, gas uint64, env *Env) *contract {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("invalid %s abi: %v", name, err))
	}
	return &contract{name: name, abi: parsed, gas: gas, env: env, handlers: make(map[string]handler)}
}

func (c *contract) Name() string { return c.name }

func (c *contract) RequiredGas([]byte) uint64 { return c.gas }

func (c *contract) Run(input []byte) ([]byte, error) {
	if len(input) < 4 {
		return revertWith(codeInvalidTransactionBody)
	}
	method, err := c.abi.MethodById(input[:4])
	if err != nil {
		return revertWith(codeNotSupported)
	}
	h, ok := c.handlers[method.Name]
	if !ok {
		return revertWith(codeNotSupported)
	}
	args, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return revertWith(codeInvalidTransactionBody)
	}
	out, err := h(args)
	var f failure
	if errors.As(err, &f) {
		return revertWith(string(f))
	}
	if err != nil {
		c.env.fail(err)
		return nil, err
	}
	return method.Outputs.Pack(out...)
}
