package precompile

import (
	"errors"
	"math/big"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
)

const exchangeRateGas = 100

const exchangeRateABI = `[
	{"type":"function","name":"tinycentsToTinybars","stateMutability":"view",
	 "inputs":[{"name":"tinycents","type":"uint256"}],"outputs":[{"name":"tinybars","type":"uint256"}]},
	{"type":"function","name":"tinybarsToTinycents","stateMutability":"view",
	 "inputs":[{"name":"tinybars","type":"uint256"}],"outputs":[{"name":"tinycents","type":"uint256"}]}
]`

type exchangeRate struct {
	*contract
	fallback ExchangeRateConfig
	rate     *ExchangeRateConfig
}

func newExchangeRate(env *Env, fallback ExchangeRateConfig) *exchangeRate {
	e := &exchangeRate{contract: newContract("EXCHANGE_RATE", exchangeRateABI, exchangeRateGas, env), fallback: fallback}
	e.handlers["tinycentsToTinybars"] = func(args []any) ([]any, error) {
		rate, err := e.current()
		if err != nil {
			return nil, err
		}
		return []any{convert(args[0].(*big.Int), rate.HbarEquivalent, rate.CentEquivalent)}, nil
	}
	e.handlers["tinybarsToTinycents"] = func(args []any) ([]any, error) {
		rate, err := e.current()
		if err != nil {
			return nil, err
		}
		return []any{convert(args[0].(*big.Int), rate.CentEquivalent, rate.HbarEquivalent)}, nil
	}
	return e
}

// current returns the rate in force at the end of the range, loading it once.
func (e *exchangeRate) current() (ExchangeRateConfig, error) {
	if e.rate != nil {
		return *e.rate, nil
	}
	rate := e.fallback
	row, err := e.env.View.ExchangeRate()
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return ExchangeRateConfig{}, err
	case row.CentEquivalent > 0 && row.HbarEquivalent > 0:
		rate = ExchangeRateConfig{CentEquivalent: row.CentEquivalent, HbarEquivalent: row.HbarEquivalent}
	}
	e.rate = &rate
	return rate, nil
}

// convert computes amount * mul / div, truncating.
func convert(amount *big.Int, mul, div int64) *big.Int {
	out := new(big.Int).Mul(amount, big.NewInt(mul))
	return out.Quo(out, big.NewInt(div))
}
