// Package precompile installs the network's system contracts next to the
// standard Ethereum precompiles.
package precompile

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/params"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/state"
)

var (
	TokenServiceAddress = common.HexToAddress("0x167")
	ExchangeRateAddress = common.HexToAddress("0x168")
	PrngAddress         = common.HexToAddress("0x169")
)

// ExchangeRateConfig is the rate used when the mirror has no exchange rate
// for the range.
type ExchangeRateConfig struct {
	CentEquivalent int64 `koanf:"centEquivalent"`
	HbarEquivalent int64 `koanf:"hbarEquivalent"`
}

// DefaultExchangeRate is one hbar for twelve cents.
var DefaultExchangeRate = ExchangeRateConfig{CentEquivalent: 12, HbarEquivalent: 1}

// Env is what a system contract may read during one request. Fault receives
// infrastructure errors so the request fails instead of reporting a revert.
type Env struct {
	View  *state.View
	Fault func(error)
}

func (e *Env) fail(err error) {
	if e.Fault != nil {
		e.Fault(err)
	}
}

// Registry builds per-request precompile sets.
type Registry struct {
	rate ExchangeRateConfig
}

// NewRegistry returns a registry falling back to rate when the mirror holds
// none. A zero config selects DefaultExchangeRate.
func NewRegistry(rate ExchangeRateConfig) *Registry {
	if rate.CentEquivalent <= 0 || rate.HbarEquivalent <= 0 {
		rate = DefaultExchangeRate
	}
	return &Registry{rate: rate}
}

// Active returns the Ethereum precompiles of rules plus the system contracts
// bound to env. The result belongs to one request.
func (r *Registry) Active(rules params.Rules, env *Env) vm.PrecompiledContracts {
	contracts := vm.ActivePrecompiledContracts(rules)
	contracts[ExchangeRateAddress] = newExchangeRate(env, r.rate)
	contracts[PrngAddress] = newPrng(env)
	contracts[TokenServiceAddress] = newTokenService(env)
	return contracts
}

// Addresses lists the addresses of contracts, for warming the access list.
func Addresses(contracts vm.PrecompiledContracts) []common.Address {
	addrs := make([]common.Address, 0, len(contracts))
	for addr := range contracts {
		addrs = append(addrs, addr)
	}
	return addrs
}

// IsSystemContract reports whether addr is one of the network's own
// contracts rather than an Ethereum precompile.
func IsSystemContract(addr common.Address) bool {
	return addr == TokenServiceAddress || addr == ExchangeRateAddress || addr == PrngAddress
}
