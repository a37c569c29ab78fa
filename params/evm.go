package params

import (
	"math/big"

	ethparams "github.com/ethereum/go-ethereum/params"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/types"
)

// Network chain ids.
const (
	MainnetChainID    = 295
	TestnetChainID    = 296
	PreviewnetChainID = 297
	LocalChainID      = 298
)

// MaxGasLimit is the most gas a single call may be given.
const MaxGasLimit = 15_000_000

// WeibarsPerTinybar converts the 18 decimal values of Ethereum transactions
// into the 8 decimal tinybars balances are kept in.
var WeibarsPerTinybar = big.NewInt(10_000_000_000)

// Fork names the EVM rule set a services release ran with.
type Fork uint8

const (
	ForkLondon Fork = iota
	ForkParis
	ForkShanghai
	ForkCancun
)

func (f Fork) String() string {
	switch f {
	case ForkLondon:
		return "london"
	case ForkParis:
		return "paris"
	case ForkShanghai:
		return "shanghai"
	case ForkCancun:
		return "cancun"
	default:
		return "unknown"
	}
}

type forkActivation struct {
	since types.HapiVersion
	fork  Fork
}

// forkSchedule lists the first services release of each EVM fork, oldest first.
var forkSchedule = []forkActivation{
	{since: types.HapiVersion{Major: 0, Minor: 0}, fork: ForkLondon},
	{since: types.HapiVersion{Major: 0, Minor: 34}, fork: ForkParis},
	{since: types.HapiVersion{Major: 0, Minor: 38}, fork: ForkShanghai},
	{since: types.HapiVersion{Major: 0, Minor: 51}, fork: ForkCancun},
}

// Token allowances became readable with this services release. Older ranges
// cannot answer allowance queries at all.
var AllowancesSince = types.HapiVersion{Major: 0, Minor: 25}

// ForkAt returns the fork a record produced by version executed under.
func ForkAt(version types.HapiVersion) Fork {
	fork := forkSchedule[0].fork
	for _, activation := range forkSchedule {
		if version.AtLeast(activation.since.Major, activation.since.Minor) {
			fork = activation.fork
		}
	}
	return fork
}

// ChainConfig builds the interpreter configuration for a fork. Every block
// based fork is active from genesis; Paris and later are also time based.
func ChainConfig(chainID uint64, fork Fork) *ethparams.ChainConfig {
	zero := big.NewInt(0)
	cfg := &ethparams.ChainConfig{
		ChainID:             new(big.Int).SetUint64(chainID),
		HomesteadBlock:      zero,
		EIP150Block:         zero,
		EIP155Block:         zero,
		EIP158Block:         zero,
		ByzantiumBlock:      zero,
		ConstantinopleBlock: zero,
		PetersburgBlock:     zero,
		IstanbulBlock:       zero,
		MuirGlacierBlock:    zero,
		BerlinBlock:         zero,
		LondonBlock:         zero,
		ArrowGlacierBlock:   zero,
		GrayGlacierBlock:    zero,
	}
	if fork >= ForkParis {
		cfg.MergeNetsplitBlock = zero
		cfg.TerminalTotalDifficulty = zero
	}
	genesis := uint64(0)
	if fork >= ForkShanghai {
		cfg.ShanghaiTime = &genesis
	}
	if fork >= ForkCancun {
		cfg.CancunTime = &genesis
	}
	return cfg
}
