package limiter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
)

// CountLimitConfig configures per-opcode and per-precompile invocation count
// limits.
type CountLimitConfig struct {
	Opcode     map[vm.OpCode]uint64
	Precompile map[common.Address]uint64
}

// CycleLimitConfig configures cycle-based execution limits.
// Cycles are computed as: (callOverhead + gasUsed) * multiplier
type CycleLimitConfig struct {
	CallOverhead          uint64
	Threshold             uint64
	OpcodeCyclePerGas     map[vm.OpCode]uint64
	PrecompileCyclePerGas map[common.Address]uint64
}

// LimitConfig holds either count-based or cycle-based limit configuration.
type LimitConfig struct {
	Count *CountLimitConfig
	Cycle *CycleLimitConfig
}

// Empty returns true if no limits are configured.
func (cfg LimitConfig) Empty() bool {
	return cfg.Count == nil && cfg.Cycle == nil
}

// Config is the external form of the limits: opcodes by mnemonic and
// precompiles by hex address. File, when set, names a JSON document of the
// same shape that replaces the inline values.
type Config struct {
	File        string            `koanf:"file" json:"-"`
	Opcodes     map[string]uint64 `koanf:"opcodes" json:"opcodes"`
	Precompiles map[string]uint64 `koanf:"precompiles" json:"precompiles"`
	Cycles      *CycleConfig      `koanf:"cycles" json:"cycles"`
}

type CycleConfig struct {
	CallOverhead      uint64            `koanf:"callOverhead" json:"callOverhead"`
	Threshold         uint64            `koanf:"threshold" json:"threshold"`
	OpcodeWeights     map[string]uint64 `koanf:"opcodeWeights" json:"opcodeWeights"`
	PrecompileWeights map[string]uint64 `koanf:"precompileWeights" json:"precompileWeights"`
}

// BuildLimitConfig validates cfg and compiles it. An override file that
// cannot be read is an error.
func BuildLimitConfig(cfg Config) (LimitConfig, error) {
	if cfg.File != "" {
		override, err := loadOverride(cfg.File)
		if err != nil {
			return LimitConfig{}, err
		}
		cfg = *override
	}

	var result LimitConfig
	count := &CountLimitConfig{
		Opcode:     make(map[vm.OpCode]uint64),
		Precompile: make(map[common.Address]uint64),
	}
	for name, limit := range cfg.Opcodes {
		op, err := parseOpcode(name)
		if err != nil {
			return LimitConfig{}, err
		}
		if limit > 0 {
			count.Opcode[op] = limit
		}
	}
	for key, limit := range cfg.Precompiles {
		addr, err := parseAddress(key)
		if err != nil {
			return LimitConfig{}, err
		}
		if limit > 0 {
			count.Precompile[addr] = limit
		}
	}
	if len(count.Opcode) > 0 || len(count.Precompile) > 0 {
		result.Count = count
	}

	if tracking := cfg.Cycles; tracking != nil && tracking.Threshold > 0 {
		cycle := &CycleLimitConfig{
			CallOverhead:          tracking.CallOverhead,
			Threshold:             tracking.Threshold,
			OpcodeCyclePerGas:     make(map[vm.OpCode]uint64),
			PrecompileCyclePerGas: make(map[common.Address]uint64),
		}
		for name, multiplier := range tracking.OpcodeWeights {
			op, err := parseOpcode(name)
			if err != nil {
				return LimitConfig{}, err
			}
			cycle.OpcodeCyclePerGas[op] = multiplier
		}
		for key, multiplier := range tracking.PrecompileWeights {
			addr, err := parseAddress(key)
			if err != nil {
				return LimitConfig{}, err
			}
			cycle.PrecompileCyclePerGas[addr] = multiplier
		}
		result.Cycle = cycle
	}
	return result, nil
}

func loadOverride(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read execution limits: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse execution limits %s: %w", path, err)
	}
	log.Info("Loaded execution limits", "path", path, "opcodes", len(cfg.Opcodes), "precompiles", len(cfg.Precompiles))
	return &cfg, nil
}

func parseOpcode(name string) (vm.OpCode, error) {
	name = strings.ToUpper(name)
	op := vm.StringToOp(name)
	if op == 0 && name != vm.STOP.String() {
		return 0, fmt.Errorf("unknown opcode %q in execution limits", name)
	}
	return op, nil
}

// parseAddress accepts full and shortened hex addresses such as 0x168.
func parseAddress(key string) (common.Address, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	b, err := hex.DecodeString(raw)
	if err != nil || len(b) == 0 || len(b) > common.AddressLength {
		return common.Address{}, fmt.Errorf("invalid precompile address %q in execution limits", key)
	}
	return common.BytesToAddress(b), nil
}
