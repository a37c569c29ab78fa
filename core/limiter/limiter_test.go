package limiter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

func TestCountLimitsOpcode(t *testing.T) {
	limits := New(LimitConfig{
		Count: &CountLimitConfig{Opcode: map[vm.OpCode]uint64{vm.MULMOD: 2}},
	})

	if err := limits.TrackOpcode(vm.MULMOD, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := limits.TrackOpcode(vm.MULMOD, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := limits.TrackOpcode(vm.ADD, 1); err != nil {
		t.Fatalf("unlimited opcode rejected: %v", err)
	}
	err := limits.TrackOpcode(vm.MULMOD, 1)
	var limitErr *ErrOpcodeLimit
	if !errors.As(err, &limitErr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	if limitErr.Scope != CountScope || limitErr.Limit != 2 || limitErr.Opcode != vm.MULMOD {
		t.Fatalf("unexpected limit error: %+v", limitErr)
	}

	// every request starts with fresh counts
	fresh := New(LimitConfig{
		Count: &CountLimitConfig{Opcode: map[vm.OpCode]uint64{vm.MULMOD: 2}},
	})
	if err := fresh.TrackOpcode(vm.MULMOD, 1); err != nil {
		t.Fatalf("unexpected error on new limiter: %v", err)
	}
}

func TestCountLimitsPrecompile(t *testing.T) {
	addr := common.BytesToAddress([]byte{0x01})
	limits := New(LimitConfig{
		Count: &CountLimitConfig{Precompile: map[common.Address]uint64{addr: 1}},
	})

	if err := limits.TrackPrecompile(addr, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := limits.TrackPrecompile(addr, 1)
	var limitErr *ErrPrecompileLimit
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected precompile limit error, got %v", err)
	}
	if limitErr.Address != addr {
		t.Fatalf("unexpected address %s", limitErr.Address)
	}
}

func TestCycleLimitsOpcode(t *testing.T) {
	limits := New(LimitConfig{
		// cycle limits win over count limits
		Count: &CountLimitConfig{Opcode: map[vm.OpCode]uint64{vm.KECCAK256: 1}},
		Cycle: &CycleLimitConfig{
			Threshold:         100,
			OpcodeCyclePerGas: map[vm.OpCode]uint64{vm.KECCAK256: 10},
		},
	})

	if err := limits.TrackOpcode(vm.KECCAK256, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := limits.TrackOpcode(vm.KECCAK256, 5); err != nil {
		t.Fatalf("unexpected error at threshold: %v", err)
	}
	err := limits.TrackOpcode(vm.KECCAK256, 1)
	var limitErr *ErrOpcodeLimit
	if !errors.As(err, &limitErr) || limitErr.Scope != CycleScope {
		t.Fatalf("expected cycle limit error, got %v", err)
	}

	if err := limits.TrackOpcode(vm.KECCAK256, ^uint64(0)); err == nil {
		t.Fatalf("expected overflow to breach the limit")
	}
}

func TestCycleLimitsPrecompile(t *testing.T) {
	addr := common.BytesToAddress([]byte{0x05})
	limits := New(LimitConfig{
		Cycle: &CycleLimitConfig{
			CallOverhead:          10,
			Threshold:             100,
			PrecompileCyclePerGas: map[common.Address]uint64{addr: 2},
		},
	})

	// (10 + 30) * 2 = 80
	if err := limits.TrackPrecompile(addr, 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := limits.TrackPrecompile(common.BytesToAddress([]byte{0x06}), 1000); err != nil {
		t.Fatalf("unweighted precompile rejected: %v", err)
	}
	// (10 + 0) * 2 = 20 would reach 100
	if err := limits.TrackPrecompile(addr, 0); err != nil {
		t.Fatalf("unexpected error at threshold: %v", err)
	}
	if err := limits.TrackPrecompile(addr, 0); err == nil {
		t.Fatalf("expected cycle limit error")
	}
}

func TestBuildLimitConfig(t *testing.T) {
	cfg, err := BuildLimitConfig(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Empty() || New(cfg) != nil {
		t.Fatalf("expected no limits, got %+v", cfg)
	}

	cfg, err = BuildLimitConfig(Config{
		Opcodes:     map[string]uint64{"sstore": 3, "CALL": 0},
		Precompiles: map[string]uint64{"0x168": 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Count == nil || cfg.Count.Opcode[vm.SSTORE] != 3 {
		t.Fatalf("unexpected count config %+v", cfg.Count)
	}
	if _, ok := cfg.Count.Opcode[vm.CALL]; ok {
		t.Fatalf("zero limit should be ignored")
	}
	if cfg.Count.Precompile[common.HexToAddress("0x0000000000000000000000000000000000000168")] != 2 {
		t.Fatalf("short precompile address not parsed: %+v", cfg.Count.Precompile)
	}

	if _, err := BuildLimitConfig(Config{Opcodes: map[string]uint64{"NOPE": 1}}); err == nil {
		t.Fatalf("expected unknown opcode error")
	}
	if _, err := BuildLimitConfig(Config{Precompiles: map[string]uint64{"0xzz": 1}}); err == nil {
		t.Fatalf("expected invalid address error")
	}
}

func TestBuildLimitConfigOverrideFile(t *testing.T) {
	override := Config{
		Cycles: &CycleConfig{
			CallOverhead:  7,
			Threshold:     12345,
			OpcodeWeights: map[string]uint64{"JUMPDEST": 99},
		},
	}
	data, err := json.Marshal(override)
	if err != nil {
		t.Fatalf("failed to marshal override: %v", err)
	}
	file := filepath.Join(t.TempDir(), "limits.json")
	if err := os.WriteFile(file, data, 0o600); err != nil {
		t.Fatalf("failed to write override file: %v", err)
	}

	cfg, err := BuildLimitConfig(Config{File: file, Opcodes: map[string]uint64{"SSTORE": 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Count != nil {
		t.Fatalf("inline limits should be replaced by the file")
	}
	if cfg.Cycle == nil || cfg.Cycle.Threshold != 12345 || cfg.Cycle.OpcodeCyclePerGas[vm.JUMPDEST] != 99 {
		t.Fatalf("override not applied: %+v", cfg.Cycle)
	}

	if _, err := BuildLimitConfig(Config{File: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatalf("expected missing override file error")
	}
}

func TestTrackerLatchesFirstBreach(t *testing.T) {
	precompile := common.BytesToAddress([]byte{0x02})
	limits := New(LimitConfig{
		Count: &CountLimitConfig{
			Opcode:     map[vm.OpCode]uint64{vm.SLOAD: 1},
			Precompile: map[common.Address]uint64{precompile: 1},
		},
	})
	aborted := 0
	tracker := NewTracker(limits, []common.Address{precompile}, func() { aborted++ })
	hooks := tracker.Hooks()

	hooks.OnEnter(0, byte(vm.CALL), common.Address{}, common.Address{0xaa}, nil, 0, nil)
	hooks.OnEnter(1, byte(vm.STATICCALL), common.Address{0xaa}, precompile, nil, 0, nil)
	hooks.OnExit(1, nil, 60, nil, false)
	if tracker.Err() != nil {
		t.Fatalf("unexpected breach: %v", tracker.Err())
	}
	hooks.OnOpcode(0, byte(vm.SLOAD), 100, 2100, nil, nil, 1, nil)
	hooks.OnOpcode(1, byte(vm.SLOAD), 100, 2100, nil, nil, 1, nil)
	hooks.OnOpcode(2, byte(vm.SLOAD), 100, 2100, nil, nil, 1, nil)
	hooks.OnExit(0, nil, 0, nil, false)

	var limitErr *ErrOpcodeLimit
	if !errors.As(tracker.Err(), &limitErr) || limitErr.Opcode != vm.SLOAD {
		t.Fatalf("expected SLOAD limit, got %v", tracker.Err())
	}
	if aborted != 1 {
		t.Fatalf("abort called %d times", aborted)
	}

	if NewTracker(nil, nil, nil).Hooks() != nil {
		t.Fatalf("expected no hooks without a limiter")
	}
}
