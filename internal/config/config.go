// Package config loads the node configuration from defaults, an optional
// TOML file and WEB3_ environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"

	"github.com/hashgraph/hedera-mirror-node-sub001/core/limiter"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/mirror/storage"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/precompile"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/throttle"
	"github.com/hashgraph/hedera-mirror-node-sub001/core/web3"
	"github.com/hashgraph/hedera-mirror-node-sub001/params"
)

const (
	// EnvPrefix marks the environment variables read as configuration.
	EnvPrefix = "WEB3_"

	// envSeparator separates nested keys in environment variable names, as
	// in WEB3_THROTTLE__GASPERSECOND.
	envSeparator = "__"

	delim = "."
)

// Config is the node configuration.
type Config struct {
	DB           storage.Config                `koanf:"db"`
	EVM          EVMConfig                     `koanf:"evm"`
	Throttle     throttle.Config               `koanf:"throttle"`
	ExchangeRate precompile.ExchangeRateConfig `koanf:"exchangeRate"`
	RPC          RPCConfig                     `koanf:"rpc"`
	Metrics      MetricsConfig                 `koanf:"metrics"`
	Web3         web3.Config                   `koanf:"web3"`
}

// EVMConfig configures execution.
type EVMConfig struct {
	ChainID     uint64         `koanf:"chainId"`
	MaxGasLimit uint64         `koanf:"maxGasLimit"`
	Modularized bool           `koanf:"modularized"`
	Timeout     Duration       `koanf:"timeout"` // upper bound of one request, 0 for none
	Limits      limiter.Config `koanf:"limits"`
}

// RPCConfig configures the JSON-RPC listener.
type RPCConfig struct {
	Addr          string   `koanf:"addr"`
	EnableDebug   bool     `koanf:"enableDebug"`
	Cors          []string `koanf:"cors"`
	VHosts        []string `koanf:"vhosts"`
	ReadTimeout   Duration `koanf:"readTimeout"`
	WriteTimeout  Duration `koanf:"writeTimeout"`
	BatchLimit    int      `koanf:"batchLimit"`
	BatchResponse int      `koanf:"batchResponseMaxSize"`
}

// MetricsConfig configures the prometheus listener. An empty address
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// Defaults are the values used for keys no source sets.
var Defaults = map[string]any{
	"db.driver":                   "postgres",
	"db.maxOpenConns":             20,
	"db.maxIdleConns":             10,
	"db.cacheSizeMB":              64,
	"evm.chainId":                 params.MainnetChainID,
	"evm.maxGasLimit":             params.MaxGasLimit,
	"evm.modularized":             false,
	"evm.timeout":                 "10s",
	"throttle.gasPerSecond":       7_500_000_000,
	"throttle.refundPercent":      10,
	"throttle.requestsPerSecond":  500,
	"throttle.burst":              500,
	"exchangeRate.centEquivalent": precompile.DefaultExchangeRate.CentEquivalent,
	"exchangeRate.hbarEquivalent": precompile.DefaultExchangeRate.HbarEquivalent,
	"rpc.addr":                    "127.0.0.1:8545",
	"rpc.enableDebug":             true,
	"rpc.vhosts":                  []string{"localhost"},
	"rpc.readTimeout":             "30s",
	"rpc.writeTimeout":            "30s",
	"rpc.batchLimit":              100,
	"rpc.batchResponseMaxSize":    25 * 1000 * 1000,
	"metrics.addr":                "127.0.0.1:6060",
	"web3.maxConcurrency":         0,
	"web3.estimateErrorRatio":     0.015,
}

// Load reads the configuration. path may be empty, in which case only the
// defaults and the environment are read.
func Load(path string) (*Config, error) {
	k, err := load(path)
	if err != nil {
		return nil, err
	}
	return decode(k)
}

// Dump renders the effective configuration as TOML.
func Dump(path string) ([]byte, error) {
	k, err := load(path)
	if err != nil {
		return nil, err
	}
	if _, err := decode(k); err != nil {
		return nil, err
	}
	return k.Marshal(toml.Parser())
}

func load(path string) (*koanf.Koanf, error) {
	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(Defaults, delim), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	keys := canonicalKeys(k)
	if err := k.Load(env.Provider(EnvPrefix, delim, func(s string) string {
		return envKey(s, keys)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	return k, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// canonicalKeys indexes the known keys by their lower case form, since
// environment variable names carry no case.
func canonicalKeys(k *koanf.Koanf) map[string]string {
	keys := make(map[string]string)
	for _, key := range k.Keys() {
		keys[strings.ToLower(key)] = key
	}
	return keys
}

// envKey maps WEB3_THROTTLE__GASPERSECOND onto throttle.gasPerSecond.
func envKey(name string, keys map[string]string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, envSeparator, delim)
	if canonical, ok := keys[key]; ok {
		return canonical
	}
	return key
}

func (c *Config) validate() error {
	if c.EVM.MaxGasLimit == 0 {
		return errors.New("evm.maxGasLimit must be positive")
	}
	if c.Throttle.RefundPercent > 100 {
		return fmt.Errorf("throttle.refundPercent must be at most 100, have %d", c.Throttle.RefundPercent)
	}
	if r := c.Web3.EstimateErrorRatio; r < 0 || r >= 1 {
		return fmt.Errorf("web3.estimateErrorRatio must be in [0, 1), have %v", r)
	}
	return nil
}
