package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	nativecommon "weidex/native/common"
	"weidex/storage"
)

// DefaultVaultAddress is the custody address used when none is configured.
var DefaultVaultAddress = common.BytesToAddress(crypto.Keccak256([]byte("weidex/vault")))

const (
	defaultRateLimitPerMinute = 600
	defaultRateLimitBurst     = 50
	defaultTelemetryEndpoint  = "localhost:4318"
)

type Config struct {
	DataDir         string   `toml:"DataDir"`
	GenesisFile     string   `toml:"GenesisFile,omitempty"`
	Backend         string   `toml:"Backend"`
	RPCAddress      string   `toml:"RPCAddress"`
	Environment     string   `toml:"Environment"`
	LogLevel        string   `toml:"LogLevel"`
	Owner           string   `toml:"Owner"`
	OwnerKeyPath    string   `toml:"OwnerKeyPath,omitempty"`
	FeeAccount      string   `toml:"FeeAccount"`
	VaultAddress    string   `toml:"VaultAddress"`
	MakerFeeRate    string   `toml:"MakerFeeRate"`
	TakerFeeRate    string   `toml:"TakerFeeRate"`
	ReferralFeeRate string   `toml:"ReferralFeeRate"`
	DisabledMethods []string `toml:"DisabledMethods"`
	MaxBatchOrders  int      `toml:"MaxBatchOrders"`
	EventArchive    string   `toml:"EventArchive,omitempty"`

	RateLimit RateLimitConfig `toml:"RateLimit"`
	Telemetry TelemetryConfig `toml:"Telemetry"`
}

// RateLimitConfig bounds read traffic per client on the RPC surface. A zero
// RequestsPerMinute disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute float64 `toml:"RequestsPerMinute"`
	Burst             int     `toml:"Burst"`
}

// TelemetryConfig configures the OTLP exporters.
type TelemetryConfig struct {
	Endpoint string `toml:"Endpoint"`
	Insecure bool   `toml:"Insecure"`
	Headers  string `toml:"Headers,omitempty"`
	Traces   bool   `toml:"Traces"`
	Metrics  bool   `toml:"Metrics"`
}

// Load loads the configuration from the given path. A default configuration
// is written when the file does not exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s has unknown field %s", path, undecoded[0])
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./weidex-data"
	}
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = storage.BackendLevelDB
	}
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = ":8080"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	if strings.TrimSpace(c.VaultAddress) == "" {
		c.VaultAddress = DefaultVaultAddress.Hex()
	}
	if strings.TrimSpace(c.FeeAccount) == "" {
		c.FeeAccount = c.Owner
	}
	if c.DisabledMethods == nil {
		c.DisabledMethods = []string{}
	}
	if c.MaxBatchOrders == 0 {
		c.MaxBatchOrders = nativecommon.DefaultMaxBatchOrders
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = defaultRateLimitBurst
	}
	if strings.TrimSpace(c.Telemetry.Endpoint) == "" {
		c.Telemetry.Endpoint = defaultTelemetryEndpoint
	}
}

// createDefault creates and saves a default configuration file. A fresh owner
// key is generated next to it.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	keyPath := defaultOwnerKeyPath(path)
	if err := ensureDir(keyPath); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(keyPath, key); err != nil {
		return nil, err
	}

	owner := crypto.PubkeyToAddress(key.PublicKey).Hex()
	cfg := &Config{
		DataDir:         "./weidex-data",
		Backend:         storage.BackendLevelDB,
		RPCAddress:      ":8080",
		Environment:     "local",
		LogLevel:        "info",
		Owner:           owner,
		OwnerKeyPath:    keyPath,
		FeeAccount:      owner,
		VaultAddress:    DefaultVaultAddress.Hex(),
		MakerFeeRate:    "0",
		TakerFeeRate:    "0",
		ReferralFeeRate: "0",
		DisabledMethods: []string{},
		MaxBatchOrders:  nativecommon.DefaultMaxBatchOrders,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: defaultRateLimitPerMinute,
			Burst:             defaultRateLimitBurst,
		},
		Telemetry: TelemetryConfig{
			Endpoint: defaultTelemetryEndpoint,
			Insecure: true,
		},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func defaultOwnerKeyPath(configPath string) string {
	dir := filepath.Dir(configPath)
	if dir == "." || dir == "" {
		dir = ""
	}
	return filepath.Join(dir, "owner.key")
}
