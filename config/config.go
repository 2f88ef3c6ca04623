package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"timeflow/crypto"

	"github.com/BurntSushi/toml"
)

const (
	DefaultVaultName       = "TimeFlow Vault"
	DefaultRewardRateBps   = uint64(1_500)
	DefaultStreamingFeeBps = uint32(10)
	DefaultDataDir         = "./timeflow-data"
	DefaultLogEnv          = "local"
)

type Config struct {
	VaultName       string    `toml:"VaultName"`
	RewardRateBps   uint64    `toml:"RewardRateBps"`
	StreamingFeeBps uint32    `toml:"StreamingFeeBps"`
	Owner           string    `toml:"Owner"`
	DataDir         string    `toml:"DataDir"`
	MetricsAddress  string    `toml:"MetricsAddress,omitempty"`
	Log             Log       `toml:"Log"`
	Telemetry       Telemetry `toml:"Telemetry"`
}

// Load loads the configuration from the given path. A missing file is replaced
// by a freshly generated default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{RewardRateBps: DefaultRewardRateBps, StreamingFeeBps: DefaultStreamingFeeBps}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("config file %s has unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if strings.TrimSpace(cfg.VaultName) == "" {
		cfg.VaultName = DefaultVaultName
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = DefaultDataDir
	}
	if strings.TrimSpace(cfg.Log.Env) == "" {
		cfg.Log.Env = DefaultLogEnv
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault generates an owner key, stores it in a keystore next to the
// config file and saves a default configuration owned by it.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}
	if err := crypto.SaveToKeystore(DefaultOwnerKeystorePath(path), key, ""); err != nil {
		return nil, err
	}

	cfg := &Config{
		VaultName:       DefaultVaultName,
		RewardRateBps:   DefaultRewardRateBps,
		StreamingFeeBps: DefaultStreamingFeeBps,
		Owner:           key.Address().String(),
		DataDir:         DefaultDataDir,
		Log:             Log{Env: DefaultLogEnv},
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// DefaultOwnerKeystorePath returns where createDefault stores the owner key.
func DefaultOwnerKeystorePath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "owner.keystore")
}
