package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

const (
	EnvSignerKey  = "SIGNER_KEY"
	EnvDbPassword = "DB_PASSWORD"

	DefaultBlockTime = 3000
)

type Chain struct {
	Chain             string   `toml:"chain"`
	ChainId           uint64   `toml:"chain_id"`
	BlockTime         int      `toml:"block_time"` // in milliseconds, used as the receipt poll interval
	Rpcs              []string `toml:"rpcs"`
	BridgeAddress     string   `toml:"bridge_address"`
	TokenVaultAddress string   `toml:"token_vault_address"`
}

type Relayer struct {
	DbHost     string `toml:"db_host"`
	DbPort     int    `toml:"db_port"`
	DbUsername string `toml:"db_username"`
	DbPassword string `toml:"db_password"`
	DbSchema   string `toml:"db_schema"`
	InMemory   bool   `toml:"in_memory"`

	ServerPort int `toml:"server_port"`

	// Hex encoded private key used to sign release transactions. Prefer the SIGNER_KEY env var.
	SignerKey string `toml:"signer_key"`
	// Release confirmed transfers automatically.
	AutoRelease bool `toml:"auto_release"`

	Chains map[string]Chain `toml:"chains"`
}

// Load reads a toml config file, applies env overrides and validates the result.
func Load(path string) (*Relayer, error) {
	cfg := &Relayer{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Relayer) applyEnv() {
	if key := os.Getenv(EnvSignerKey); key != "" {
		c.SignerKey = key
	}

	if password := os.Getenv(EnvDbPassword); password != "" {
		c.DbPassword = password
	}
}

func (c *Relayer) Validate() error {
	if len(c.Chains) == 0 {
		return fmt.Errorf("no chain configured")
	}

	if !c.InMemory && c.DbHost == "" {
		return fmt.Errorf("db_host cannot be empty")
	}

	ids := make(map[uint64]string)
	for name, chain := range c.Chains {
		if chain.ChainId == 0 {
			return fmt.Errorf("chain %s: chain_id is required", name)
		}

		if other, ok := ids[chain.ChainId]; ok {
			return fmt.Errorf("chain %s: chain_id %d is already used by %s", name, chain.ChainId, other)
		}
		ids[chain.ChainId] = name

		if len(chain.Rpcs) == 0 {
			return fmt.Errorf("chain %s: rpcs cannot be empty", name)
		}

		if !common.IsHexAddress(chain.BridgeAddress) {
			return fmt.Errorf("chain %s: invalid bridge_address %q", name, chain.BridgeAddress)
		}

		if !common.IsHexAddress(chain.TokenVaultAddress) {
			return fmt.Errorf("chain %s: invalid token_vault_address %q", name, chain.TokenVaultAddress)
		}
	}

	return nil
}

// GetBlockTime returns the block time of the chain, falling back to DefaultBlockTime.
func (c Chain) GetBlockTime() int {
	if c.BlockTime <= 0 {
		return DefaultBlockTime
	}

	return c.BlockTime
}
