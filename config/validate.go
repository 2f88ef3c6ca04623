package config

import (
	"fmt"
	"strings"

	"timeflow/crypto"
)

// MaxBasisPoints bounds every bps-denominated setting.
const MaxBasisPoints = 10_000

// Validate checks the decoded configuration.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config: nil")
	}
	if strings.TrimSpace(c.VaultName) == "" {
		return fmt.Errorf("vault: name required")
	}
	if c.StreamingFeeBps > MaxBasisPoints {
		return fmt.Errorf("vault: StreamingFeeBps %d exceeds %d", c.StreamingFeeBps, MaxBasisPoints)
	}
	if _, err := c.OwnerAccount(); err != nil {
		return err
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log: rotation limits must not be negative")
	}
	return nil
}

// OwnerAccount decodes the configured owner address.
func (c *Config) OwnerAccount() ([20]byte, error) {
	owner := strings.TrimSpace(c.Owner)
	if owner == "" {
		return [20]byte{}, fmt.Errorf("vault: Owner required")
	}
	addr, err := crypto.DecodeAddress(owner)
	if err != nil {
		return [20]byte{}, fmt.Errorf("vault: invalid Owner: %w", err)
	}
	if addr.IsZero() {
		return [20]byte{}, fmt.Errorf("vault: Owner must not be the zero address")
	}
	return addr.Account(), nil
}
