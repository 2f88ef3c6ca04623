package state

import (
	"math/big"

	"timeflow/native/common"
)

// Params is the vault configuration. Name and StreamingFeeBps are fixed at
// construction; the rate and the active flag are owner-mutable.
type Params struct {
	Name            string
	RewardRateBps   uint64
	Active          bool
	StreamingFeeBps uint32
	Owner           [20]byte
}

// Params returns a copy of the vault configuration.
func (m *Manager) Params() Params { return m.params }

// RewardRateBps returns the annual reward rate in basis points.
func (m *Manager) RewardRateBps() uint64 { return m.params.RewardRateBps }

// SetRewardRateBps updates the reward rate and returns the previous value.
func (m *Manager) SetRewardRateBps(rate uint64) uint64 {
	old := m.params.RewardRateBps
	m.params.RewardRateBps = rate
	return old
}

// SetActive toggles the staking gate.
func (m *Manager) SetActive(active bool) { m.params.Active = active }

// IsPaused implements common.PauseView. Only staking is gated by the vault
// flag.
func (m *Manager) IsPaused(module string) bool {
	return module == common.ModuleStaking && !m.params.Active
}

// StreamingFeeBps returns the fee skimmed from every stream deposit.
func (m *Manager) StreamingFeeBps() uint32 { return m.params.StreamingFeeBps }

// Owner returns the account allowed to run admin operations.
func (m *Manager) Owner() [20]byte { return m.params.Owner }

// TotalStaked returns the sum of open stake positions.
func (m *Manager) TotalStaked() *big.Int { return new(big.Int).Set(m.totalStaked) }

// SetTotalStaked overwrites the staked total.
func (m *Manager) SetTotalStaked(total *big.Int) error {
	if total == nil || total.Sign() < 0 {
		return errNegativeTotal
	}
	m.totalStaked = new(big.Int).Set(total)
	return nil
}
