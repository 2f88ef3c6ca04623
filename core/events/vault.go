package events

import (
	"math/big"
	"strconv"

	"timeflow/core/types"
)

const (
	TypeRewardRateUpdated   = "vault.rewardRateUpdated"
	TypeVaultPaused         = "vault.paused"
	TypeExcessFeesWithdrawn = "vault.excessFeesWithdrawn"
)

// RewardRateUpdated is emitted when the owner changes the staking APR.
type RewardRateUpdated struct {
	Owner   [20]byte
	OldRate uint64
	NewRate uint64
}

// EventType satisfies the Event interface.
func (RewardRateUpdated) EventType() string { return TypeRewardRateUpdated }

// Event converts the structured payload into a broadcastable event.
func (e RewardRateUpdated) Event() *types.Event {
	return &types.Event{Type: TypeRewardRateUpdated, Attributes: map[string]string{
		"owner":      formatAccount(e.Owner),
		"oldRateBps": strconv.FormatUint(e.OldRate, 10),
		"newRateBps": strconv.FormatUint(e.NewRate, 10),
	}}
}

// VaultPaused is emitted whenever the owner toggles the staking pause flag.
type VaultPaused struct {
	Owner  [20]byte
	Paused bool
}

// EventType satisfies the Event interface.
func (VaultPaused) EventType() string { return TypeVaultPaused }

// Event converts the structured payload into a broadcastable event.
func (e VaultPaused) Event() *types.Event {
	return &types.Event{Type: TypeVaultPaused, Attributes: map[string]string{
		"owner":  formatAccount(e.Owner),
		"paused": strconv.FormatBool(e.Paused),
	}}
}

// ExcessFeesWithdrawn is emitted when the owner drains pool surplus.
type ExcessFeesWithdrawn struct {
	Owner         [20]byte
	Amount        *big.Int
	PoolRemaining *big.Int
}

// EventType satisfies the Event interface.
func (ExcessFeesWithdrawn) EventType() string { return TypeExcessFeesWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e ExcessFeesWithdrawn) Event() *types.Event {
	return &types.Event{Type: TypeExcessFeesWithdrawn, Attributes: map[string]string{
		"owner":         formatAccount(e.Owner),
		"amount":        formatAmount(e.Amount),
		"poolRemaining": formatAmount(e.PoolRemaining),
	}}
}
