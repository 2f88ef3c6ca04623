package events

import (
	"math/big"

	"timeflow/core/types"
)

const (
	// TypeStaked is emitted when an account opens a stake position.
	TypeStaked = "stake.staked"
	// TypeUnstaked is emitted when principal is returned from a stake position.
	TypeUnstaked = "stake.unstaked"
	// TypeRewardsClaimed is emitted when pool-funded rewards are paid to a staker.
	TypeRewardsClaimed = "stake.rewardsClaimed"
)

// Staked captures a newly opened stake position.
type Staked struct {
	Account     [20]byte
	Amount      *big.Int
	TotalStaked *big.Int
	Timestamp   int64
}

// EventType satisfies the Event interface.
func (Staked) EventType() string { return TypeStaked }

// Event converts the structured payload into a broadcastable event.
func (e Staked) Event() *types.Event {
	return &types.Event{Type: TypeStaked, Attributes: map[string]string{
		"addr":        formatAccount(e.Account),
		"amount":      formatAmount(e.Amount),
		"totalStaked": formatAmount(e.TotalStaked),
		"timestamp":   formatUnix(e.Timestamp),
	}}
}

// Unstaked captures principal leaving a stake position.
type Unstaked struct {
	Account     [20]byte
	Amount      *big.Int
	Remaining   *big.Int
	TotalStaked *big.Int
	Closed      bool
	Timestamp   int64
}

// EventType satisfies the Event interface.
func (Unstaked) EventType() string { return TypeUnstaked }

// Event converts the structured payload into a broadcastable event.
func (e Unstaked) Event() *types.Event {
	attrs := map[string]string{
		"addr":        formatAccount(e.Account),
		"amount":      formatAmount(e.Amount),
		"remaining":   formatAmount(e.Remaining),
		"totalStaked": formatAmount(e.TotalStaked),
		"timestamp":   formatUnix(e.Timestamp),
	}
	if e.Closed {
		attrs["closed"] = "true"
	}
	return &types.Event{Type: TypeUnstaked, Attributes: attrs}
}

// RewardsClaimed captures a reward payout. Theoretical is the unconstrained
// accrual; Paid is what the pool could actually cover. The difference is
// forfeited.
type RewardsClaimed struct {
	Account       [20]byte
	Paid          *big.Int
	Theoretical   *big.Int
	PoolRemaining *big.Int
	RateBps       uint64
	Timestamp     int64
}

// EventType satisfies the Event interface.
func (RewardsClaimed) EventType() string { return TypeRewardsClaimed }

// Forfeited returns the part of the theoretical accrual that was not paid.
func (e RewardsClaimed) Forfeited() *big.Int {
	if e.Theoretical == nil || e.Paid == nil || e.Theoretical.Cmp(e.Paid) <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sub(e.Theoretical, e.Paid)
}

// Event converts the structured payload into a broadcastable event.
func (e RewardsClaimed) Event() *types.Event {
	attrs := map[string]string{
		"addr":          formatAccount(e.Account),
		"paid":          formatAmount(e.Paid),
		"theoretical":   formatAmount(e.Theoretical),
		"poolRemaining": formatAmount(e.PoolRemaining),
		"timestamp":     formatUnix(e.Timestamp),
	}
	if forfeited := e.Forfeited(); forfeited.Sign() > 0 {
		attrs["forfeited"] = forfeited.String()
	}
	if e.RateBps > 0 {
		attrs["rateBps"] = formatAmount(new(big.Int).SetUint64(e.RateBps))
	}
	return &types.Event{Type: TypeRewardsClaimed, Attributes: attrs}
}
