package core

import (
	"context"
	"math/big"

	"timeflow/core/state"
	"timeflow/native/stake"
)

// Stake opens a stake position for caller. New stakes are rejected while the
// vault is paused.
func (v *Vault) Stake(ctx context.Context, caller [20]byte, amount *big.Int) (*stake.Position, error) {
	var position *stake.Position
	err := v.apply(ctx, "Stake", caller, func(tx *txn) error {
		p, err := tx.stakes().Stake(caller, amount)
		if err != nil {
			return err
		}
		position = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}

// Unstake returns amount of principal to caller. Exits are allowed while the
// vault is paused. Accrued rewards are not paid out by Unstake.
func (v *Vault) Unstake(ctx context.Context, caller [20]byte, amount *big.Int) (*stake.Position, error) {
	var position *stake.Position
	err := v.apply(ctx, "Unstake", caller, func(tx *txn) error {
		p, err := tx.stakes().Unstake(caller, amount)
		if err != nil {
			return err
		}
		position = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}

// ClaimRewards pays caller its realistic reward and resets its accrual window.
func (v *Vault) ClaimRewards(ctx context.Context, caller [20]byte) (*big.Int, error) {
	var paid *big.Int
	err := v.apply(ctx, "ClaimRewards", caller, func(tx *txn) error {
		amount, err := tx.rewards().Claim(caller)
		if err != nil {
			return err
		}
		paid = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// GetUserStake returns the account's position. Accounts that never staked get
// an inactive zero position.
func (v *Vault) GetUserStake(account [20]byte) *stake.Position {
	var out *stake.Position
	v.read(func(st *state.Manager, now int64) {
		if p, ok := v.readOnly(st, now).stakes().Position(account); ok {
			out = p
			return
		}
		out = &stake.Position{Amount: big.NewInt(0)}
	})
	return out
}

// GetClaimableRewards returns the theoretical accrual of account.
func (v *Vault) GetClaimableRewards(account [20]byte) *big.Int {
	var out *big.Int
	v.read(func(st *state.Manager, now int64) {
		out = v.readOnly(st, now).rewards().Theoretical(account)
	})
	return out
}

// GetRealisticClaimableRewards returns the accrual of account capped by the
// pool's residual. This is what ClaimRewards would pay now.
func (v *Vault) GetRealisticClaimableRewards(account [20]byte) *big.Int {
	var out *big.Int
	v.read(func(st *state.Manager, now int64) {
		out = v.readOnly(st, now).rewards().Realistic(account)
	})
	return out
}
