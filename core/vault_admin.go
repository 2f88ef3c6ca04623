package core

import (
	"context"
	"math/big"

	coreerrors "timeflow/core/errors"
	"timeflow/core/events"
	"timeflow/core/rewards"
	"timeflow/core/state"
	"timeflow/native/bank"
	"timeflow/native/stake"
)

var (
	ErrNotOwner          = coreerrors.New(coreerrors.KindAuthorization, "not_owner", "vault: caller is not the owner")
	ErrNonPositiveAmount = coreerrors.New(coreerrors.KindValidation, "non_positive_amount", "vault: amount must be positive")
	ErrExceedsSurplus    = coreerrors.New(coreerrors.KindState, "exceeds_surplus", "vault: amount exceeds fee surplus")
)

func (v *Vault) requireOwner(caller [20]byte) error {
	if !v.isOwner(caller) {
		return ErrNotOwner
	}
	return nil
}

// UpdateRewardRate sets the annual reward rate in basis points. Accruals since
// each position's last claim are valued at the new rate.
func (v *Vault) UpdateRewardRate(ctx context.Context, caller [20]byte, rateBps uint64) error {
	return v.apply(ctx, "UpdateRewardRate", caller, func(tx *txn) error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		old := tx.state.SetRewardRateBps(rateBps)
		tx.buf.Emit(events.RewardRateUpdated{Owner: caller, OldRate: old, NewRate: rateBps})
		return nil
	})
}

// SetVaultPaused toggles the staking gate. Streams, unstaking and claims are
// unaffected.
func (v *Vault) SetVaultPaused(ctx context.Context, caller [20]byte, paused bool) error {
	return v.apply(ctx, "SetVaultPaused", caller, func(tx *txn) error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		tx.state.SetActive(!paused)
		tx.buf.Emit(events.VaultPaused{Owner: caller, Paused: paused})
		return nil
	})
}

// WithdrawExcessFees pays amount of unobligated fee pool to the owner. The
// pool must keep enough to cover every open position's theoretical accrual
// at the time of the call.
func (v *Vault) WithdrawExcessFees(ctx context.Context, caller [20]byte, amount *big.Int) error {
	return v.apply(ctx, "WithdrawExcessFees", caller, func(tx *txn) error {
		if err := v.requireOwner(caller); err != nil {
			return err
		}
		if err := bank.RequireUserAccount(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrNonPositiveAmount
		}
		surplus := excessFees(tx.state, tx.now)
		if amount.Cmp(surplus) > 0 {
			return coreerrors.Wrap(ErrExceedsSurplus, "requested %s, surplus %s", amount, surplus)
		}
		pool, err := tx.state.FeePoolDebit(amount)
		if err != nil {
			return err
		}
		if err := tx.state.Transfer(tx.state.VaultAccount(), caller, amount); err != nil {
			return err
		}
		tx.buf.Emit(events.ExcessFeesWithdrawn{Owner: caller, Amount: new(big.Int).Set(amount), PoolRemaining: pool.Available})
		return nil
	})
}

// ExcessFees returns how much of the fee pool the owner could withdraw now.
func (v *Vault) ExcessFees() *big.Int {
	var out *big.Int
	v.read(func(st *state.Manager, now int64) { out = excessFees(st, now) })
	return out
}

// excessFees is the pool residual minus the theoretical obligations of all
// open positions, clamped at zero.
func excessFees(st *state.Manager, now int64) *big.Int {
	obligations := big.NewInt(0)
	rate := st.RewardRateBps()
	st.ForEachStake(func(_ [20]byte, position *stake.Position) bool {
		obligations.Add(obligations, rewards.Accrued(position, rate, now))
		return true
	})
	surplus := new(big.Int).Sub(st.FeePool().Available, obligations)
	if surplus.Sign() < 0 {
		return big.NewInt(0)
	}
	return surplus
}
