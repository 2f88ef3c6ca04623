package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "timeflow/core/errors"
	"timeflow/core/events"
	"timeflow/core/state"
	"timeflow/native/bank"
	"timeflow/native/stake"
	"timeflow/native/stream"
)

var ErrInsolvent = coreerrors.New(coreerrors.KindState, "insolvent", "vault: ledger invariant violated")

// FeeInfo summarises the fee pool.
type FeeInfo struct {
	FeeBps                uint32
	TotalFeesCollected    *big.Int
	TotalRewardsAvailable *big.Int
}

// VaultStats summarises the vault configuration and staking totals.
type VaultStats struct {
	Name          string
	TotalStaked   *big.Int
	RewardRateBps uint64
	VaultActive   bool
	TotalStreams  uint64
}

// GetFeeInfo returns the fee rate and pool counters.
func (v *Vault) GetFeeInfo() FeeInfo {
	var out FeeInfo
	v.read(func(st *state.Manager, _ int64) {
		pool := st.FeePool()
		out = FeeInfo{
			FeeBps:                st.StreamingFeeBps(),
			TotalFeesCollected:    pool.Collected,
			TotalRewardsAvailable: pool.Available,
		}
	})
	return out
}

// GetVaultStats returns the vault configuration and staking totals.
func (v *Vault) GetVaultStats() VaultStats {
	var out VaultStats
	v.read(func(st *state.Manager, _ int64) {
		params := st.Params()
		out = VaultStats{
			Name:          params.Name,
			TotalStaked:   st.TotalStaked(),
			RewardRateBps: params.RewardRateBps,
			VaultActive:   params.Active,
			TotalStreams:  st.StreamCount(),
		}
	})
	return out
}

// Credit funds account from outside the ledger. Hosts use it to seed
// balances; it never touches the vault account.
func (v *Vault) Credit(ctx context.Context, account [20]byte, amount *big.Int) error {
	return v.apply(ctx, "Credit", account, func(tx *txn) error {
		if account == tx.state.VaultAccount() {
			return coreerrors.Wrap(bank.ErrInvalidAmount, "cannot credit the vault account")
		}
		if err := tx.state.Mint(account, amount); err != nil {
			return err
		}
		bal, err := tx.state.Balance(account)
		if err != nil {
			return err
		}
		tx.buf.Emit(events.Credited{Account: account, Amount: new(big.Int).Set(amount), Balance: bal})
		return nil
	})
}

// Balance returns the native balance of account.
func (v *Vault) Balance(account [20]byte) *big.Int {
	var out *big.Int
	v.read(func(st *state.Manager, _ int64) {
		out, _ = st.Balance(account)
	})
	return out
}

// HeldBalance returns what the vault module account actually holds.
func (v *Vault) HeldBalance() *big.Int {
	var out *big.Int
	v.read(func(st *state.Manager, _ int64) { out = st.HeldBalance() })
	return out
}

// StateRoot returns the commitment over the current ledger contents.
func (v *Vault) StateRoot() (common.Hash, error) {
	var (
		root common.Hash
		err  error
	)
	v.read(func(st *state.Manager, _ int64) { root, err = st.Root() })
	return root, err
}

// CheckSolvency verifies the ledger's monetary invariants and reports the
// first violation.
func (v *Vault) CheckSolvency() error {
	var err error
	v.read(func(st *state.Manager, _ int64) { err = checkSolvency(st) })
	return err
}

func checkSolvency(st *state.Manager) error {
	pool := st.FeePool()
	if pool.Available.Sign() < 0 {
		return coreerrors.Wrap(ErrInsolvent, "rewards available %s is negative", pool.Available)
	}
	if pool.Available.Cmp(pool.Collected) > 0 {
		return coreerrors.Wrap(ErrInsolvent, "rewards available %s exceeds fees collected %s", pool.Available, pool.Collected)
	}

	staked := big.NewInt(0)
	st.ForEachStake(func(_ [20]byte, position *stake.Position) bool {
		if position.IsOpen() {
			staked.Add(staked, position.Amount)
		}
		return true
	})
	if total := st.TotalStaked(); staked.Cmp(total) != 0 {
		return coreerrors.Wrap(ErrInsolvent, "open positions sum to %s, total staked is %s", staked, total)
	}

	owed := new(big.Int).Add(staked, pool.Available)
	var streamErr error
	st.ForEachStream(func(s *stream.Stream) bool {
		if s.AmountWithdrawn.Cmp(s.TotalAmount) > 0 {
			streamErr = coreerrors.Wrap(ErrInsolvent, "stream %d withdrew %s of %s", s.ID, s.AmountWithdrawn, s.TotalAmount)
			return false
		}
		owed.Add(owed, s.Outstanding())
		return true
	})
	if streamErr != nil {
		return streamErr
	}
	if held := st.HeldBalance(); held.Cmp(owed) < 0 {
		return coreerrors.Wrap(ErrInsolvent, "vault holds %s, owes %s", held, owed)
	}
	return nil
}
