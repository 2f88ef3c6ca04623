package state

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"timeflow/native/fees"
	"timeflow/native/stake"
)

// StakeGet returns a copy of the account's position.
func (m *Manager) StakeGet(account [20]byte) (*stake.Position, bool) {
	position, ok := m.stakes[account]
	if !ok {
		return nil, false
	}
	return position.Clone(), true
}

// StakePut stores the account's position.
func (m *Manager) StakePut(account [20]byte, position *stake.Position) error {
	if position == nil {
		return fmt.Errorf("state: nil stake position")
	}
	if position.Amount == nil || position.Amount.Sign() < 0 {
		return fmt.Errorf("state: stake amount must not be negative")
	}
	m.stakes[account] = position.Clone()
	return nil
}

// ForEachStake visits positions in account order until fn returns false.
func (m *Manager) ForEachStake(fn func(account [20]byte, position *stake.Position) bool) {
	accounts := make([][20]byte, 0, len(m.stakes))
	for account := range m.stakes {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return bytes.Compare(accounts[i][:], accounts[j][:]) < 0
	})
	for _, account := range accounts {
		if !fn(account, m.stakes[account].Clone()) {
			return
		}
	}
}

// FeePool returns a copy of the fee pool counters.
func (m *Manager) FeePool() *fees.Pool { return m.pool.Clone() }

// FeePoolCredit records a collected fee.
func (m *Manager) FeePoolCredit(fee *big.Int) (*fees.Pool, error) {
	m.pool.Credit(fee)
	return m.pool.Clone(), nil
}

// FeePoolDebit spends amount from the pool's residual.
func (m *Manager) FeePoolDebit(amount *big.Int) (*fees.Pool, error) {
	if err := m.pool.Debit(amount); err != nil {
		return nil, err
	}
	return m.pool.Clone(), nil
}
