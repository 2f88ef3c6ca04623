package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"timeflow/crypto"
	"timeflow/native/bank"
)

var (
	errNegativeBalance = errors.New("state: balance must not be negative")
	errBalanceOverflow = errors.New("state: balance overflows 256 bits")
	errNegativeTotal   = errors.New("state: total must not be negative")
)

// Balance returns the native balance held by account.
func (m *Manager) Balance(account [20]byte) (*big.Int, error) {
	bal, ok := m.balances[account]
	if !ok {
		return big.NewInt(0), nil
	}
	return bal.ToBig(), nil
}

// SetBalance stores amount for account. Values outside [0, 2^256) are
// rejected.
func (m *Manager) SetBalance(account [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errNegativeBalance
	}
	bal, overflow := uint256.FromBig(amount)
	if overflow {
		return fmt.Errorf("%w: %s", errBalanceOverflow, crypto.AccountString(account))
	}
	if bal.IsZero() {
		delete(m.balances, account)
		return nil
	}
	m.balances[account] = bal
	return nil
}

// Transfer moves amount between two accounts.
func (m *Manager) Transfer(from, to [20]byte, amount *big.Int) error {
	return bank.Transfer(m, from, to, amount)
}

// Mint credits amount to account from outside the ledger.
func (m *Manager) Mint(account [20]byte, amount *big.Int) error {
	return bank.Mint(m, account, amount)
}

// HeldBalance returns the balance of the vault module account.
func (m *Manager) HeldBalance() *big.Int {
	bal, _ := m.Balance(m.vault)
	return bal
}
