// Package bank moves native value between accounts held by the ledger.
package bank

import (
	"fmt"
	"math/big"

	coreerrors "timeflow/core/errors"
	"timeflow/crypto"
)

var (
	ErrInsufficientBalance = coreerrors.New(coreerrors.KindState, "insufficient_balance", "bank: insufficient balance")
	ErrInvalidAmount       = coreerrors.New(coreerrors.KindValidation, "invalid_amount", "bank: amount must be positive")
	ErrModuleAccount       = coreerrors.New(coreerrors.KindValidation, "module_account", "bank: module account cannot act as a user")
)

// VaultModuleLabel derives the account that holds every deposit made to the
// vault.
const VaultModuleLabel = "timeflow/vault"

var vaultAccount = crypto.DeriveAccount(VaultModuleLabel)

// VaultAccount returns the vault's module account.
func VaultAccount() [20]byte { return vaultAccount }

// RequireUserAccount rejects the vault module account wherever a user account
// is expected.
func RequireUserAccount(account [20]byte) error {
	if account == vaultAccount {
		return coreerrors.Wrap(ErrModuleAccount, "%s", crypto.AccountString(account))
	}
	return nil
}

// Balances is the account view required to move value.
type Balances interface {
	Balance(account [20]byte) (*big.Int, error)
	SetBalance(account [20]byte, amount *big.Int) error
}

// Transfer debits from and credits to by amount. A zero amount is a no-op;
// negative amounts are rejected. A transfer to self moves nothing but still
// requires the balance to cover amount.
func Transfer(ledger Balances, from, to [20]byte, amount *big.Int) error {
	if ledger == nil {
		return fmt.Errorf("bank: balances required")
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	fromBal, err := ledger.Balance(from)
	if err != nil {
		return fmt.Errorf("bank: load %s: %w", crypto.AccountString(from), err)
	}
	if fromBal.Cmp(amount) < 0 {
		return coreerrors.Wrap(ErrInsufficientBalance, "%s holds %s, needs %s", crypto.AccountString(from), fromBal, amount)
	}
	if from == to {
		return nil
	}
	toBal, err := ledger.Balance(to)
	if err != nil {
		return fmt.Errorf("bank: load %s: %w", crypto.AccountString(to), err)
	}
	if err := ledger.SetBalance(from, new(big.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	return ledger.SetBalance(to, new(big.Int).Add(toBal, amount))
}

// Mint credits amount to account out of thin air. Hosts use it to fund
// accounts before they interact with the vault.
func Mint(ledger Balances, account [20]byte, amount *big.Int) error {
	if ledger == nil {
		return fmt.Errorf("bank: balances required")
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal, err := ledger.Balance(account)
	if err != nil {
		return err
	}
	return ledger.SetBalance(account, new(big.Int).Add(bal, amount))
}
