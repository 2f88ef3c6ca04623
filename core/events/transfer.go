package events

import (
	"math/big"

	"timeflow/core/types"
)

const (
	// TypeCredited is emitted when the host funds an account from outside the
	// ledger.
	TypeCredited = "bank.credited"
)

type Credited struct {
	Account [20]byte
	Amount  *big.Int
	Balance *big.Int
}

func (Credited) EventType() string { return TypeCredited }

func (e Credited) Event() *types.Event {
	attrs := map[string]string{
		"addr":   formatAccount(e.Account),
		"amount": formatAmount(e.Amount),
	}
	if e.Balance != nil {
		attrs["balance"] = e.Balance.String()
	}
	return &types.Event{Type: TypeCredited, Attributes: attrs}
}
