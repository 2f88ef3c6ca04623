// Package stake keeps the single stake position each account may hold in the
// vault.
package stake

import "math/big"

// Position is an account's stake. A closed position keeps its timestamps for
// history and is replaced wholesale by the next stake.
type Position struct {
	Amount        *big.Int
	StartTime     int64
	LastClaimTime int64
	Active        bool
}

// Clone returns a deep copy of the position.
func (p *Position) Clone() *Position {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Amount = cloneBigInt(p.Amount)
	return &clone
}

// IsOpen reports whether the position currently holds principal.
func (p *Position) IsOpen() bool {
	return p != nil && p.Active && p.Amount != nil && p.Amount.Sign() > 0
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
