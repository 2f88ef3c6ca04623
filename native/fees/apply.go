// Package fees skims the streaming fee out of stream deposits and keeps the
// pool those fees fund.
package fees

import (
	"math/big"

	coreerrors "timeflow/core/errors"
)

const (
	// BasisPointsDenom is the denominator used for every bps rate.
	BasisPointsDenom = 10_000
	// DefaultStreamingFeeBps is the fee charged on every stream deposit (0.10%).
	DefaultStreamingFeeBps uint32 = 10
)

var (
	ErrFeeBpsOutOfRange = coreerrors.New(coreerrors.KindValidation, "fee_bps_out_of_range", "fees: fee bps out of range")
	ErrNegativeAmount   = coreerrors.New(coreerrors.KindValidation, "negative_amount", "fees: amount must not be negative")
	ErrPoolInsufficient = coreerrors.New(coreerrors.KindState, "pool_insufficient", "fees: reward pool insufficient")
)

// ApplyResult summarises a fee evaluation. Fee + Net always equals the gross
// amount.
type ApplyResult struct {
	Gross   *big.Int
	Fee     *big.Int
	Net     *big.Int
	FeeBps  uint32
	Charged bool
}

// Charge splits amount into fee and net principal. The fee is rounded down so
// any truncated remainder stays with the principal.
func Charge(amount *big.Int, feeBps uint32) (ApplyResult, error) {
	if feeBps > BasisPointsDenom {
		return ApplyResult{}, ErrFeeBpsOutOfRange
	}
	gross := big.NewInt(0)
	if amount != nil {
		gross.Set(amount)
	}
	if gross.Sign() < 0 {
		return ApplyResult{}, ErrNegativeAmount
	}
	result := ApplyResult{Gross: gross, Fee: big.NewInt(0), Net: new(big.Int).Set(gross), FeeBps: feeBps}
	if gross.Sign() == 0 || feeBps == 0 {
		return result, nil
	}
	fee := new(big.Int).Mul(gross, big.NewInt(int64(feeBps)))
	fee.Quo(fee, big.NewInt(BasisPointsDenom))
	if fee.Sign() <= 0 {
		return result, nil
	}
	result.Fee = fee
	result.Net = new(big.Int).Sub(gross, fee)
	result.Charged = true
	return result, nil
}

// Pool tracks collected streaming fees and the part still available to pay
// rewards. Available never exceeds Collected.
type Pool struct {
	Collected *big.Int
	Available *big.Int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{Collected: big.NewInt(0), Available: big.NewInt(0)}
}

// Clone returns a deep copy of the pool.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return NewPool()
	}
	clone := NewPool()
	if p.Collected != nil {
		clone.Collected.Set(p.Collected)
	}
	if p.Available != nil {
		clone.Available.Set(p.Available)
	}
	return clone
}

func (p *Pool) ensure() {
	if p.Collected == nil {
		p.Collected = big.NewInt(0)
	}
	if p.Available == nil {
		p.Available = big.NewInt(0)
	}
}

// Credit adds a collected fee to both counters.
func (p *Pool) Credit(fee *big.Int) {
	p.ensure()
	if fee == nil || fee.Sign() <= 0 {
		return
	}
	p.Collected = new(big.Int).Add(p.Collected, fee)
	p.Available = new(big.Int).Add(p.Available, fee)
}

// Debit removes amount from the spendable residual. Collected is never
// reduced.
func (p *Pool) Debit(amount *big.Int) error {
	p.ensure()
	if amount == nil || amount.Sign() <= 0 {
		return nil
	}
	if p.Available.Cmp(amount) < 0 {
		return coreerrors.Wrap(ErrPoolInsufficient, "requested %s, available %s", amount, p.Available)
	}
	p.Available = new(big.Int).Sub(p.Available, amount)
	return nil
}

// Cap returns min(amount, Available).
func (p *Pool) Cap(amount *big.Int) *big.Int {
	p.ensure()
	if amount == nil || amount.Sign() <= 0 || p.Available.Sign() <= 0 {
		return big.NewInt(0)
	}
	if amount.Cmp(p.Available) > 0 {
		return new(big.Int).Set(p.Available)
	}
	return new(big.Int).Set(amount)
}
