// Package rewards accrues staking rewards and pays them out of the streaming
// fee pool. Rewards are never minted: a claim can only draw down fees that
// were actually collected.
package rewards

import (
	"errors"
	"math/big"
	"time"

	"timeflow/core/events"
	coreerrors "timeflow/core/errors"
	"timeflow/crypto"
	"timeflow/native/bank"
	"timeflow/native/fees"
	"timeflow/native/stake"
)

const (
	secondsPerYear   = 365 * 24 * 60 * 60
	basisPointsDenom = 10_000

	// DefaultRateBps is the default annual reward rate (15% APR).
	DefaultRateBps uint64 = 1_500
)

var accrualDenom = big.NewInt(secondsPerYear * basisPointsDenom)

var (
	ErrNothingToClaim = coreerrors.New(coreerrors.KindState, "nothing_to_claim", "rewards: nothing to claim")
	ErrNoActiveStake  = stake.ErrNoActiveStake

	errNilState = errors.New("rewards engine: state not configured")
)

// Theoretical returns the simple-interest accrual of amount at aprBps over
// elapsed seconds, truncated toward zero.
func Theoretical(amount *big.Int, aprBps uint64, elapsed int64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || aprBps == 0 || elapsed <= 0 {
		return big.NewInt(0)
	}
	reward := new(big.Int).Mul(amount, new(big.Int).SetUint64(aprBps))
	reward.Mul(reward, big.NewInt(elapsed))
	return reward.Quo(reward, accrualDenom)
}

// Realistic caps a theoretical accrual by what the pool can pay.
func Realistic(theoretical *big.Int, pool *fees.Pool) *big.Int {
	if pool == nil {
		return big.NewInt(0)
	}
	return pool.Cap(theoretical)
}

// Accrued returns the theoretical reward of position at now.
func Accrued(position *stake.Position, aprBps uint64, now int64) *big.Int {
	if !position.IsOpen() {
		return big.NewInt(0)
	}
	return Theoretical(position.Amount, aprBps, now-position.LastClaimTime)
}

type engineState interface {
	StakeGet(account [20]byte) (*stake.Position, bool)
	StakePut(account [20]byte, p *stake.Position) error
	RewardRateBps() uint64
	FeePool() *fees.Pool
	FeePoolDebit(amount *big.Int) (*fees.Pool, error)
	VaultAccount() [20]byte
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine computes and settles reward claims against the configured state.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a reward engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used by the engine.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// Theoretical returns the unconstrained accrual for account.
func (e *Engine) Theoretical(account [20]byte) *big.Int {
	if e == nil || e.state == nil {
		return big.NewInt(0)
	}
	position, ok := e.state.StakeGet(account)
	if !ok {
		return big.NewInt(0)
	}
	return Accrued(position, e.state.RewardRateBps(), e.now())
}

// Realistic returns the accrual for account capped by the pool's residual.
func (e *Engine) Realistic(account [20]byte) *big.Int {
	if e == nil || e.state == nil {
		return big.NewInt(0)
	}
	return Realistic(e.Theoretical(account), e.state.FeePool())
}

// Claim pays the realistic accrual to caller and resets its accrual window.
// Any theoretical shortfall the pool could not cover is forfeited.
func (e *Engine) Claim(caller [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if caller == e.state.VaultAccount() {
		return nil, coreerrors.Wrap(bank.ErrModuleAccount, "%s cannot claim rewards", crypto.AccountString(caller))
	}
	position, ok := e.state.StakeGet(caller)
	if !ok || !position.IsOpen() {
		return nil, ErrNoActiveStake
	}
	now := e.now()
	rate := e.state.RewardRateBps()
	theoretical := Accrued(position, rate, now)
	paid := Realistic(theoretical, e.state.FeePool())
	if paid.Sign() <= 0 {
		return nil, ErrNothingToClaim
	}
	pool, err := e.state.FeePoolDebit(paid)
	if err != nil {
		return nil, err
	}
	if err := e.state.Transfer(e.state.VaultAccount(), caller, paid); err != nil {
		return nil, err
	}
	position.LastClaimTime = now
	if err := e.state.StakePut(caller, position); err != nil {
		return nil, err
	}
	if e.emitter != nil {
		e.emitter.Emit(events.RewardsClaimed{
			Account:       caller,
			Paid:          new(big.Int).Set(paid),
			Theoretical:   theoretical,
			PoolRemaining: new(big.Int).Set(pool.Available),
			RateBps:       rate,
			Timestamp:     now,
		})
	}
	return paid, nil
}
