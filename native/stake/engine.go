package stake

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"timeflow/core/events"
	coreerrors "timeflow/core/errors"
	"timeflow/crypto"
	"timeflow/native/bank"
	"timeflow/native/common"
)

var errNilState = errors.New("stake engine: state not configured")

type engineState interface {
	common.PauseView
	StakeGet(account [20]byte) (*Position, bool)
	StakePut(account [20]byte, p *Position) error
	TotalStaked() *big.Int
	SetTotalStaked(total *big.Int) error
	VaultAccount() [20]byte
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine applies stake and unstake transitions against the configured state.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a stake engine with a no-op emitter.
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

func (e *Engine) requireUser(caller [20]byte) error {
	if caller == e.state.VaultAccount() {
		return coreerrors.Wrap(bank.ErrModuleAccount, "%s cannot stake", crypto.AccountString(caller))
	}
	return nil
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Position returns a copy of the account's position, if any.
func (e *Engine) Position(account [20]byte) (*Position, bool) {
	if e == nil || e.state == nil {
		return nil, false
	}
	return e.state.StakeGet(account)
}

// Stake opens a new position for caller funded from its balance. Only one
// open position per account is allowed; top-ups require unstake and restake.
func (e *Engine) Stake(caller [20]byte, amount *big.Int) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := common.Guard(e.state, common.ModuleStaking); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVaultPaused, err)
	}
	if err := e.requireUser(caller); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if existing, ok := e.state.StakeGet(caller); ok && existing.IsOpen() {
		return nil, ErrAlreadyStaked
	}
	if err := e.state.Transfer(caller, e.state.VaultAccount(), amount); err != nil {
		return nil, err
	}
	now := e.now()
	position := &Position{
		Amount:        new(big.Int).Set(amount),
		StartTime:     now,
		LastClaimTime: now,
		Active:        true,
	}
	if err := e.state.StakePut(caller, position); err != nil {
		return nil, err
	}
	total := new(big.Int).Add(cloneBigInt(e.state.TotalStaked()), amount)
	if err := e.state.SetTotalStaked(total); err != nil {
		return nil, err
	}
	e.emit(events.Staked{Account: caller, Amount: new(big.Int).Set(amount), TotalStaked: total, Timestamp: now})
	return position.Clone(), nil
}

// Unstake returns amount of principal to caller. Unstaking is never gated by
// the pause flag. A position drained to zero is closed.
func (e *Engine) Unstake(caller [20]byte, amount *big.Int) (*Position, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := e.requireUser(caller); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	now := e.now()
	position, ok := e.state.StakeGet(caller)
	if !ok || !position.IsOpen() {
		return nil, ErrNoActiveStake
	}
	if amount.Cmp(position.Amount) > 0 {
		return nil, coreerrors.Wrap(ErrInsufficientStake, "staked %s, requested %s", position.Amount, amount)
	}
	if err := e.state.Transfer(e.state.VaultAccount(), caller, amount); err != nil {
		return nil, err
	}
	position.Amount = new(big.Int).Sub(position.Amount, amount)
	if position.Amount.Sign() == 0 {
		position.Active = false
	}
	if err := e.state.StakePut(caller, position); err != nil {
		return nil, err
	}
	total := new(big.Int).Sub(cloneBigInt(e.state.TotalStaked()), amount)
	if total.Sign() < 0 {
		return nil, fmt.Errorf("stake: total staked underflow")
	}
	if err := e.state.SetTotalStaked(total); err != nil {
		return nil, err
	}
	e.emit(events.Unstaked{
		Account:     caller,
		Amount:      new(big.Int).Set(amount),
		Remaining:   new(big.Int).Set(position.Amount),
		TotalStaked: total,
		Closed:      !position.Active,
		Timestamp:   now,
	})
	return position.Clone(), nil
}
