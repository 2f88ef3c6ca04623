package stream

import (
	"errors"
	"math"
	"math/big"
	"time"

	"timeflow/core/events"
	coreerrors "timeflow/core/errors"
	"timeflow/core/types"
	"timeflow/crypto"
	"timeflow/native/bank"
	"timeflow/native/fees"
)

var errNilState = errors.New("stream engine: state not configured")

type engineState interface {
	StreamAppend(*Stream) (uint64, error)
	StreamGet(id uint64) (*Stream, bool)
	StreamPut(*Stream) error
	StreamingFeeBps() uint32
	FeePoolCredit(fee *big.Int) (*fees.Pool, error)
	VaultAccount() [20]byte
	Transfer(from, to [20]byte, amount *big.Int) error
}

// Engine wires the stream business logic with external state and event
// emitters. It performs no locking: callers serialise access and provide a
// staged state when they need all-or-nothing semantics.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a stream engine with a no-op emitter. Callers can override
// the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetNowFunc overrides the time source used by the engine.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(streamEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) load(id uint64) (*Stream, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	s, ok := e.state.StreamGet(id)
	if !ok {
		return nil, coreerrors.Wrap(ErrUnknownStreamID, "id %d", id)
	}
	return s, nil
}

// Create opens a stream from caller to recipient funded by amount. The
// streaming fee is skimmed first and credited to the fee pool; the remaining
// principal unlocks linearly over duration seconds. The vault account can be
// neither party.
func (e *Engine) Create(caller, recipient [20]byte, duration int64, amount *big.Int) (*Stream, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if recipient == ([20]byte{}) {
		return nil, ErrInvalidRecipient
	}
	if recipient == caller {
		return nil, ErrSelfStream
	}
	vault := e.state.VaultAccount()
	if caller == vault || recipient == vault {
		return nil, coreerrors.Wrap(bank.ErrModuleAccount, "%s cannot be a stream party", crypto.AccountString(vault))
	}
	if duration <= 0 {
		return nil, ErrNonPositiveDuration
	}
	now := e.now()
	if now > 0 && duration > math.MaxInt64-now {
		return nil, coreerrors.Wrap(ErrDurationOverflow, "start %d plus duration %d", now, duration)
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	feeBps := e.state.StreamingFeeBps()
	split, err := fees.Charge(amount, feeBps)
	if err != nil {
		return nil, err
	}
	if split.Net.Sign() <= 0 {
		return nil, coreerrors.Wrap(ErrNonPositiveAmount, "nothing left after %d bps fee", feeBps)
	}
	if err := e.state.Transfer(caller, vault, split.Gross); err != nil {
		return nil, err
	}
	var pool *fees.Pool
	if split.Charged {
		if pool, err = e.state.FeePoolCredit(split.Fee); err != nil {
			return nil, err
		}
	}
	s := &Stream{
		Sender:          caller,
		Recipient:       recipient,
		TotalAmount:     new(big.Int).Set(split.Net),
		FlowRate:        new(big.Int).Quo(split.Net, big.NewInt(duration)),
		StartTime:       now,
		StopTime:        now + duration,
		AmountWithdrawn: big.NewInt(0),
		Active:          true,
	}
	id, err := e.state.StreamAppend(s)
	if err != nil {
		return nil, err
	}
	s.ID = id
	e.emit(NewCreatedEvent(s))
	if split.Charged && e.emitter != nil {
		e.emitter.Emit(events.FeesCollected{
			StreamID:       id,
			Payer:          caller,
			Gross:          split.Gross,
			Fee:            split.Fee,
			Net:            split.Net,
			FeeBasisPoints: feeBps,
			PoolAvailable:  new(big.Int).Set(pool.Available),
		})
	}
	return s.Clone(), nil
}

// Claimable returns the amount the recipient could withdraw right now.
func (e *Engine) Claimable(id uint64) (*big.Int, error) {
	s, err := e.load(id)
	if err != nil {
		return nil, err
	}
	return s.Claimable(e.now()), nil
}

// Withdraw pays the recipient everything streamed and not yet withdrawn.
func (e *Engine) Withdraw(id uint64, caller [20]byte) (*big.Int, error) {
	s, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if caller != s.Recipient {
		return nil, coreerrors.Wrap(ErrUnauthorized, "only recipient can withdraw")
	}
	if !s.Active {
		return nil, ErrStreamInactive
	}
	claimable := s.Claimable(e.now())
	if claimable.Sign() <= 0 {
		return nil, ErrNothingToWithdraw
	}
	if err := e.state.Transfer(e.state.VaultAccount(), s.Recipient, claimable); err != nil {
		return nil, err
	}
	s.AmountWithdrawn = new(big.Int).Add(cloneBigInt(s.AmountWithdrawn), claimable)
	if err := e.state.StreamPut(s); err != nil {
		return nil, err
	}
	e.emit(NewWithdrawnEvent(s, claimable))
	return claimable, nil
}

// CancelResult reports how a cancelled stream was settled.
type CancelResult struct {
	RecipientAmount *big.Int
	SenderRefund    *big.Int
}

// Cancel settles the recipient's outstanding claim, refunds the unearned
// remainder to the sender and deactivates the stream. Either party may cancel.
func (e *Engine) Cancel(id uint64, caller [20]byte) (CancelResult, error) {
	s, err := e.load(id)
	if err != nil {
		return CancelResult{}, err
	}
	if caller != s.Sender && caller != s.Recipient {
		return CancelResult{}, coreerrors.Wrap(ErrUnauthorized, "only sender or recipient can cancel")
	}
	if !s.Active {
		return CancelResult{}, ErrStreamInactive
	}
	now := e.now()
	streamed := s.Streamed(now)
	claimable := s.Claimable(now)
	refund := new(big.Int).Sub(cloneBigInt(s.TotalAmount), streamed)
	if refund.Sign() < 0 {
		refund = big.NewInt(0)
	}
	vault := e.state.VaultAccount()
	if claimable.Sign() > 0 {
		if err := e.state.Transfer(vault, s.Recipient, claimable); err != nil {
			return CancelResult{}, err
		}
	}
	if refund.Sign() > 0 {
		if err := e.state.Transfer(vault, s.Sender, refund); err != nil {
			return CancelResult{}, err
		}
	}
	s.AmountWithdrawn = new(big.Int).Add(cloneBigInt(s.AmountWithdrawn), claimable)
	s.Active = false
	if err := e.state.StreamPut(s); err != nil {
		return CancelResult{}, err
	}
	e.emit(NewCancelledEvent(s, claimable, refund))
	return CancelResult{RecipientAmount: claimable, SenderRefund: refund}, nil
}
