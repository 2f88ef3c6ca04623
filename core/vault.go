package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"timeflow/core/clock"
	coreerrors "timeflow/core/errors"
	"timeflow/core/events"
	"timeflow/core/rewards"
	"timeflow/core/state"
	"timeflow/crypto"
	"timeflow/native/fees"
	"timeflow/native/stake"
	"timeflow/native/stream"
	"timeflow/observability/metrics"
	tfotel "timeflow/observability/otel"
)

// Option customises a Vault at construction.
type Option func(*Vault)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithEmitter sets the notification sink that receives committed events.
func WithEmitter(emitter events.Emitter) Option {
	return func(v *Vault) {
		if emitter != nil {
			v.emitter = emitter
		}
	}
}

// WithClock sets the authoritative time source. Defaults to the system clock.
func WithClock(c clock.Clock) Option {
	return func(v *Vault) {
		if c != nil {
			v.clock = clock.NewMonotonic(c)
		}
	}
}

// WithOwnerCheck replaces the default isOwner predicate, which compares the
// caller against Params.Owner.
func WithOwnerCheck(isOwner func(account [20]byte) bool) Option {
	return func(v *Vault) {
		if isOwner != nil {
			v.isOwner = isOwner
		}
	}
}

// WithMetrics sets the metrics sink. Defaults to the process-wide registry.
func WithMetrics(m *metrics.VaultMetrics) Option {
	return func(v *Vault) { v.metrics = m }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(v *Vault) {
		if tracer != nil {
			v.tracer = tracer
		}
	}
}

// Vault is the single-writer coordinator for the stream and stake ledgers.
// Every mutating call is serialised, reads the clock once, runs against a
// staged copy of the ledger and commits only if the whole transition
// succeeded. Events raised by a transition reach the sink after commit.
type Vault struct {
	mu      sync.Mutex
	state   *state.Manager
	clock   *clock.Monotonic
	emitter events.Emitter
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics.VaultMetrics
	isOwner func(account [20]byte) bool
}

// NewVault creates an empty vault configured with params.
func NewVault(params state.Params, opts ...Option) (*Vault, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("vault: name required")
	}
	if params.StreamingFeeBps > fees.BasisPointsDenom {
		return nil, fmt.Errorf("vault: streaming fee %d bps exceeds %d", params.StreamingFeeBps, fees.BasisPointsDenom)
	}
	v := &Vault{
		state:   state.NewManager(params),
		clock:   clock.NewMonotonic(clock.System{}),
		emitter: events.NoopEmitter{},
		logger:  slog.Default(),
		tracer:  tfotel.Tracer(),
		metrics: metrics.Vault(),
	}
	v.isOwner = func(account [20]byte) bool {
		owner := v.state.Owner()
		return owner != [20]byte{} && account == owner
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With(slog.String("component", "vault"), slog.String("vault", params.Name))
	return v, nil
}

// txn is the staged view handed to a transition.
type txn struct {
	state *state.Manager
	now   int64
	buf   *events.Buffer
}

func (t *txn) nowFn() int64 { return t.now }

func (t *txn) streams() *stream.Engine {
	e := stream.NewEngine()
	e.SetState(t.state)
	e.SetEmitter(t.buf)
	e.SetNowFunc(t.nowFn)
	return e
}

func (t *txn) stakes() *stake.Engine {
	e := stake.NewEngine()
	e.SetState(t.state)
	e.SetEmitter(t.buf)
	e.SetNowFunc(t.nowFn)
	return e
}

func (t *txn) rewards() *rewards.Engine {
	e := rewards.NewEngine()
	e.SetState(t.state)
	e.SetEmitter(t.buf)
	e.SetNowFunc(t.nowFn)
	return e
}

// apply runs fn as one atomic transition.
func (v *Vault) apply(ctx context.Context, op string, caller [20]byte, fn func(tx *txn) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	started := time.Now()
	_, span := v.tracer.Start(ctx, "vault."+op, trace.WithAttributes(
		attribute.String("caller", crypto.AccountString(caller)),
	))
	defer span.End()

	tx := &txn{state: v.state.Copy(), now: v.clock.Now(), buf: &events.Buffer{}}
	span.SetAttributes(attribute.Int64("now", tx.now))
	if err := fn(tx); err != nil {
		kind := coreerrors.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		v.metrics.Observe(op, kind.String(), time.Since(started))
		level := slog.LevelInfo
		if kind == coreerrors.KindInternal {
			level = slog.LevelError
		}
		v.logger.Log(ctx, level, "operation rejected",
			slog.String("op", op),
			slog.String("caller", crypto.AccountString(caller)),
			slog.String("kind", kind.String()),
			slog.String("code", coreerrors.CodeOf(err)),
			slog.Any("error", err))
		return err
	}

	v.state = tx.state
	committed := tx.buf.Events()
	tx.buf.Flush(v.emitter)
	span.SetAttributes(attribute.Int("events", len(committed)))
	v.metrics.Observe(op, "ok", time.Since(started))
	v.publish()
	v.recordForfeits(committed)
	v.logger.Debug("operation committed",
		slog.String("op", op),
		slog.String("caller", crypto.AccountString(caller)),
		slog.Int64("now", tx.now),
		slog.Int("events", len(committed)))
	return nil
}

func (v *Vault) publish() {
	if v.metrics == nil {
		return
	}
	pool := v.state.FeePool()
	active := 0
	v.state.ForEachStream(func(s *stream.Stream) bool {
		if s.Active {
			active++
		}
		return true
	})
	v.metrics.RecordSnapshot(metrics.Snapshot{
		TotalStaked:      v.state.TotalStaked(),
		RewardsAvailable: pool.Available,
		FeesCollected:    pool.Collected,
		HeldBalance:      v.state.HeldBalance(),
		ActiveStreams:    active,
	})
}

func (v *Vault) recordForfeits(committed []events.Event) {
	for _, evt := range committed {
		if claimed, ok := evt.(events.RewardsClaimed); ok {
			v.metrics.RecordForfeit(claimed.Forfeited())
		}
	}
}

// read runs fn under the lock with a single clock reading. Reads peek at the
// clock so they never move the monotonic floor.
func (v *Vault) read(fn func(st *state.Manager, now int64)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(v.state, v.clock.Peek())
}

func (v *Vault) readOnly(st *state.Manager, now int64) *txn {
	return &txn{state: st, now: now, buf: &events.Buffer{}}
}
