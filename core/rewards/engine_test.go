package rewards

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"timeflow/core/events"
	coreerrors "timeflow/core/errors"
	"timeflow/native/bank"
	"timeflow/native/fees"
	"timeflow/native/stake"
)

type mockState struct {
	positions map[[20]byte]*stake.Position
	rate      uint64
	pool      *fees.Pool
	balances  map[[20]byte]*big.Int
	vault     [20]byte
}

func newMockState() *mockState {
	return &mockState{
		positions: make(map[[20]byte]*stake.Position),
		rate:      DefaultRateBps,
		pool:      fees.NewPool(),
		balances:  make(map[[20]byte]*big.Int),
		vault:     [20]byte{0xEE},
	}
}

func (m *mockState) StakeGet(account [20]byte) (*stake.Position, bool) {
	p, ok := m.positions[account]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (m *mockState) StakePut(account [20]byte, p *stake.Position) error {
	m.positions[account] = p.Clone()
	return nil
}

func (m *mockState) RewardRateBps() uint64 { return m.rate }

func (m *mockState) FeePool() *fees.Pool { return m.pool.Clone() }

func (m *mockState) FeePoolDebit(amount *big.Int) (*fees.Pool, error) {
	if err := m.pool.Debit(amount); err != nil {
		return nil, err
	}
	return m.pool.Clone(), nil
}

func (m *mockState) VaultAccount() [20]byte { return m.vault }

func (m *mockState) Transfer(from, to [20]byte, amount *big.Int) error {
	bal := m.balances[from]
	if bal == nil || bal.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance")
	}
	m.balances[from] = new(big.Int).Sub(bal, amount)
	if m.balances[to] == nil {
		m.balances[to] = big.NewInt(0)
	}
	m.balances[to] = new(big.Int).Add(m.balances[to], amount)
	return nil
}

func TestTheoreticalOneYear(t *testing.T) {
	got := Theoretical(big.NewInt(1_000_000), 1_500, secondsPerYear)
	if got.Cmp(big.NewInt(150_000)) != 0 {
		t.Fatalf("expected 15%% of principal after a year, got %s", got)
	}
	half := Theoretical(big.NewInt(1_000_000), 1_500, secondsPerYear/2)
	if half.Cmp(big.NewInt(75_000)) != 0 {
		t.Fatalf("expected half-year accrual 75000, got %s", half)
	}
	for _, tc := range []struct {
		amount  *big.Int
		rate    uint64
		elapsed int64
	}{
		{nil, 1_500, 100},
		{big.NewInt(0), 1_500, 100},
		{big.NewInt(100), 0, 100},
		{big.NewInt(100), 1_500, 0},
		{big.NewInt(100), 1_500, -5},
	} {
		if got := Theoretical(tc.amount, tc.rate, tc.elapsed); got.Sign() != 0 {
			t.Fatalf("expected zero for %+v, got %s", tc, got)
		}
	}
}

func TestRealisticCapsByPool(t *testing.T) {
	if got := Realistic(big.NewInt(10), &fees.Pool{Collected: big.NewInt(4), Available: big.NewInt(4)}); got.Cmp(big.NewInt(4)) != 0 {
		t.Fatalf("expected cap at 4, got %s", got)
	}
	if got := Realistic(big.NewInt(3), &fees.Pool{Collected: big.NewInt(4), Available: big.NewInt(4)}); got.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("expected 3, got %s", got)
	}
	if got := Realistic(big.NewInt(3), fees.NewPool()); got.Sign() != 0 {
		t.Fatalf("expected zero with empty pool, got %s", got)
	}
}

func newTestEngine(t *testing.T) (*Engine, *mockState, *events.Recorder, *int64) {
	t.Helper()
	state := newMockState()
	recorder := &events.Recorder{}
	now := int64(0)
	engine := NewEngine()
	engine.SetState(state)
	engine.SetEmitter(recorder)
	engine.SetNowFunc(func() int64 { return now })
	return engine, state, recorder, &now
}

func TestVaultAccountCannotClaim(t *testing.T) {
	engine, state, recorder, now := newTestEngine(t)
	state.positions[state.vault] = &stake.Position{Amount: big.NewInt(1_000_000), Active: true}
	state.balances[state.vault] = big.NewInt(2_000_000)
	state.pool.Credit(big.NewInt(100_000))
	*now = secondsPerYear
	_, err := engine.Claim(state.vault)
	if !errors.Is(err, bank.ErrModuleAccount) || !coreerrors.IsValidation(err) {
		t.Fatalf("expected module account validation error, got %v", err)
	}
	if state.pool.Available.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("rejected claim drained the pool to %s", state.pool.Available)
	}
	if got := len(recorder.Events()); got != 0 {
		t.Fatalf("expected no events, got %d", got)
	}
}

func TestClaimPaysRealisticAndForfeitsShortfall(t *testing.T) {
	engine, state, recorder, now := newTestEngine(t)
	alice := [20]byte{1}
	state.positions[alice] = &stake.Position{Amount: big.NewInt(1_000_000), StartTime: 0, LastClaimTime: 0, Active: true}
	state.pool.Credit(big.NewInt(100_000))
	state.balances[state.vault] = big.NewInt(1_100_000)

	*now = secondsPerYear
	if got := engine.Theoretical(alice); got.Cmp(big.NewInt(150_000)) != 0 {
		t.Fatalf("theoretical %s", got)
	}
	if got := engine.Realistic(alice); got.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("realistic %s", got)
	}
	paid, err := engine.Claim(alice)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if paid.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("paid %s", paid)
	}
	if state.pool.Available.Sign() != 0 || state.pool.Collected.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("unexpected pool %s/%s", state.pool.Available, state.pool.Collected)
	}
	if state.positions[alice].LastClaimTime != secondsPerYear {
		t.Fatalf("claim must reset the accrual window")
	}
	evt, ok := recorder.Events()[0].(events.RewardsClaimed)
	if !ok || evt.Forfeited().Cmp(big.NewInt(50_000)) != 0 {
		t.Fatalf("unexpected claim event %+v", recorder.Events()[0])
	}
	if _, err := engine.Claim(alice); !errors.Is(err, ErrNothingToClaim) {
		t.Fatalf("expected ErrNothingToClaim, got %v", err)
	}
}

func TestClaimRequiresOpenPosition(t *testing.T) {
	engine, state, _, now := newTestEngine(t)
	alice := [20]byte{1}
	if _, err := engine.Claim(alice); !errors.Is(err, ErrNoActiveStake) {
		t.Fatalf("expected ErrNoActiveStake, got %v", err)
	}
	state.positions[alice] = &stake.Position{Amount: big.NewInt(0), Active: false}
	*now = 1_000
	if got := engine.Theoretical(alice); got.Sign() != 0 {
		t.Fatalf("closed position should not accrue, got %s", got)
	}
	if _, err := engine.Claim(alice); !errors.Is(err, ErrNoActiveStake) {
		t.Fatalf("expected ErrNoActiveStake for closed position, got %v", err)
	}
}

func TestRealisticNeverExceedsPool(t *testing.T) {
	engine, state, _, now := newTestEngine(t)
	accounts := [][20]byte{{1}, {2}, {3}}
	for i, acct := range accounts {
		state.positions[acct] = &stake.Position{Amount: big.NewInt(int64(i+1) * 1_000_000_000), Active: true}
	}
	state.pool.Credit(big.NewInt(12_345))
	state.balances[state.vault] = big.NewInt(1 << 40)
	for step := int64(1); step <= 20; step++ {
		*now = step * 86_400
		for _, acct := range accounts {
			if got := engine.Realistic(acct); got.Cmp(state.pool.Available) > 0 {
				t.Fatalf("realistic %s exceeds pool %s", got, state.pool.Available)
			}
			if _, err := engine.Claim(acct); err != nil && !errors.Is(err, ErrNothingToClaim) {
				t.Fatalf("claim: %v", err)
			}
			if state.pool.Available.Sign() < 0 {
				t.Fatalf("pool went negative")
			}
		}
	}
}
