package fees

import (
	"errors"
	"math/big"
	"testing"
)

func TestChargeSplitsWithoutLeak(t *testing.T) {
	cases := []struct {
		name    string
		amount  int64
		bps     uint32
		fee     int64
		charged bool
	}{
		{name: "one ether at 10bps", amount: 1_000_000_000_000_000_000, bps: 10, fee: 1_000_000_000_000_000, charged: true},
		{name: "truncates toward zero", amount: 1_999, bps: 10, fee: 1, charged: true},
		{name: "dust amount pays no fee", amount: 1, bps: 10, fee: 0},
		{name: "zero rate", amount: 5_000, bps: 0, fee: 0},
		{name: "full rate", amount: 5_000, bps: 10_000, fee: 5_000, charged: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Charge(big.NewInt(tc.amount), tc.bps)
			if err != nil {
				t.Fatalf("charge: %v", err)
			}
			if res.Fee.Int64() != tc.fee {
				t.Fatalf("fee: got %s want %d", res.Fee, tc.fee)
			}
			if res.Charged != tc.charged {
				t.Fatalf("charged flag: got %v want %v", res.Charged, tc.charged)
			}
			sum := new(big.Int).Add(res.Fee, res.Net)
			if sum.Int64() != tc.amount {
				t.Fatalf("fee + net = %s, want %d", sum, tc.amount)
			}
		})
	}
}

func TestChargeRejectsInvalidInput(t *testing.T) {
	if _, err := Charge(big.NewInt(10), 10_001); !errors.Is(err, ErrFeeBpsOutOfRange) {
		t.Fatalf("expected bps range error, got %v", err)
	}
	if _, err := Charge(big.NewInt(-1), 10); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected negative amount error, got %v", err)
	}
}

func TestPoolCreditDebitCap(t *testing.T) {
	pool := NewPool()
	pool.Credit(big.NewInt(30))
	pool.Credit(big.NewInt(0))
	pool.Credit(big.NewInt(12))
	if pool.Collected.Int64() != 42 || pool.Available.Int64() != 42 {
		t.Fatalf("unexpected pool after credit: %s/%s", pool.Collected, pool.Available)
	}
	if got := pool.Cap(big.NewInt(100)); got.Int64() != 42 {
		t.Fatalf("cap should clamp to available, got %s", got)
	}
	if got := pool.Cap(big.NewInt(5)); got.Int64() != 5 {
		t.Fatalf("cap should pass smaller amounts through, got %s", got)
	}

	snapshot := pool.Clone()
	if err := pool.Debit(big.NewInt(40)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if err := pool.Debit(big.NewInt(3)); !errors.Is(err, ErrPoolInsufficient) {
		t.Fatalf("expected insufficient pool, got %v", err)
	}
	if pool.Available.Int64() != 2 || pool.Collected.Int64() != 42 {
		t.Fatalf("unexpected pool after debit: %s/%s", pool.Collected, pool.Available)
	}
	if snapshot.Available.Int64() != 42 {
		t.Fatalf("clone must not alias the original")
	}
}
