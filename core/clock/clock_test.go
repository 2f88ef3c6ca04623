package clock

import (
	"errors"
	"testing"
)

func TestManualRejectsRegression(t *testing.T) {
	c := NewManual(1_000)
	if err := c.Advance(30); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if c.Now() != 1_030 {
		t.Fatalf("unexpected time %d", c.Now())
	}
	if err := c.Set(1_000); !errors.Is(err, ErrClockRegression) {
		t.Fatalf("expected regression error, got %v", err)
	}
	if err := c.Advance(-1); !errors.Is(err, ErrClockRegression) {
		t.Fatalf("expected regression error, got %v", err)
	}
	if c.Now() != 1_030 {
		t.Fatalf("failed set must not move the clock")
	}
}

func TestMonotonicClampsBackwardReadings(t *testing.T) {
	readings := []int64{10, 20, 15, 25}
	i := 0
	source := Func(func() int64 {
		ts := readings[i]
		i++
		return ts
	})
	mono := NewMonotonic(source)
	want := []int64{10, 20, 20, 25}
	for idx, expected := range want {
		if got := mono.Now(); got != expected {
			t.Fatalf("reading %d: got %d want %d", idx, got, expected)
		}
	}
}

func TestMonotonicPeekDoesNotRecord(t *testing.T) {
	src := NewManual(10)
	mono := NewMonotonic(src)
	if got := mono.Now(); got != 10 {
		t.Fatalf("now: got %d", got)
	}
	_ = src.Set(50)
	if got := mono.Peek(); got != 50 {
		t.Fatalf("peek: got %d want 50", got)
	}
	if mono.last != 10 {
		t.Fatalf("peek recorded %d", mono.last)
	}

	readings := []int64{40, 30, 30}
	i := 0
	mono = NewMonotonic(Func(func() int64 {
		ts := readings[i]
		i++
		return ts
	}))
	if got := mono.Now(); got != 40 {
		t.Fatalf("now: got %d", got)
	}
	if got := mono.Peek(); got != 40 {
		t.Fatalf("peek below floor: got %d want 40", got)
	}
	if got := mono.Now(); got != 40 {
		t.Fatalf("now after peek: got %d want 40", got)
	}
}
