// Package stream implements time-proportional payment streams: a fixed
// principal that unlocks linearly from sender to recipient between StartTime
// and StopTime.
package stream

import (
	"math/big"
)

// Stream captures the immutable terms and runtime progress of a single payment
// stream. Streams are never deleted; cancelled streams stay for history.
type Stream struct {
	ID              uint64
	Sender          [20]byte
	Recipient       [20]byte
	TotalAmount     *big.Int
	FlowRate        *big.Int
	StartTime       int64
	StopTime        int64
	AmountWithdrawn *big.Int
	Active          bool
}

// Clone returns a deep copy of the stream so callers can safely mutate the
// copy without affecting the stored instance.
func (s *Stream) Clone() *Stream {
	if s == nil {
		return nil
	}
	clone := *s
	clone.TotalAmount = cloneBigInt(s.TotalAmount)
	clone.FlowRate = cloneBigInt(s.FlowRate)
	clone.AmountWithdrawn = cloneBigInt(s.AmountWithdrawn)
	return &clone
}

// Duration returns StopTime - StartTime.
func (s *Stream) Duration() int64 {
	if s == nil {
		return 0
	}
	return s.StopTime - s.StartTime
}

// Elapsed returns the streamed time at now, clamped to [0, Duration].
func (s *Stream) Elapsed(now int64) int64 {
	if s == nil {
		return 0
	}
	elapsed := now - s.StartTime
	if elapsed < 0 {
		return 0
	}
	if d := s.Duration(); elapsed > d {
		return d
	}
	return elapsed
}

// Streamed returns the amount earned by the recipient at now, regardless of
// what has already been withdrawn.
func (s *Stream) Streamed(now int64) *big.Int {
	if s == nil || s.FlowRate == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(big.NewInt(s.Elapsed(now)), s.FlowRate)
}

// Claimable returns Streamed(now) - AmountWithdrawn for active streams and zero
// otherwise. The result is never negative.
func (s *Stream) Claimable(now int64) *big.Int {
	if s == nil || !s.Active {
		return big.NewInt(0)
	}
	claimable := new(big.Int).Sub(s.Streamed(now), cloneBigInt(s.AmountWithdrawn))
	if claimable.Sign() < 0 {
		return big.NewInt(0)
	}
	return claimable
}

// Outstanding returns the principal the ledger still holds for this stream.
func (s *Stream) Outstanding() *big.Int {
	if s == nil || !s.Active {
		return big.NewInt(0)
	}
	out := new(big.Int).Sub(cloneBigInt(s.TotalAmount), cloneBigInt(s.AmountWithdrawn))
	if out.Sign() < 0 {
		return big.NewInt(0)
	}
	return out
}

// Dust returns the rounding remainder TotalAmount - FlowRate*Duration that the
// flow rate can never pay out.
func (s *Stream) Dust() *big.Int {
	if s == nil {
		return big.NewInt(0)
	}
	paid := new(big.Int).Mul(cloneBigInt(s.FlowRate), big.NewInt(s.Duration()))
	return new(big.Int).Sub(cloneBigInt(s.TotalAmount), paid)
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
