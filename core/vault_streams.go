package core

import (
	"context"
	"math/big"

	"timeflow/core/state"
	"timeflow/native/stream"
)

// CreateStream opens a stream from caller to recipient funded with amount
// from the caller's balance. The streaming fee is skimmed into the reward
// pool before the principal starts flowing.
func (v *Vault) CreateStream(ctx context.Context, caller, recipient [20]byte, duration int64, amount *big.Int) (*stream.Stream, error) {
	var created *stream.Stream
	err := v.apply(ctx, "CreateStream", caller, func(tx *txn) error {
		s, err := tx.streams().Create(caller, recipient, duration, amount)
		if err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// WithdrawFromStream pays the recipient everything streamed so far and not yet
// withdrawn.
func (v *Vault) WithdrawFromStream(ctx context.Context, caller [20]byte, id uint64) (*big.Int, error) {
	var paid *big.Int
	err := v.apply(ctx, "WithdrawFromStream", caller, func(tx *txn) error {
		amount, err := tx.streams().Withdraw(id, caller)
		if err != nil {
			return err
		}
		paid = amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// CancelStream settles the recipient, refunds the sender and closes the
// stream.
func (v *Vault) CancelStream(ctx context.Context, caller [20]byte, id uint64) (stream.CancelResult, error) {
	var result stream.CancelResult
	err := v.apply(ctx, "CancelStream", caller, func(tx *txn) error {
		res, err := tx.streams().Cancel(id, caller)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	return result, err
}

// GetStream returns a copy of the stream with the given id.
func (v *Vault) GetStream(id uint64) (*stream.Stream, error) {
	var (
		out *stream.Stream
		err error
	)
	v.read(func(st *state.Manager, _ int64) {
		s, ok := st.StreamGet(id)
		if !ok {
			err = stream.ErrUnknownStreamID
			return
		}
		out = s
	})
	return out, err
}

// GetClaimableBalance returns what the recipient of id could withdraw now.
func (v *Vault) GetClaimableBalance(id uint64) (*big.Int, error) {
	var (
		out *big.Int
		err error
	)
	v.read(func(st *state.Manager, now int64) {
		out, err = v.readOnly(st, now).streams().Claimable(id)
	})
	return out, err
}

// GetTotalStreams returns the number of streams ever created.
func (v *Vault) GetTotalStreams() uint64 {
	var total uint64
	v.read(func(st *state.Manager, _ int64) { total = st.StreamCount() })
	return total
}

// StreamsBySender lists the streams funded by account in creation order.
func (v *Vault) StreamsBySender(account [20]byte) []*stream.Stream {
	return v.streamsByIDs(func(st *state.Manager) []uint64 { return st.StreamsBySender(account) })
}

// StreamsByRecipient lists the streams paying account in creation order.
func (v *Vault) StreamsByRecipient(account [20]byte) []*stream.Stream {
	return v.streamsByIDs(func(st *state.Manager) []uint64 { return st.StreamsByRecipient(account) })
}

func (v *Vault) streamsByIDs(ids func(*state.Manager) []uint64) []*stream.Stream {
	var out []*stream.Stream
	v.read(func(st *state.Manager, _ int64) {
		for _, id := range ids(st) {
			if s, ok := st.StreamGet(id); ok {
				out = append(out, s)
			}
		}
	})
	return out
}
