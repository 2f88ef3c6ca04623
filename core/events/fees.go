package events

import (
	"math/big"
	"strconv"

	"timeflow/core/types"
)

const (
	// TypeFeesCollected marks a stream creation where a streaming fee was skimmed
	// into the reward pool.
	TypeFeesCollected = "fees.collected"
)

// FeesCollected records the fee taken from a stream deposit.
type FeesCollected struct {
	StreamID       uint64
	Payer          [20]byte
	Gross          *big.Int
	Fee            *big.Int
	Net            *big.Int
	FeeBasisPoints uint32
	PoolAvailable  *big.Int
}

// EventType satisfies the events.Event interface.
func (FeesCollected) EventType() string { return TypeFeesCollected }

// Event converts the structured payload into a broadcastable event.
func (e FeesCollected) Event() *types.Event {
	attrs := map[string]string{
		"streamId": strconv.FormatUint(e.StreamID, 10),
		"feeWei":   formatAmount(e.Fee),
	}
	if !zeroAddress(e.Payer) {
		attrs["payer"] = formatAccount(e.Payer)
	}
	if e.Gross != nil {
		attrs["grossWei"] = e.Gross.String()
	}
	if e.Net != nil {
		attrs["netWei"] = e.Net.String()
	}
	if e.FeeBasisPoints > 0 {
		attrs["feeBps"] = strconv.FormatUint(uint64(e.FeeBasisPoints), 10)
	}
	if e.PoolAvailable != nil {
		attrs["poolAvailableWei"] = e.PoolAvailable.String()
	}
	return &types.Event{Type: TypeFeesCollected, Attributes: attrs}
}
