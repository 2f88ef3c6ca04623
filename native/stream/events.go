package stream

import (
	"math/big"
	"strconv"

	"timeflow/core/types"
	"timeflow/crypto"
)

const (
	EventTypeStreamCreated   = "stream.created"
	EventTypeStreamWithdrawn = "stream.withdrawn"
	EventTypeStreamCancelled = "stream.cancelled"
)

type streamEvent struct {
	evt *types.Event
}

func (e streamEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e streamEvent) Event() *types.Event { return e.evt }

// NewCreatedEvent returns the canonical event payload for a newly created
// stream.
func NewCreatedEvent(s *Stream) *types.Event {
	return newStreamEvent(EventTypeStreamCreated, s, nil)
}

// NewWithdrawnEvent returns the payload emitted when the recipient withdraws
// amount from the stream.
func NewWithdrawnEvent(s *Stream, amount *big.Int) *types.Event {
	return newStreamEvent(EventTypeStreamWithdrawn, s, map[string]string{
		"amount": cloneBigInt(amount).String(),
	})
}

// NewCancelledEvent returns the payload emitted when a stream is cancelled,
// including the final split between recipient and sender.
func NewCancelledEvent(s *Stream, recipientAmount, senderRefund *big.Int) *types.Event {
	return newStreamEvent(EventTypeStreamCancelled, s, map[string]string{
		"recipientAmount": cloneBigInt(recipientAmount).String(),
		"senderRefund":    cloneBigInt(senderRefund).String(),
	})
}

func newStreamEvent(eventType string, s *Stream, extra map[string]string) *types.Event {
	attrs := make(map[string]string)
	if s == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["id"] = strconv.FormatUint(s.ID, 10)
	attrs["sender"] = crypto.AccountString(s.Sender)
	attrs["recipient"] = crypto.AccountString(s.Recipient)
	attrs["totalAmount"] = cloneBigInt(s.TotalAmount).String()
	attrs["flowRate"] = cloneBigInt(s.FlowRate).String()
	attrs["startTime"] = strconv.FormatInt(s.StartTime, 10)
	attrs["stopTime"] = strconv.FormatInt(s.StopTime, 10)
	attrs["amountWithdrawn"] = cloneBigInt(s.AmountWithdrawn).String()
	attrs["active"] = strconv.FormatBool(s.Active)
	for key, value := range extra {
		attrs[key] = value
	}
	return &types.Event{Type: eventType, Attributes: attrs}
}
