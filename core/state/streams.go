package state

import (
	"fmt"

	"timeflow/native/stream"
)

// StreamAppend stores s under the next dense id and returns the id.
func (m *Manager) StreamAppend(s *stream.Stream) (uint64, error) {
	if s == nil {
		return 0, fmt.Errorf("state: nil stream")
	}
	id := uint64(len(m.streams))
	stored := s.Clone()
	stored.ID = id
	m.streams = append(m.streams, stored)
	m.bySender[stored.Sender] = append(m.bySender[stored.Sender], id)
	m.byRecipient[stored.Recipient] = append(m.byRecipient[stored.Recipient], id)
	return id, nil
}

// StreamGet returns a copy of the stream with the given id.
func (m *Manager) StreamGet(id uint64) (*stream.Stream, bool) {
	if id >= uint64(len(m.streams)) {
		return nil, false
	}
	return m.streams[id].Clone(), true
}

// StreamPut overwrites an existing stream. Parties and terms are immutable.
func (m *Manager) StreamPut(s *stream.Stream) error {
	if s == nil {
		return fmt.Errorf("state: nil stream")
	}
	if s.ID >= uint64(len(m.streams)) {
		return fmt.Errorf("state: stream %d not found", s.ID)
	}
	current := m.streams[s.ID]
	if current.Sender != s.Sender || current.Recipient != s.Recipient ||
		current.StartTime != s.StartTime || current.StopTime != s.StopTime ||
		current.TotalAmount.Cmp(s.TotalAmount) != 0 {
		return fmt.Errorf("state: stream %d terms are immutable", s.ID)
	}
	if s.AmountWithdrawn.Cmp(current.AmountWithdrawn) < 0 {
		return fmt.Errorf("state: stream %d withdrawn amount cannot decrease", s.ID)
	}
	if !current.Active && s.Active {
		return fmt.Errorf("state: stream %d cannot be reactivated", s.ID)
	}
	m.streams[s.ID] = s.Clone()
	return nil
}

// StreamCount returns the number of streams ever created.
func (m *Manager) StreamCount() uint64 { return uint64(len(m.streams)) }

// ForEachStream visits every stream in id order until fn returns false.
func (m *Manager) ForEachStream(fn func(*stream.Stream) bool) {
	for _, s := range m.streams {
		if !fn(s.Clone()) {
			return
		}
	}
}

// StreamsBySender returns the ids of streams funded by account.
func (m *Manager) StreamsBySender(account [20]byte) []uint64 {
	return append([]uint64(nil), m.bySender[account]...)
}

// StreamsByRecipient returns the ids of streams paying account.
func (m *Manager) StreamsByRecipient(account [20]byte) []uint64 {
	return append([]uint64(nil), m.byRecipient[account]...)
}
