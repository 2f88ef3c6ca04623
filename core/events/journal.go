package events

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"timeflow/core/types"
	"timeflow/storage"
)

var (
	journalRecordPrefix = []byte("journal:rec:")
	journalHeadKey      = []byte("journal:head")
)

type journalRecord struct {
	Seq    uint64
	Type   string
	Keys   []string
	Values []string
}

// Journal is an emitter that appends every broadcastable event to a key-value
// store under a dense sequence number, giving indexers an ordered archive.
// Write failures never propagate to the ledger; they are reported through the
// optional error hook.
type Journal struct {
	mu      sync.Mutex
	db      storage.Database
	next    uint64
	onError func(error)
}

// OpenJournal resumes the journal stored in db.
func OpenJournal(db storage.Database) (*Journal, error) {
	if db == nil {
		return nil, fmt.Errorf("journal: database required")
	}
	j := &Journal{db: db}
	raw, err := db.Get(journalHeadKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("journal: load head: %w", err)
	default:
		if len(raw) != 8 {
			return nil, fmt.Errorf("journal: corrupt head (%d bytes)", len(raw))
		}
		j.next = binary.BigEndian.Uint64(raw)
	}
	return j, nil
}

// OnError installs a hook invoked when an event cannot be written.
func (j *Journal) OnError(fn func(error)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.onError = fn
}

// Len reports how many events have been journaled.
func (j *Journal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.next
}

// Emit implements the Emitter interface.
func (j *Journal) Emit(evt Event) {
	b, ok := evt.(Broadcastable)
	if !ok {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.append(b.Event()); err != nil && j.onError != nil {
		j.onError(err)
	}
}

func (j *Journal) append(evt *types.Event) error {
	if evt == nil {
		return nil
	}
	rec := journalRecord{Seq: j.next, Type: evt.Type}
	rec.Keys = make([]string, 0, len(evt.Attributes))
	for key := range evt.Attributes {
		rec.Keys = append(rec.Keys, key)
	}
	sort.Strings(rec.Keys)
	rec.Values = make([]string, len(rec.Keys))
	for i, key := range rec.Keys {
		rec.Values[i] = evt.Attributes[key]
	}
	encoded, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("journal: encode %s: %w", evt.Type, err)
	}
	if err := j.db.Put(journalKey(rec.Seq), encoded); err != nil {
		return fmt.Errorf("journal: write seq %d: %w", rec.Seq, err)
	}
	head := make([]byte, 8)
	binary.BigEndian.PutUint64(head, rec.Seq+1)
	if err := j.db.Put(journalHeadKey, head); err != nil {
		return fmt.Errorf("journal: advance head: %w", err)
	}
	j.next = rec.Seq + 1
	return nil
}

// Read returns up to limit events starting at sequence from.
func (j *Journal) Read(from uint64, limit int) ([]*types.Event, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*types.Event, 0)
	for seq := from; seq < j.next && (limit <= 0 || len(out) < limit); seq++ {
		raw, err := j.db.Get(journalKey(seq))
		if err != nil {
			return nil, fmt.Errorf("journal: read seq %d: %w", seq, err)
		}
		var rec journalRecord
		if err := rlp.DecodeBytes(raw, &rec); err != nil {
			return nil, fmt.Errorf("journal: decode seq %d: %w", seq, err)
		}
		if len(rec.Keys) != len(rec.Values) {
			return nil, fmt.Errorf("journal: corrupt record %d", seq)
		}
		attrs := make(map[string]string, len(rec.Keys))
		for i, key := range rec.Keys {
			attrs[key] = rec.Values[i]
		}
		out = append(out, &types.Event{Type: rec.Type, Attributes: attrs})
	}
	return out, nil
}

func journalKey(seq uint64) []byte {
	key := make([]byte, len(journalRecordPrefix)+8)
	copy(key, journalRecordPrefix)
	binary.BigEndian.PutUint64(key[len(journalRecordPrefix):], seq)
	return key
}
