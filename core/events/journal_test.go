package events

import (
	"errors"
	"math/big"
	"testing"

	"timeflow/storage"
)

type plainEvent struct{}

func (plainEvent) EventType() string { return "plain" }

type failingDB struct{ storage.Database }

func (failingDB) Put([]byte, []byte) error { return errors.New("disk full") }

func TestJournalAppendsAndReadsInOrder(t *testing.T) {
	db := storage.NewMemDB()
	journal, err := OpenJournal(db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	journal.Emit(Staked{Account: [20]byte{1}, Amount: big.NewInt(100), TotalStaked: big.NewInt(100), Timestamp: 10})
	journal.Emit(plainEvent{})
	journal.Emit(VaultPaused{Owner: [20]byte{2}, Paused: true})

	if journal.Len() != 2 {
		t.Fatalf("expected 2 journaled events, got %d", journal.Len())
	}
	records, err := journal.Read(0, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("unexpected record count %d", len(records))
	}
	if records[0].Type != TypeStaked || records[0].Attr("amount") != "100" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Type != TypeVaultPaused || records[1].Attr("paused") != "true" {
		t.Fatalf("unexpected second record %+v", records[1])
	}

	resumed, err := OpenJournal(db)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if resumed.Len() != 2 {
		t.Fatalf("resumed journal lost its head: %d", resumed.Len())
	}
	tail, err := resumed.Read(1, 1)
	if err != nil {
		t.Fatalf("read tail: %v", err)
	}
	if len(tail) != 1 || tail[0].Type != TypeVaultPaused {
		t.Fatalf("unexpected tail %+v", tail)
	}
}

func TestJournalReportsWriteFailures(t *testing.T) {
	journal, err := OpenJournal(failingDB{storage.NewMemDB()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var reported error
	journal.OnError(func(err error) { reported = err })
	journal.Emit(VaultPaused{Paused: false})
	if reported == nil {
		t.Fatalf("expected write failure to be reported")
	}
	if journal.Len() != 0 {
		t.Fatalf("failed write must not advance the head")
	}
}

func TestBufferFlushPreservesOrder(t *testing.T) {
	var buf Buffer
	buf.Emit(VaultPaused{Paused: true})
	buf.Emit(RewardRateUpdated{OldRate: 1, NewRate: 2})
	if buf.Len() != 2 {
		t.Fatalf("unexpected buffer length %d", buf.Len())
	}
	rec := &Recorder{}
	buf.Flush(Multi{rec, NoopEmitter{}})
	if buf.Len() != 0 {
		t.Fatalf("flush must clear the buffer")
	}
	types := rec.Types()
	if len(types) != 2 || types[0] != TypeVaultPaused || types[1] != TypeRewardRateUpdated {
		t.Fatalf("unexpected flushed order %v", types)
	}
}

func TestRewardsClaimedForfeit(t *testing.T) {
	evt := RewardsClaimed{Paid: big.NewInt(40), Theoretical: big.NewInt(100), PoolRemaining: big.NewInt(0)}
	if evt.Forfeited().Int64() != 60 {
		t.Fatalf("unexpected forfeited amount %s", evt.Forfeited())
	}
	if evt.Event().Attr("forfeited") != "60" {
		t.Fatalf("forfeited attribute missing")
	}
}
