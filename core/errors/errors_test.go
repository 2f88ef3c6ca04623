package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestKindOfClassifiesWrappedSentinels(t *testing.T) {
	sentinel := New(KindState, "stream_inactive", "stream: stream is not active")
	wrapped := fmt.Errorf("withdraw: %w", Wrap(sentinel, "id %d", 7))

	if !stderrors.Is(wrapped, sentinel) {
		t.Fatalf("expected wrapped error to match sentinel")
	}
	if got := KindOf(wrapped); got != KindState {
		t.Fatalf("unexpected kind: %s", got)
	}
	if got := CodeOf(wrapped); got != "stream_inactive" {
		t.Fatalf("unexpected code: %s", got)
	}
	if !IsState(wrapped) || IsValidation(wrapped) || IsAuthorization(wrapped) {
		t.Fatalf("predicate mismatch for state error")
	}
}

func TestKindOfUnclassified(t *testing.T) {
	err := stderrors.New("boom")
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal kind")
	}
	if CodeOf(err) != "internal" {
		t.Fatalf("expected internal code")
	}
	if IsState(nil) {
		t.Fatalf("nil must not classify as state")
	}
}
