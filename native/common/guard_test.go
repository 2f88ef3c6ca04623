package common

import (
	"errors"
	"testing"

	coreerrors "timeflow/core/errors"
)

type pauses map[string]bool

func (p pauses) IsPaused(module string) bool { return p[module] }

func TestGuard(t *testing.T) {
	if err := Guard(nil, ModuleStaking); err != nil {
		t.Fatalf("nil view should pass, got %v", err)
	}
	if err := Guard(pauses{}, ModuleStaking); err != nil {
		t.Fatalf("unpaused module should pass, got %v", err)
	}
	err := Guard(pauses{ModuleStaking: true}, ModuleStaking)
	if !errors.Is(err, ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if coreerrors.KindOf(err) != coreerrors.KindState {
		t.Fatalf("paused module should be a state error")
	}
	if err := Guard(pauses{ModuleStaking: true}, ""); err != nil {
		t.Fatalf("empty module should pass, got %v", err)
	}
}
