package common

import coreerrors "timeflow/core/errors"

// ModuleStaking gates new stake positions. Exits are never gated.
const ModuleStaking = "stake"

var ErrModulePaused = coreerrors.New(coreerrors.KindState, "module_paused", "module paused")

type PauseView interface {
	IsPaused(module string) bool
}

func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
