package stake

import coreerrors "timeflow/core/errors"

var (
	ErrVaultPaused       = coreerrors.New(coreerrors.KindState, "vault_paused", "stake: vault is paused")
	ErrAlreadyStaked     = coreerrors.New(coreerrors.KindState, "already_staked", "stake: already staked")
	ErrNonPositiveAmount = coreerrors.New(coreerrors.KindValidation, "non_positive_amount", "stake: amount must be positive")
	ErrNoActiveStake     = coreerrors.New(coreerrors.KindState, "no_active_stake", "stake: no active stake")
	ErrInsufficientStake = coreerrors.New(coreerrors.KindState, "insufficient_stake", "stake: insufficient staked amount")
)
