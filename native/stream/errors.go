package stream

import coreerrors "timeflow/core/errors"

var (
	ErrInvalidRecipient    = coreerrors.New(coreerrors.KindValidation, "invalid_recipient", "stream: invalid recipient")
	ErrSelfStream          = coreerrors.New(coreerrors.KindValidation, "self_stream", "stream: cannot stream to self")
	ErrNonPositiveDuration = coreerrors.New(coreerrors.KindValidation, "non_positive_duration", "stream: duration must be positive")
	ErrDurationOverflow    = coreerrors.New(coreerrors.KindValidation, "duration_overflow", "stream: stop time overflows")
	ErrNonPositiveAmount   = coreerrors.New(coreerrors.KindValidation, "non_positive_amount", "stream: amount must be positive")
	ErrUnauthorized        = coreerrors.New(coreerrors.KindAuthorization, "unauthorized", "stream: caller not permitted")
	ErrStreamInactive      = coreerrors.New(coreerrors.KindState, "stream_inactive", "stream: stream is not active")
	ErrNothingToWithdraw   = coreerrors.New(coreerrors.KindState, "nothing_to_withdraw", "stream: nothing to withdraw")
	ErrUnknownStreamID     = coreerrors.New(coreerrors.KindValidation, "unknown_stream_id", "stream: unknown stream id")
)
