package service

import "errors"

// Recoverable failures surfaced to the transport layer. Callers are expected
// to match these with errors.Is; anything else is an internal failure.
var (
	// ErrNoLinkedAccount is returned when a claim requires a linked external
	// account and the user has none.
	ErrNoLinkedAccount = errors.New("no linked account")

	// ErrAccountLinkedToOther is returned when the requested external account
	// is already held by a different user.
	ErrAccountLinkedToOther = errors.New("account already linked to another user")

	// ErrAlreadyLinked is returned when the user already holds a different
	// external account. Relinking requires operator intervention; there is no
	// silent overwrite.
	ErrAlreadyLinked = errors.New("user already has a linked account")

	// ErrRewardConflict is returned by the repository when the conditional
	// reward credit matched no row because the stored last-reward timestamp
	// moved since it was read. The claim that lost the race is not credited.
	ErrRewardConflict = errors.New("reward state changed concurrently")

	// ErrTransferFailed is returned when the external transfer reported a
	// definite failure. No local state was changed.
	ErrTransferFailed = errors.New("external transfer failed")

	// ErrTransferTimeout is returned when the external transfer outcome is
	// unknown. No local state was changed; the claim may be retried.
	ErrTransferTimeout = errors.New("external transfer timed out")
)
