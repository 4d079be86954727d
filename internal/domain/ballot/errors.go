package ballot

import "errors"

// Error taxonomy of the ballot service. Handlers map these to HTTP statuses;
// everything except ErrTransient is terminal for the caller.
var (
	// ErrNotFound means the election (or a referenced entity) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is not an eligible voter of the election.
	ErrForbidden = errors.New("not an eligible voter for this election")

	// ErrMustSignIn means the access policy requires authentication first.
	ErrMustSignIn = errors.New("sign in required")

	// ErrNotOpen means the call happened outside the voting window.
	ErrNotOpen = errors.New("voting is not open")

	// ErrAlreadyVoted means the voter has an existing ballot for the election.
	// A second submission is rejected outright, never merged.
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")

	// ErrInvalidSelection means a selection references a position or candidate
	// outside the election, or a position appears more than once.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrTransient means the storage layer failed mid-operation. Safe to
	// retry: the unique constraint prevents double-counting.
	ErrTransient = errors.New("transient storage error")
)
