package service

import "errors"

// Error taxonomy for the session lifecycle. Handlers map these with errors.Is;
// the messages are safe to return to clients. Every failure is a local
// validation failure with no partial write behind it.
var (
	// ErrSessionAlreadyActive: open attempted while a session is active.
	ErrSessionAlreadyActive = errors.New("a cash session is already active")
	// ErrSessionNotFound: the referenced session id does not resolve.
	ErrSessionNotFound = errors.New("cash session not found")
	// ErrSessionAlreadyClosed: close attempted on a closed session. A second
	// close is an error, never a no-op.
	ErrSessionAlreadyClosed = errors.New("cash session is already closed")
	// ErrSessionNotActive: interim ticket requested on a non-active session.
	ErrSessionNotActive = errors.New("cash session is not active")
	// ErrJustificationRequired: drawer delta exceeds tolerance and no
	// justification was supplied while the mandatory flag is set.
	ErrJustificationRequired = errors.New("cash delta exceeds tolerance, justification required")
	// ErrInvalidInput: negative amounts or a currency mismatch, rejected
	// before any persistence.
	ErrInvalidInput = errors.New("invalid input")
)
