package loan

import "errors"

var (
	ErrNotFound          = errors.New("loan: not found")
	ErrCopyUnavailable   = errors.New("loan: copy is not available")
	ErrAlreadyReturned   = errors.New("loan: already returned")
	ErrOverdue           = errors.New("loan: overdue, renewal not allowed")
	ErrRenewalLimit      = errors.New("loan: renewal limit reached")
	ErrClientLoanLimit   = errors.New("loan: client reached concurrent loan limit")
	ErrClientNotFound    = errors.New("loan: client not found")
	ErrCopyNotFound      = errors.New("loan: copy not found")
	ErrInvalidTransition = errors.New("loan: invalid state transition")
)
