package compensation

import "errors"

var (
	ErrComponentTypeNotFound = errors.New("component type not found")
	ErrInvalidCategory       = errors.New("category must be 'earnings' or 'deductions'")
	ErrInvalidNumber         = errors.New("invalid number")
	ErrEntryNotFound         = errors.New("ledger entry not found")
	ErrPendingOperation      = errors.New("another component is already being added or edited")
	ErrNoPendingOperation    = errors.New("no component is being added or edited")
)
