package audit

import "errors"

// Error constants
var (
	ErrInvalidConfig = errors.New("invalid audit configuration")
	ErrHardFailures  = errors.New("audit found broken fixtures")
)
