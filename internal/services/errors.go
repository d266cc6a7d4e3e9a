package services

import "errors"

// Failure kinds callers branch on. Authentication failures live in the session package.
var (
	// ErrReadFailure is logged by callers, which then render empty or default data.
	ErrReadFailure = errors.New("read failure")
	// ErrWriteFailure carries the store's message so the form can show it.
	ErrWriteFailure = errors.New("write failure")
)
