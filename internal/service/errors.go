package service

import "errors"

// Store server errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongAccessCode     = errors.New("wrong access code")
	ErrAuthDisabled        = errors.New("access control is disabled")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrNoChange is returned by WatchService.Wait when the wait deadline
	// passes without a newer version.
	ErrNoChange = errors.New("no change before deadline")
)
