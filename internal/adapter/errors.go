package adapter

import "errors"

var (
	ErrNotFound            = errors.New("key not found")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrRequestTooLarge     = errors.New("request body too large")
	ErrInternalServerError = errors.New("internal server error")
	ErrTimeout             = errors.New("store request timed out")
	ErrUnavailable         = errors.New("store unavailable")

	ErrUnknownAdapterKind = errors.New("unknown adapter kind")
	ErrClosed             = errors.New("adapter is closed")
	ErrEncodingValue      = errors.New("error encoding value")
)
