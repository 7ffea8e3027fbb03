package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidKey        = errors.New("invalid key")
	ErrInvalidValue      = errors.New("invalid value")
	ErrEmptyAccessCode   = errors.New("access code is required")
	ErrAccessCodeTooLong = errors.New("access code is too long")
)
