// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/workshop-qa/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldKey targets the entry key. Only workshop keys are accepted.
	FieldKey = "key"

	// FieldValue targets the JSON value, checked against the shape its key
	// requires.
	FieldValue = "value"

	// FieldAccessCode targets the access code of a session request.
	FieldAccessCode = "access_code"
)

const maxAccessCodeLength = 128

// EntryValidator validates store writes and session requests.
type EntryValidator struct{}

// NewEntryValidator constructs a new EntryValidator and returns it as the
// Validator interface.
func NewEntryValidator() Validator {
	return &EntryValidator{}
}

// Validate dispatches on the value type. Supported: models.Entry,
// models.SessionRequest and pointers to them.
func (v *EntryValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entry:
		return v.validateEntry(ctx, value, fields...)
	case *models.Entry:
		return v.validateEntry(ctx, *value, fields...)

	case models.SessionRequest:
		return v.validateSessionRequest(ctx, value, fields...)
	case *models.SessionRequest:
		return v.validateSessionRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *EntryValidator) validateEntry(_ context.Context, entry models.Entry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKey, FieldValue}
	}

	for _, f := range fields {
		switch f {
		case FieldKey:
			if !models.IsKnownKey(entry.Key) {
				return fmt.Errorf("%w: %q", ErrInvalidKey, entry.Key)
			}
		case FieldValue:
			if err := validateValue(entry.Key, entry.Value); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *EntryValidator) validateSessionRequest(_ context.Context, req models.SessionRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAccessCode}
	}

	for _, f := range fields {
		switch f {
		case FieldAccessCode:
			if req.AccessCode == "" {
				return ErrEmptyAccessCode
			}
			if len(req.AccessCode) > maxAccessCodeLength {
				return ErrAccessCodeTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateValue(key string, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidValue, key)
	}

	switch {
	case key == models.QuestionsKey:
		var questions []string
		if trimmed[0] != '[' || json.Unmarshal(trimmed, &questions) != nil {
			return fmt.Errorf("%w: %s must be an array of strings", ErrInvalidValue, key)
		}

	case key == models.CurrentIndexKey:
		var index int
		if err := json.Unmarshal(trimmed, &index); err != nil || index < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidValue, key)
		}

	default:
		if _, ok := models.ParseResponsesKey(key); !ok {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		var responses []models.Response
		if trimmed[0] != '[' || json.Unmarshal(trimmed, &responses) != nil {
			return fmt.Errorf("%w: %s must be an array of responses", ErrInvalidValue, key)
		}
		for i, r := range responses {
			if r.Likes < 0 {
				return fmt.Errorf("%w: %s[%d] has negative likes", ErrInvalidValue, key, i)
			}
		}
	}

	return nil
}
