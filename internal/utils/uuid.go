package utils

import "github.com/google/uuid"

// NewTraceID returns a UUIDv7 for request traces and session tokens. Ids
// handed out by one process sort in creation order.
func NewTraceID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
