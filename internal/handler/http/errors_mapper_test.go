package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/workshop-qa/internal/app"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", service.ErrInvalidDataProvided), http.StatusBadRequest},
		{service.ErrWrongAccessCode, http.StatusUnauthorized},
		{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
		{service.ErrAuthDisabled, http.StatusNotFound},
		{fmt.Errorf("get: %w", store.ErrEntryNotFound), http.StatusNotFound},
		{store.ErrCorruptedEntry, http.StatusInternalServerError},
		{fmt.Errorf("%w: %w", errBodyTooLarge, errors.New("limit")), http.StatusRequestEntityTooLarge},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, app.MsgInternalServerError, strings.TrimSpace(rec.Body.String()))
}
