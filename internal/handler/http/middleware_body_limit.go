package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/workshop-qa/internal/app"
	"github.com/MKhiriev/workshop-qa/internal/service"
)

// limitBody caps the request body at limit bytes. Reads past the cap fail
// with *http.MaxBytesError, which readBodyError turns into 413.
func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, app.MsgBodyTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func readBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w: %w", errBodyTooLarge, err)
	}
	return fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err)
}
