package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/workshop-qa/internal/app"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/store"
)

type errorResponse struct {
	status  int
	message string
}

// errorResponses is checked in order; the first match wins.
var errorResponses = []struct {
	target error
	errorResponse
}{
	{service.ErrInvalidDataProvided, errorResponse{http.StatusBadRequest, app.MsgInvalidDataProvided}},
	{service.ErrWrongAccessCode, errorResponse{http.StatusUnauthorized, app.MsgInvalidAccessCode}},
	{service.ErrTokenIsExpired, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpired}},
	{service.ErrTokenIsExpiredOrInvalid, errorResponse{http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid}},
	{service.ErrAuthDisabled, errorResponse{http.StatusNotFound, app.MsgAccessControlDisabled}},
	{service.ErrTokenCreationFailed, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},

	{store.ErrEntryNotFound, errorResponse{http.StatusNotFound, app.MsgEntryNotFound}},
	{store.ErrCorruptedEntry, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},
	{store.ErrBuildingSQLQuery, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},
	{store.ErrExecutingQuery, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},
	{store.ErrScanningRow, errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}},

	{errBodyTooLarge, errorResponse{http.StatusRequestEntityTooLarge, app.MsgBodyTooLarge}},
	{context.DeadlineExceeded, errorResponse{http.StatusGatewayTimeout, app.MsgRequestTimeout}},
}

func responseFromError(err error) errorResponse {
	for _, e := range errorResponses {
		if errors.Is(err, e.target) {
			return e.errorResponse
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

func statusFromError(err error) int {
	return responseFromError(err).status
}

// writeError logs err with the request logger and answers with the mapped
// status and message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := responseFromError(err)
	log := logger.FromRequest(r)

	event := log.Warn()
	if resp.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Int("status", resp.status).Msg(resp.message)

	http.Error(w, resp.message, resp.status)
}
