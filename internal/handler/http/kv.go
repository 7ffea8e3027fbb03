package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/service"
	"github.com/MKhiriev/workshop-qa/internal/utils"
	"github.com/MKhiriev/workshop-qa/internal/validators"
	"github.com/MKhiriev/workshop-qa/models"
)

// getEntry serves GET /api/kv/{key}.
func (h *Handler) getEntry(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	entry, err := h.services.KVService.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, entry, http.StatusOK)
}

// setEntry serves PUT /api/kv/{key}. The body is the raw JSON value.
func (h *Handler) setEntry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, readBodyError(err))
		return
	}
	if !json.Valid(body) {
		writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, errInvalidJSON))
		return
	}

	entry, err := h.services.KVService.Set(r.Context(), key, body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Debug().Str("key", key).Int64("version", entry.Version).Msg("entry updated")
	utils.WriteJSON(w, entry, http.StatusOK)
}

// watchEntry serves GET /api/kv/{key}/watch?since=v&timeout=d.
//
// It answers 200 with the entry as soon as its version is greater than since,
// or 204 when nothing changed within the timeout. The timeout is capped by
// the server's watch timeout.
func (h *Handler) watchEntry(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	since, timeout, err := h.parseWatchQuery(r)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err))
		return
	}

	if !models.IsKnownKey(key) {
		writeError(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, validators.ErrInvalidKey))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	entry, err := h.services.WatchService.Wait(ctx, key, since)
	switch {
	case err == nil:
		utils.WriteJSON(w, entry, http.StatusOK)
	case errors.Is(err, service.ErrNoChange):
		w.WriteHeader(http.StatusNoContent)
	case r.Context().Err() != nil:
		// client went away
		logger.FromRequest(r).Debug().Str("key", key).Msg("watch abandoned")
	default:
		writeError(w, r, err)
	}
}

func (h *Handler) parseWatchQuery(r *http.Request) (int64, time.Duration, error) {
	query := r.URL.Query()

	var since int64
	if raw := query.Get("since"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return 0, 0, errInvalidSince
		}
		since = v
	}

	timeout := h.watchTimeout
	if raw := query.Get("timeout"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return 0, 0, errInvalidTimeout
		}
		if timeout <= 0 || d < timeout {
			timeout = d
		}
	}

	return since, timeout, nil
}
