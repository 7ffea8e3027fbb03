package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/workshop-qa/internal/app"
	"github.com/MKhiriev/workshop-qa/internal/logger"
	"github.com/MKhiriev/workshop-qa/internal/utils"
)

// checkHash verifies the HashSHA256 header against the request body when a
// hash key is configured. The body is restored for the next handler.
func (h *Handler) checkHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)
		log.Debug().Str("func", "*Handler.checkHash").Msg("checking hash begins")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, r, readBodyError(err))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		hashFromRequest := r.Header.Get(utils.HashHeader)
		if !utils.VerifyHash(body, h.hashKey, hashFromRequest) {
			log.Error().Str("func", "*Handler.checkHash").
				Str("hash from request", hashFromRequest).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
