package http

import (
	"net/http"

	"github.com/MKhiriev/workshop-qa/internal/utils"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.services.AppInfoService.GetAppVersion(r.Context())))
}

// getServerInfo lets a client check the backend and whether it needs an
// access code before opening a session.
func (h *Handler) getServerInfo(w http.ResponseWriter, r *http.Request) {
	info := h.services.AppInfoService.GetServerInfo(r.Context())
	if _, err := utils.WriteJSON(w, info, http.StatusOK); err != nil {
		h.logger.Error().Err(err).Msg("error writing server info")
	}
}
