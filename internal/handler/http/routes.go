package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Get("/api/version/", h.getServerVersion)
		r.Get("/api/info", h.getServerInfo)
		r.Post("/api/session", h.openSession)
	})

	router.Route("/api/kv/{key}", func(r chi.Router) {
		if h.services.AuthService.Enabled() {
			r.Use(h.auth)
		}

		r.Group(func(r chi.Router) {
			if h.requestTimeout > 0 {
				r.Use(middleware.Timeout(h.requestTimeout))
			}
			r.Get("/", h.getEntry)
			r.With(limitBody(maxBodyBytes), h.checkHash).Put("/", h.setEntry)
		})

		// the watch request is bounded by its own timeout parameter
		r.Get("/watch", h.watchEntry)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
