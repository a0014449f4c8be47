package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/account/claim", h.claim)
		r.Post("/api/account/login", h.login)
		r.Get("/api/version/", h.getServerVersion)
	})

	// routes behind an authenticated session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/account/password/change", h.changePassword)
		r.Post("/api/account/logout", h.logout)

		r.Put("/api/fields/{name}", h.writeField)
		r.Get("/api/fields/{name}", h.readField)
		r.Get("/api/fields/", h.readFields)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
