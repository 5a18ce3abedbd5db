package routes

import (
	"net/http"

	"github.com/go-chi/chi"
)

func NewHealthRoutes() AddRoutesFn {
	return func(router chi.Router) {
		router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "healthy"}`))
		})
	}
}
