// Package api wires the preference service's HTTP routes and the middleware
// shared by both HTTP processes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/monicalopezucha/practica-final/internal/api/handlers"
	"github.com/monicalopezucha/practica-final/internal/events"
)

// NewRouter creates the preference service router. Every add/remove
// notification is forwarded to pub.
func NewRouter(pub events.Publisher) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger("preference-service"))
	r.Use(Recovery)
	r.Use(CORS("*"))

	save := handlers.SaveBrand(pub)
	remove := handlers.DeleteBrand(pub)

	r.Post("/save_brand/", save)
	r.Post("/save_brand", save)
	r.Post("/delete_brand/", remove)
	r.Post("/delete_brand", remove)

	r.Get("/healthz", handlers.Health())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}` + "\n"))
	})

	return r
}
