package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/monicalopezucha/practica-final/internal/events"
	"github.com/monicalopezucha/practica-final/internal/models"
)

// AddedMessage is the confirmation returned when a brand is added.
func AddedMessage(name string) string {
	return fmt.Sprintf("Se ha añadido %s a tu lista de favoritos", name)
}

// RemovedMessage is the confirmation returned when a brand is removed.
func RemovedMessage(name string) string {
	return fmt.Sprintf("Se ha eliminado %s de tu lista de favoritos", name)
}

// SaveBrand handles POST /save_brand/. The name is accepted as-is; nothing
// is stored.
func SaveBrand(pub events.Publisher) http.HandlerFunc {
	return notify(pub, events.TopicBrandAdded, AddedMessage)
}

// DeleteBrand handles POST /delete_brand/.
func DeleteBrand(pub events.Publisher) http.HandlerFunc {
	return notify(pub, events.TopicBrandRemoved, RemovedMessage)
}

func notify(pub events.Publisher, topic string, format func(string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := decodeName(w, r)
		if !ok {
			return
		}

		msg := format(name)

		event := events.BrandNotified{Brand: name, Message: msg, At: time.Now().UTC()}
		if err := pub.Publish(r.Context(), topic, event); err != nil {
			slog.Warn("failed to publish favorite event", "topic", topic, "brand", name, "error", err)
		}

		writeJSON(w, http.StatusOK, models.FavoriteResponse{Message: msg})
	}
}

// Health handles GET /healthz.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
