// Package events forwards favorite-brand notifications to a message broker.
package events

import (
	"context"
	"time"
)

// Event topic constants.
const (
	TopicBrandAdded   = "favorites.brand.added"
	TopicBrandRemoved = "favorites.brand.removed"
)

// BrandNotified is emitted by the preference service for every add or remove
// notification it answers.
type BrandNotified struct {
	Brand   string    `json:"brand"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
