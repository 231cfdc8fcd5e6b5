package models

import "time"

// LikedBrand is a vehicle brand the user has flagged as a favorite.
type LikedBrand struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteRequest is the body accepted by the preference service.
type FavoriteRequest struct {
	Name string `json:"name"`
}

// FavoriteResponse is the body returned by the preference service.
type FavoriteResponse struct {
	Message string `json:"message"`
}
