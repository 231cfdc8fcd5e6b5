// Package favorites implements the favorite-brand toggle: it keeps the local
// liked_brands table in step with the checkbox and notifies the preference
// service after every effective change.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/monicalopezucha/practica-final/internal/prefclient"
)

// Store is the subset of the liked-brand store the controller needs.
type Store interface {
	IsLiked(ctx context.Context, brand string) (bool, error)
	LikeBrand(ctx context.Context, brand string) (bool, error)
	UnlikeBrand(ctx context.Context, brand string) (int64, error)
}

// Notifier delivers add/remove notifications and returns the confirmation
// message.
type Notifier interface {
	SaveBrand(ctx context.Context, name string) (string, error)
	DeleteBrand(ctx context.Context, name string) (string, error)
}

// Action is what a toggle did to the store.
type Action string

const (
	ActionNone    Action = "none"
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Level is the severity of a user-visible notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a message to show the user after a toggle.
type Notice struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Result describes the outcome of one toggle.
type Result struct {
	Brand  string  `json:"brand"`
	Liked  bool    `json:"liked"`
	Action Action  `json:"action"`
	Notice *Notice `json:"notice,omitempty"`
}

// Changed reports whether the store was mutated.
func (r Result) Changed() bool {
	return r.Action != ActionNone
}

// Controller applies toggles for one store and one notifier.
type Controller struct {
	store    Store
	notifier Notifier
}

// NewController creates a Controller.
func NewController(store Store, notifier Notifier) *Controller {
	return &Controller{store: store, notifier: notifier}
}

// Toggle sets the favorite state of sess.Selected to enabled.
//
// The store is mutated first and the notifier called second. A failed
// notification produces an error notice but never undoes the mutation, so
// the local table and the service may disagree. Only storage failures are
// returned as errors.
func (c *Controller) Toggle(ctx context.Context, sess *Session, enabled bool) (Result, error) {
	brand := sess.Selected
	if brand == "" {
		return Result{}, errors.New("no brand selected")
	}

	res, err := c.Set(ctx, brand, enabled)
	if err != nil {
		return res, err
	}
	sess.SetToggle(brand, res.Liked)
	return res, nil
}

// Set is Toggle without session bookkeeping.
func (c *Controller) Set(ctx context.Context, brand string, enabled bool) (Result, error) {
	if enabled {
		return c.like(ctx, brand)
	}
	return c.unlike(ctx, brand)
}

func (c *Controller) like(ctx context.Context, brand string) (Result, error) {
	res := Result{Brand: brand, Liked: true, Action: ActionNone}

	inserted, err := c.store.LikeBrand(ctx, brand)
	if err != nil {
		return res, fmt.Errorf("liking %q: %w", brand, err)
	}
	if !inserted {
		return res, nil
	}
	res.Action = ActionAdded
	slog.Info("brand liked", "brand", brand)

	msg, err := c.notifier.SaveBrand(ctx, brand)
	if err != nil {
		res.Notice = failureNotice(brand, err)
		return res, nil
	}
	res.Notice = &Notice{Level: LevelSuccess, Text: msg}
	return res, nil
}

func (c *Controller) unlike(ctx context.Context, brand string) (Result, error) {
	res := Result{Brand: brand, Liked: false, Action: ActionNone}

	liked, err := c.store.IsLiked(ctx, brand)
	if err != nil {
		return res, fmt.Errorf("checking %q: %w", brand, err)
	}
	if !liked {
		return res, nil
	}

	removed, err := c.store.UnlikeBrand(ctx, brand)
	if err != nil {
		return res, fmt.Errorf("unliking %q: %w", brand, err)
	}
	// Another request removed it between the check and the delete.
	if removed == 0 {
		return res, nil
	}
	res.Action = ActionRemoved
	slog.Info("brand unliked", "brand", brand)

	msg, err := c.notifier.DeleteBrand(ctx, brand)
	if err != nil {
		res.Notice = failureNotice(brand, err)
		return res, nil
	}
	res.Notice = &Notice{Level: LevelWarning, Text: msg}
	return res, nil
}

// failureNotice turns a notifier error into the notice shown to the user.
func failureNotice(brand string, err error) *Notice {
	slog.Warn("preference service notification failed; local change kept",
		"brand", brand,
		"error", err,
	)

	var statusErr *prefclient.StatusError
	if errors.As(err, &statusErr) {
		return &Notice{
			Level: LevelError,
			Text:  fmt.Sprintf("Error al enviar datos al servicio de preferencias. Código de respuesta: %d", statusErr.StatusCode),
		}
	}
	return &Notice{
		Level: LevelError,
		Text:  fmt.Sprintf("Error al enviar datos al servicio de preferencias: %v", err),
	}
}
