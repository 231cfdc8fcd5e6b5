// Package dashboard serves the vehicle dashboard: the HTML page, its
// favorite-brand toggle, and a small JSON API over the same data.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/monicalopezucha/practica-final/internal/api"
	"github.com/monicalopezucha/practica-final/internal/dataset"
	"github.com/monicalopezucha/practica-final/internal/favorites"
	"github.com/monicalopezucha/practica-final/internal/models"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "vehidash_session"

// Store is the liked-brand storage the dashboard reads and the controller
// mutates.
type Store interface {
	favorites.Store
	ListLikedBrands(ctx context.Context) ([]models.LikedBrand, error)
}

// Server holds the dashboard's dependencies.
type Server struct {
	data     *dataset.Dataset
	store    Store
	ctrl     *favorites.Controller
	sessions *favorites.Sessions
	tmpl     *template.Template
}

// NewServer creates a dashboard server. The controller must share store.
func NewServer(data *dataset.Dataset, store Store, ctrl *favorites.Controller, sessions *favorites.Sessions) *Server {
	return &Server{
		data:     data,
		store:    store,
		ctrl:     ctrl,
		sessions: sessions,
		tmpl:     parseTemplates(),
	}
}

// Router returns the dashboard's HTTP routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(api.RequestLogger("dashboard"))
	r.Use(api.Recovery)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.Post("/toggle", s.handleToggleForm)

		r.Route("/api", func(r chi.Router) {
			r.Get("/brands", s.handleBrands)
			r.Get("/summary", s.handleSummary)
			r.Get("/liked", s.handleLiked)
			r.Post("/toggle", s.handleToggleJSON)
		})
	})

	return r
}

// SweepSessions drops idle sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.sessions.Sweep(now); n > 0 {
				slog.Debug("swept idle sessions", "removed", n)
			}
		}
	}
}

type sessionKey struct{}

// withSession attaches the caller's session to the request context, issuing
// a new cookie when the session is new.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		sess, created, err := s.sessions.Get(id)
		if err != nil {
			slog.Error("failed to create session", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func sessionFrom(ctx context.Context) *favorites.Session {
	sess, _ := ctx.Value(sessionKey{}).(*favorites.Session)
	return sess
}

// selectBrand resolves the requested brand against the dataset. An empty
// request keeps the session's selection, falling back to the first brand.
func (s *Server) selectBrand(sess *favorites.Session, requested string) (string, bool) {
	if requested != "" {
		if !s.data.HasBrand(requested) {
			return "", false
		}
		sess.Selected = requested
		return requested, true
	}
	if sess.Selected == "" {
		if brands := s.data.Brands(); len(brands) > 0 {
			sess.Selected = brands[0]
		}
	}
	return sess.Selected, true
}

// handlePage handles GET /.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if _, ok := s.selectBrand(sess, r.URL.Query().Get("brand")); !ok {
		http.Error(w, "Marca desconocida", http.StatusNotFound)
		return
	}
	s.renderPage(w, r, sess, nil)
}

// handleToggleForm handles POST /toggle from the page's checkbox form.
func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Formulario inválido", http.StatusBadRequest)
		return
	}

	sess := sessionFrom(r.Context())
	if _, ok := s.selectBrand(sess, r.PostForm.Get("brand")); !ok || sess.Selected == "" {
		http.Error(w, "Marca desconocida", http.StatusNotFound)
		return
	}

	res, err := s.ctrl.Toggle(r.Context(), sess, r.PostForm.Get("liked") == "on")
	if err != nil {
		slog.Error("failed to toggle favorite", "brand", sess.Selected, "error", err)
		http.Error(w, "No se pudo guardar la preferencia", http.StatusInternalServerError)
		return
	}

	s.renderPage(w, r, sess, res.Notice)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, sess *favorites.Session, notice *favorites.Notice) {
	ctx := r.Context()

	data := pageData{
		Brands:   s.data.Brands(),
		Selected: sess.Selected,
		Notice:   notice,
	}
	if sess.Selected != "" {
		liked, err := sess.Toggle(ctx, sess.Selected, s.store.IsLiked)
		if err != nil {
			slog.Error("failed to read toggle state", "brand", sess.Selected, "error", err)
			http.Error(w, "Error interno", http.StatusInternalServerError)
			return
		}
		data.Liked = liked
		data.Summary = s.data.Summarize(sess.Selected)
	}

	liked, err := s.store.ListLikedBrands(ctx)
	if err != nil {
		slog.Error("failed to list liked brands", "error", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	data.LikedBrands = liked

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("failed to render page", "error", err)
		http.Error(w, "Error interno", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleBrands handles GET /api/brands.
func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.data.Brands())
}

// handleSummary handles GET /api/summary?brand=.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("brand")
	if !s.data.HasBrand(brand) {
		writeError(w, http.StatusNotFound, "Brand not found")
		return
	}
	writeJSON(w, http.StatusOK, s.data.Summarize(brand))
}

// handleLiked handles GET /api/liked.
func (s *Server) handleLiked(w http.ResponseWriter, r *http.Request) {
	liked, err := s.store.ListLikedBrands(r.Context())
	if err != nil {
		slog.Error("failed to list liked brands", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list liked brands")
		return
	}
	writeJSON(w, http.StatusOK, liked)
}

// handleToggleJSON handles POST /api/toggle with {"brand": ..., "liked": bool}.
func (s *Server) handleToggleJSON(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Brand string `json:"brand"`
		Liked bool   `json:"liked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sess := sessionFrom(r.Context())
	if body.Brand == "" || !s.data.HasBrand(body.Brand) {
		writeError(w, http.StatusNotFound, "Brand not found")
		return
	}
	sess.Selected = body.Brand

	res, err := s.ctrl.Toggle(r.Context(), sess, body.Liked)
	if err != nil {
		slog.Error("failed to toggle favorite", "brand", body.Brand, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
