package prefclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/monicalopezucha/practica-final/internal/api"
	"github.com/monicalopezucha/practica-final/internal/events"
	"github.com/monicalopezucha/practica-final/internal/models"
)

func TestClient_AgainstService(t *testing.T) {
	srv := httptest.NewServer(api.NewRouter(&events.NoopPublisher{}))
	defer srv.Close()

	c := New(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	msg, err := c.SaveBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("SaveBrand() error: %v", err)
	}
	if want := "Se ha añadido Toyota a tu lista de favoritos"; msg != want {
		t.Errorf("SaveBrand() = %q, want %q", msg, want)
	}

	msg, err = c.DeleteBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("DeleteBrand() error: %v", err)
	}
	if want := "Se ha eliminado Toyota de tu lista de favoritos"; msg != want {
		t.Errorf("DeleteBrand() = %q, want %q", msg, want)
	}
}

func TestClient_SendsRequest(t *testing.T) {
	var (
		gotPath string
		gotUA   string
		gotCT   string
		gotBody models.FavoriteRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(models.FavoriteResponse{Message: "ok"})
	}))
	defer srv.Close()

	if _, err := New(srv.URL, 0).SaveBrand(context.Background(), "Land Rover"); err != nil {
		t.Fatalf("SaveBrand() error: %v", err)
	}

	if gotPath != "/save_brand/" {
		t.Errorf("path = %q, want %q", gotPath, "/save_brand/")
	}
	if gotUA != userAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, userAgent)
	}
	if gotCT != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotCT)
	}
	if gotBody.Name != "Land Rover" {
		t.Errorf("name = %q, want %q", gotBody.Name, "Land Rover")
	}
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).SaveBrand(context.Background(), "Toyota")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not a *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}
}

func TestClient_InvalidJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).DeleteBrand(context.Background(), "Toyota")
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Errorf("got StatusError for a 200 response: %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := New(srv.URL, 50*time.Millisecond).SaveBrand(context.Background(), "Toyota")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("call took %v, want it bounded by the timeout", elapsed)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := New(url, time.Second).SaveBrand(context.Background(), "Toyota"); err == nil {
		t.Fatal("expected error for closed server")
	}
}
