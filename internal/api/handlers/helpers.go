package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeName reads a {"name": string} body. A syntactically invalid body
// yields 400 and a body without "name" yields 422; in both cases the error
// response has already been written and ok is false.
func decodeName(w http.ResponseWriter, r *http.Request) (name string, ok bool) {
	var body struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return "", false
	}
	if body.Name == nil {
		writeError(w, http.StatusUnprocessableEntity, `Field "name" is required`)
		return "", false
	}
	return *body.Name, true
}
