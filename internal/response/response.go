// Package response writes the API's JSON envelope. Successful payloads go
// out as {"data": ...} with optional paging metadata; errors as
// {"error": "..."} with the HTTP status carrying the semantics.
package response

import (
	"encoding/json"
	"net/http"

	"facops/internal/models"
)

// JSON writes data wrapped in the standard envelope with a 200 status.
func JSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.APIResponse{Data: data})
}

// JSONMeta is JSON plus paging metadata for list endpoints.
func JSONMeta(w http.ResponseWriter, data interface{}, total, page, limit int) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.APIResponse{
		Data: data,
		Meta: &models.Meta{Total: total, Page: page, Limit: limit},
	})
}

// Err writes an error body with the given status code.
func Err(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// DecodeBody fills v from the request's JSON body.
func DecodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
