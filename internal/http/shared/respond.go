// Package shared holds the JSON envelope helpers every handler uses, keeping
// error translation to HTTP responses in one place.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "nirvachan/pkg/domain-errors"
)

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the wire shape for every failure response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError maps a domain error to its HTTP status and stable code. Anything
// that is not a domain error becomes a generic 500 with no internal detail.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorBody{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}
