package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "write json error: %v", err)
	}
}

// WriteError writes a JSON error body. The status field carries the
// upstream status when an error is being forwarded, otherwise it repeats
// the HTTP status.
func WriteError(w http.ResponseWriter, httpStatus int, status, message string) {
	WriteJSON(w, httpStatus, ErrorResponse{Status: status, Message: message})
}
