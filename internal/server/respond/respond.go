// Package respond writes the service's JSON response envelope.
//
// Every endpoint answers with the same shape:
//
//	{"success": true, "message": "...", "data": {...}}
//	{"success": false, "message": "...", "error": "..."}
package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encoding response: %v", err)
	}
}

// OK writes a success envelope with optional data.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes a failure envelope. The message doubles as the error field
// so clients reading either see the same text.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message, Error: message})
}
