package httpx

import (
	"encoding/json"
	"net/http"
)

// Result is the submission endpoint's envelope: a success flag plus either a
// message or an error string, never both.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body := []byte("null")
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Ok writes the success envelope used by the public submission API.
func Ok(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Result{Success: true, Message: message})
}

// Fail writes the generic failure envelope. Callers deliberately do not leak
// which side effect failed.
func Fail(w http.ResponseWriter, status int, errMsg string) {
	JSON(w, status, Result{Success: false, Error: errMsg})
}
