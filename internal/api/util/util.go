package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/akashverma712/shiksha-setu-backend/internal/academics"
	"github.com/akashverma712/shiksha-setu-backend/internal/auth"
	"github.com/akashverma712/shiksha-setu-backend/internal/students"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Fields  []academics.FieldError `json:"fields,omitempty"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := JSONResponse{Success: true, Data: payload}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONMessage writes a success response carrying only a message.
func WriteJSONMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := JSONResponse{Success: true, Message: message}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// writeJSONFieldErrors writes a 400 with the per-field validation details.
func writeJSONFieldErrors(w http.ResponseWriter, invalid *academics.InvalidInputError) {
	log.Printf("HTTP Error 400: %s", invalid.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	errorResponse := JSONError{
		Success: false,
		Message: "Validation failed",
		Fields:  invalid.Fields,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates service-layer errors to HTTP responses.
// It is the single mapping point between domain errors and status codes.
func HandleServiceError(w http.ResponseWriter, err error) {
	var invalid *academics.InvalidInputError
	if errors.As(err, &invalid) {
		writeJSONFieldErrors(w, invalid)
		return
	}

	switch {
	case errors.Is(err, academics.ErrStudentNotFound),
		errors.Is(err, students.ErrStudentNotFound),
		errors.Is(err, auth.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, academics.ErrConflict):
		// Concurrent writers collided past the retry budget; the client
		// should re-submit
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrDuplicate):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidOTP):
		WriteJSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Unhandled service error: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
