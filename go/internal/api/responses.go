package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fastbreakhq/fastbreak/go/internal/apperrors"
)

// JSONResponse writes a JSON response.
func JSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, map[string]any{"error": message})
}

// WriteError maps an error from the apps to its HTTP response. Taxonomy
// errors keep their status and structured details (e.g. current_turn on a
// turn conflict); anything else is a 500 with a generic body.
func WriteError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		body := map[string]any{"error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		JSONResponse(w, appErr.HTTPStatus(), body)
		return
	}

	log.Error().Err(err).Msg("internal error")
	ErrorResponse(w, http.StatusInternalServerError, "Internal server error")
}

// ParseJSONBody parses the request body into the given struct.
func ParseJSONBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
