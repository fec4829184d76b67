package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/session"
	"github.com/spigell/talentscout/internal/validator"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// statusFor maps machine errors onto HTTP statuses.
func statusFor(err error) (int, errorBody) {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorBody{Error: verr.Message, Field: verr.Field}
	case errors.Is(err, session.ErrContactOpen),
		errors.Is(err, session.ErrContactClosed),
		errors.Is(err, session.ErrProfileLocked),
		errors.Is(err, session.ErrWrongView):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.Is(err, session.ErrEmptyMessage), errors.Is(err, errBadPayload):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal error"}
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	JSON(w, status, body)
}
