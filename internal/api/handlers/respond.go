package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"media-reseller-go/internal/domain"
	"media-reseller-go/internal/pricing"
	"media-reseller-go/internal/shipping"
)

// validationError is a request problem reported verbatim with a 400
type validationError string

func (e validationError) Error() string { return string(e) }

// statusForError maps domain errors onto HTTP status codes
func statusForError(err error) int {
	var verr validationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, shipping.ErrUnknownMethod),
		errors.Is(err, shipping.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidBarcode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// responder writes JSON responses and logs encoding failures
type responder struct {
	logger *zap.Logger
}

// respondWithDomainError writes err with the status statusForError picks.
// Internal errors are not echoed to the client.
func (rs responder) respondWithDomainError(w http.ResponseWriter, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		rs.respondWithError(w, status, fallback)
		return
	}
	rs.respondWithError(w, status, err.Error())
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondWithJSON sends a JSON response. The payload is encoded before the
// status line goes out so an encoding failure still becomes a clean 500.
func (rs responder) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		rs.logger.Error("failed to encode JSON response",
			zap.Error(err),
			zap.Int("status", status),
		)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		rs.logger.Debug("failed to write JSON response", zap.Error(err))
	}
}

// respondWithError sends an error JSON response
func (rs responder) respondWithError(w http.ResponseWriter, status int, message string) {
	rs.respondWithJSON(w, status, map[string]string{"error": message})
}
