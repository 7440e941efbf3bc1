package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"motoauto-service/internal/domain/shared"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before writing the header so an unencodable value is
// answered with a 500 instead of an empty success body
func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if v == nil {
		w.WriteHeader(status)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Int("status", status).Msg("Failed to encode response")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug().Err(err).Msg("Failed to write response")
	}
}

// writeError maps err onto a status code. Internal errors are logged and
// never leak their message to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		writeJSON(w, logger, status, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, logger, status, errorResponse{Error: err.Error()})
}

var statusByError = []struct {
	err    error
	status int
}{
	{shared.ErrListingNotFound, http.StatusNotFound},
	{shared.ErrAuctionNotFound, http.StatusNotFound},
	{shared.ErrUserNotFound, http.StatusNotFound},
	{shared.ErrNotListingOwner, http.StatusForbidden},
	{shared.ErrUnauthenticated, http.StatusUnauthorized},
	{shared.ErrInvalidCredentials, http.StatusUnauthorized},
	{shared.ErrSessionNotFound, http.StatusUnauthorized},
	{shared.ErrEmailTaken, http.StatusConflict},
	{shared.ErrBiddingClosed, http.StatusConflict},
	{shared.ErrInvalidFilter, http.StatusBadRequest},
	{shared.ErrTitleRequired, http.StatusBadRequest},
	{shared.ErrInvalidPrice, http.StatusBadRequest},
	{shared.ErrInvalidCategory, http.StatusBadRequest},
	{shared.ErrInvalidFuelType, http.StatusBadRequest},
	{shared.ErrInvalidTransmission, http.StatusBadRequest},
	{shared.ErrInvalidCondition, http.StatusBadRequest},
	{shared.ErrImagesRequired, http.StatusBadRequest},
	{shared.ErrTooManyImages, http.StatusBadRequest},
	{shared.ErrEmptyPatch, http.StatusBadRequest},
	{shared.ErrBidBelowMinimum, http.StatusBadRequest},
	{shared.ErrBidAmountInvalid, http.StatusBadRequest},
	{shared.ErrInvalidEmail, http.StatusBadRequest},
	{shared.ErrPasswordTooShort, http.StatusBadRequest},
	{shared.ErrNameRequired, http.StatusBadRequest},
	{shared.ErrInvalidRequest, http.StatusBadRequest},
	{shared.ErrInvalidID, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, entry := range statusByError {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}
