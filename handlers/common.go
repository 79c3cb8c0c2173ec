package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/satyajeet03/rentApp/errors"
)

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func jsonResponse(value interface{}, rw http.ResponseWriter) {
	if err := json.NewEncoder(rw).Encode(value); err != nil {
		http.Error(rw, "Unable to convert to json", http.StatusInternalServerError)
	}
}

func writeError(rw http.ResponseWriter, status int, message string) {
	rw.WriteHeader(status)
	json.NewEncoder(rw).Encode(errorResponse{Message: message})
}

// writeServiceError maps domain errors onto the HTTP status taxonomy. The
// generic branch hides details from the client; callers log them.
func writeServiceError(rw http.ResponseWriter, logger *logrus.Logger, err error) {
	if validation, ok := err.(*errors.ValidationError); ok {
		rw.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(rw).Encode(errorResponse{Message: validation.Message, Errors: validation.Fields})
		return
	}

	switch err {
	case errors.ErrEmailExists, errors.ErrAlreadyInterested:
		writeError(rw, http.StatusBadRequest, err.Error())
	case errors.ErrInvalidCredentials, errors.ErrNotAuthorized:
		writeError(rw, http.StatusUnauthorized, err.Error())
	case errors.ErrOnlyOwners:
		writeError(rw, http.StatusForbidden, err.Error())
	case errors.ErrPropertyNotFound, errors.ErrInterestNotFound:
		writeError(rw, http.StatusNotFound, err.Error())
	default:
		logger.Errorf("unexpected error: %s", err)
		writeError(rw, http.StatusInternalServerError, errors.ServerError)
	}
}
