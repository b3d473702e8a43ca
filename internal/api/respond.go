package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/navikt/roomalloc/internal/allocation"
	"github.com/navikt/roomalloc/internal/models"
	"github.com/navikt/roomalloc/internal/service"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("Error encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps service and allocation errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error, maxRooms int) {
	switch {
	case errors.Is(err, allocation.ErrInvalidCount), errors.Is(err, errInvalidCount):
		writeError(w, http.StatusBadRequest, "invalid_input", "Enter a positive whole number of rooms.")
	case errors.Is(err, allocation.ErrCapacityExceeded):
		writeError(w, http.StatusUnprocessableEntity, "capacity_exceeded",
			fmt.Sprintf("You cannot book more than %d rooms at once.", maxRooms))
	case errors.Is(err, allocation.ErrNoVacancy):
		writeError(w, http.StatusConflict, "no_vacancy", "No rooms are available.")
	case errors.Is(err, service.ErrUnknownRoom):
		writeError(w, http.StatusNotFound, "unknown_room", err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		logrus.WithError(err).Error("Unexpected error handling request")
		writeError(w, http.StatusInternalServerError, "internal_error", "Something went wrong.")
	}
}
