package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"cardtrack/internal/core"
	"cardtrack/internal/ingest"
	"cardtrack/internal/log"
	"cardtrack/internal/services"
	"cardtrack/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response",
				log.FieldComponent, log.ComponentHTTP,
				log.FieldError, err)
		}
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// validationErrs are the failures a well-formed request can still carry.
var validationErrs = []error{
	core.ErrInvalidAmount,
	core.ErrInvalidLimit,
	core.ErrInvalidLast4,
	core.ErrEmptyName,
	core.ErrNameTooLong,
	core.ErrEmptyCardID,
	core.ErrEmptyMerchant,
	core.ErrMerchantTooLong,
	core.ErrInvalidDate,
	core.ErrInvalidCategory,
	services.ErrNameTaken,
	services.ErrLast4Taken,
	ingest.ErrEmptyText,
	ingest.ErrNoCards,
}

// writeError maps service failures onto the API's status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrConfirmationRequired):
		writeJSONError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrTransactionNotFound),
		ingest.IsNoMatch(err):
		writeJSONError(w, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrCardInUse),
		errors.Is(err, ingest.ErrIngestBusy):
		writeJSONError(w, http.StatusConflict, err.Error())

	case errors.Is(err, ingest.ErrClassifyFailed):
		// No detail: the classifier error may quote the raw model output.
		writeJSONError(w, http.StatusBadGateway, ingest.ErrClassifyFailed.Error())

	case isValidationError(err):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())

	default:
		slog.ErrorContext(r.Context(), "request failed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldError, err)
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
