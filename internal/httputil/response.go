// Package httputil writes the JSON envelope shared by every endpoint:
//
//	{"success": bool, "message": ..., "data": ..., "errors": ..., "error": ..., "pagination": ...}
package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GustavoMarques22/plataforma-ensino-api/internal/apperr"
	"github.com/GustavoMarques22/plataforma-ensino-api/internal/filter"
)

type Envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Data       any                `json:"data,omitempty"`
	Errors     apperr.FieldErrors `json:"errors,omitempty"`
	Error      string             `json:"error,omitempty"`
	Pagination *filter.Pagination `json:"pagination,omitempty"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		code = http.StatusInternalServerError
		response = []byte(`{"success":false,"message":"Erro ao serializar resposta"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func RespondData(w http.ResponseWriter, code int, message string, data any) {
	RespondWithJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

func RespondMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Success: code < http.StatusBadRequest, Message: message})
}

func RespondPage(w http.ResponseWriter, data any, pagination filter.Pagination) {
	RespondWithJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &pagination})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidInput, apperr.KindConflict:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError translates err into the envelope. internalMessage is used only
// for unclassified errors, whose text goes to the "error" field.
func RespondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, internalMessage string) {
	code := StatusFor(err)

	if code == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), internalMessage, "error", err, "path", r.URL.Path)
		RespondWithJSON(w, code, Envelope{Success: false, Message: internalMessage, Error: err.Error()})
		return
	}

	var appErr *apperr.Error
	errors.As(err, &appErr)
	RespondWithJSON(w, code, Envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields})
}
