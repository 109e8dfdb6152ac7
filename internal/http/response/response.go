// Package response writes JSON bodies and maps domain errors onto HTTP error envelopes.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	domainerrors "github.com/listenupapp/readlog-server/internal/errors"
)

// ErrorBody is the envelope for simple errors.
type ErrorBody struct {
	Code    domainerrors.Code `json:"code"`
	Message string            `json:"message"`
}

// ValidationBody is the envelope for errors that carry field-level details.
type ValidationBody struct {
	Message string                   `json:"message"`
	Details domainerrors.FieldErrors `json:"details"`
}

// JSON writes data as a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.MarshalWrite(w, data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a 200 OK response.
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Created writes a 201 Created response.
func Created(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, data, logger)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes a simple {code, message} error response.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Code: code, Message: message}, logger)
}

// ValidationError writes a {message, details} error response.
func ValidationError(w http.ResponseWriter, status int, message string, details domainerrors.FieldErrors, logger *slog.Logger) {
	if details == nil {
		details = domainerrors.FieldErrors{}
	}
	JSON(w, status, ValidationBody{Message: message, Details: details}, logger)
}

// HandleError writes the response for err.
// Domain errors keep their code and message. Internal and unknown errors
// are logged and reported with a generic message.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) {
		if logger != nil {
			logger.Error("Unhandled error", "error", err)
		}
		Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", logger)
		return
	}

	status := domainErr.HTTPStatus()

	if fe := domainErr.FieldErrors(); fe != nil || domainErr.Code.IsValidation() {
		ValidationError(w, status, domainErr.Message, fe, logger)
		return
	}

	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.Error("Request failed", "code", domainErr.Code, "error", err)
		}
		if domainErr.Code == domainerrors.CodeInternal {
			Error(w, status, domainErr.Code, "internal server error", logger)
			return
		}
	}

	Error(w, status, domainErr.Code, domainErr.Message, logger)
}
