package common

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/sngm3741/workshop-feedback/api/internal/apperr"
)

// genericErrorMessage replaces messages of errors that carry no client-safe text.
const genericErrorMessage = "Something went wrong"

// SuccessResponse is the body of a fully successful request.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the single error shape returned by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger logrus.FieldLogger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.WithError(err).Error("encode JSON response")
	}
}

// WriteSuccess writes a 200 success body.
func WriteSuccess(logger logrus.FieldLogger, w http.ResponseWriter, message string) {
	WriteJSON(logger, w, http.StatusOK, SuccessResponse{Success: true, Message: message})
}

// ErrorResponder is the only place that turns errors into client JSON.
type ErrorResponder struct {
	Logger logrus.FieldLogger
	// Development exposes stack traces in responses.
	Development bool
}

// Write maps err to its status and body. Errors that are not *apperr.Error
// become a generic internal error.
func (er ErrorResponder) Write(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(genericErrorMessage, err)
	}

	status := appErr.Kind.Status()
	if er.Logger != nil {
		entry := er.Logger.WithFields(logrus.Fields{
			"kind":   appErr.Kind.String(),
			"status": status,
		})
		if r != nil {
			entry = entry.WithField("path", r.URL.Path)
		}
		if status >= http.StatusInternalServerError {
			entry.WithError(err).Error(appErr.Message)
		} else {
			entry.Debug(appErr.Message)
		}
	}

	body := ErrorResponse{
		Success: false,
		Status:  appErr.Kind.Label(),
		Message: appErr.Message,
	}
	if er.Development {
		body.Stack = appErr.Stack()
	}
	WriteJSON(er.Logger, w, status, body)
}
