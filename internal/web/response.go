package web

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/user/lifequest/internal/errors"
)

// Response is the JSON envelope of every API reply
type Response struct {
	Status int `json:"status"`
	Body   any `json:"body,omitempty"`
}

// ErrorBody describes a failed command
type ErrorBody struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code,omitempty"`
	Field string         `json:"field,omitempty"`
}

const internalErrorJSON = `{"status":500,"body":{"error":"internal server error"}}`

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(internalErrorJSON))
}

// statusOf maps a command error onto an HTTP status
func statusOf(err error) int {
	var validation *apperrors.ValidationError
	var notFound *apperrors.NotFoundError
	var policy *apperrors.PolicyRejection

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrNotPermitted):
		return http.StatusForbidden
	case errors.As(err, &policy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) ErrorBody {
	body := ErrorBody{Error: err.Error(), Code: apperrors.CodeOf(err)}
	var validation *apperrors.ValidationError
	if errors.As(err, &validation) {
		body.Field = validation.Field
	}
	return body
}
