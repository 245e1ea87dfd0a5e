package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
)

// APIError is the error body of every failed operation. It implements huma.StatusError.
type APIError struct { //nolint:revive // API prefix mirrors the JSON contract
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Field name to message map for validation errors"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render domain errors and its own request validation
// failures in the {code, message, details} shape.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	for _, err := range errs {
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return &APIError{
				status:  domainErr.HTTPStatus(),
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}
		}
	}

	if status >= http.StatusInternalServerError {
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeInternal),
			Message: "Internal server error",
		}
	}

	// huma reports schema violations as 422; clients get 400 like any other validation error.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}

	apiErr := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if details := fieldDetails(errs); len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

// fieldDetails turns huma error details into a field -> message map.
// "body.title" and "query.page" become "title" and "page".
func fieldDetails(errs []error) map[string]string {
	var details map[string]string
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		key := detail.Location
		if _, rest, ok := strings.Cut(key, "."); ok {
			key = rest
		}
		if key == "" {
			key = "body"
		}
		if details == nil {
			details = make(map[string]string)
		}
		if _, seen := details[key]; !seen {
			details[key] = detail.Message
		}
	}
	return details
}

// statusToCode maps HTTP status codes to domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	}
	if status >= 400 && status < 500 {
		return string(domainerrors.CodeValidation)
	}
	return string(domainerrors.CodeInternal)
}
