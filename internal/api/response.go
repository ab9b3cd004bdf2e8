package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/victorivanov/guildcore/internal/service"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error sends a JSON error response.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// mapServiceError translates a service-layer error into the HTTP error
// envelope. Unknown errors are reported as 500 without leaking detail.
func mapServiceError(c echo.Context, err error) error {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		return Error(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrRoleHierarchy):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	return Error(c, status, svcErr.Code, svcErr.Message)
}
