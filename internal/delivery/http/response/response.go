// Package response renders the JSON envelope of the API.
package response

import (
	"net/http"

	deliverycontext "citysim/internal/delivery/context"
	domainerrors "citysim/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Response unified API response structure
type Response struct {
	Success   bool                    `json:"success"`
	Code      int                     `json:"code"`    // HTTP status code
	Message   string                  `json:"message"` // User-friendly message
	Data      any                     `json:"data,omitempty"`
	Error     *domainerrors.ErrorInfo `json:"error,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
}

// Success successful response
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success:   true,
		Code:      statusCode,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error error response
func Error(c echo.Context, statusCode int, errorCode string, kind domainerrors.Kind, message string, details any) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	// Server faults never leak their details
	if statusCode >= http.StatusInternalServerError {
		details = nil
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &domainerrors.ErrorInfo{
			Code:    errorCode,
			Kind:    kind,
			Message: message,
			Details: details,
		},
		RequestID: requestID(c),
	})
}

// BadRequest 400 error
func BadRequest(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, domainerrors.KindValidation, message, nil)
}

// BindingError binding error response
func BindingError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, domainerrors.KindValidation, message, nil)
}

// ValidationError reports failed struct validation with the validator's message.
func ValidationError(c echo.Context, err error) error {
	return Error(c, http.StatusBadRequest, "VALIDATION_ERROR", domainerrors.KindValidation, "Invalid request", err.Error())
}

// Unauthorized 401 error
func Unauthorized(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusUnauthorized, errorCode, domainerrors.KindForbidden, message, nil)
}

// Forbidden 403 error
func Forbidden(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusForbidden, errorCode, domainerrors.KindForbidden, message, nil)
}

// NotFound 404 error
func NotFound(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusNotFound, errorCode, domainerrors.KindNotFound, message, nil)
}

// InternalServerError 500 error
func InternalServerError(c echo.Context, errorCode string, message string) error {
	return Error(c, http.StatusInternalServerError, errorCode, domainerrors.KindInternal, message, nil)
}

// HandleAppError renders domain errors. Anything else goes to the echo
// error handler, which logs it and hides the cause.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode() < http.StatusInternalServerError {
		var details any
		if d := appErr.Details(); d != "" {
			details = d
		}

		return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Kind(), appErr.Message(), details)
	}

	return errors.WithStack(err)
}

func requestID(c echo.Context) string {
	if id, ok := c.Get(string(deliverycontext.KeyRequestID)).(string); ok {
		return id
	}

	return ""
}
