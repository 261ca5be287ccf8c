package errors

import (
	"net/http"

	"citysim/internal/errors"
)

// Kind groups error codes into the categories callers branch on.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindInsufficientFunds   Kind = "insufficient_funds"
	KindNotFound            Kind = "not_found"
	KindAlreadyOwned        Kind = "already_owned"
	KindCapExceeded         Kind = "cap_exceeded"
	KindConcurrencyConflict Kind = "concurrency_conflict"
	KindForbidden           Kind = "forbidden"
	KindInternal            Kind = "internal"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
	Kind() Kind        // Rejection category
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	kind      Kind
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode string, kind Kind, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		kind:      kind,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same error code, so errors with
// attached details still compare equal to the predefined value.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Kind returns the rejection category
func (e *BaseError) Kind() Kind {
	return e.kind
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		kind:      e.kind,
		message:   e.message,
		details:   details,
	}
}

// KindOf returns the category of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}

// Predefined error types
var (
	// Validation errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		KindValidation,
		"Input validation failed",
		"",
	)

	ErrInvalidCoordinates = NewBaseError(
		http.StatusBadRequest,
		"INVALID_COORDINATES",
		KindValidation,
		"Coordinates are outside the map",
		"",
	)

	ErrUnknownBusinessType = NewBaseError(
		http.StatusBadRequest,
		"UNKNOWN_BUSINESS_TYPE",
		KindValidation,
		"Unknown business type",
		"",
	)

	ErrZoneNotAllowed = NewBaseError(
		http.StatusBadRequest,
		"ZONE_NOT_ALLOWED",
		KindValidation,
		"Business type cannot be built in this zone",
		"",
	)

	ErrConstructionIncomplete = NewBaseError(
		http.StatusBadRequest,
		"CONSTRUCTION_INCOMPLETE",
		KindValidation,
		"Business is still under construction",
		"",
	)

	ErrResaleBelowFloor = NewBaseError(
		http.StatusBadRequest,
		"RESALE_BELOW_FLOOR",
		KindValidation,
		"Resale price is below the minimum allowed price",
		"",
	)

	ErrPlotNotForSale = NewBaseError(
		http.StatusBadRequest,
		"PLOT_NOT_FOR_SALE",
		KindValidation,
		"Plot is not listed for resale",
		"",
	)

	ErrSelfPurchase = NewBaseError(
		http.StatusBadRequest,
		"SELF_PURCHASE",
		KindValidation,
		"Cannot buy your own plot",
		"",
	)

	ErrWithdrawalBelowMinimum = NewBaseError(
		http.StatusBadRequest,
		"WITHDRAWAL_BELOW_MINIMUM",
		KindValidation,
		"Withdrawal amount is below the minimum",
		"",
	)

	ErrNotPending = NewBaseError(
		http.StatusBadRequest,
		"NOT_PENDING",
		KindValidation,
		"Transaction is not pending",
		"",
	)

	ErrResourceMismatch = NewBaseError(
		http.StatusBadRequest,
		"RESOURCE_MISMATCH",
		KindValidation,
		"Businesses do not trade this resource",
		"",
	)

	ErrInvalidAmount = NewBaseError(
		http.StatusBadRequest,
		"INVALID_AMOUNT",
		KindValidation,
		"Amount must be positive",
		"",
	)

	// Funds errors
	ErrInsufficientFunds = NewBaseError(
		http.StatusPaymentRequired,
		"INSUFFICIENT_FUNDS",
		KindInsufficientFunds,
		"Insufficient balance",
		"",
	)

	// Not found errors
	ErrPlayerNotFound = NewBaseError(
		http.StatusNotFound,
		"PLAYER_NOT_FOUND",
		KindNotFound,
		"Player not found",
		"",
	)

	ErrPlotNotFound = NewBaseError(
		http.StatusNotFound,
		"PLOT_NOT_FOUND",
		KindNotFound,
		"Plot not found",
		"",
	)

	ErrBusinessNotFound = NewBaseError(
		http.StatusNotFound,
		"BUSINESS_NOT_FOUND",
		KindNotFound,
		"Business not found",
		"",
	)

	ErrTransactionNotFound = NewBaseError(
		http.StatusNotFound,
		"TRANSACTION_NOT_FOUND",
		KindNotFound,
		"Transaction not found",
		"",
	)

	ErrContractNotFound = NewBaseError(
		http.StatusNotFound,
		"CONTRACT_NOT_FOUND",
		KindNotFound,
		"Contract not found",
		"",
	)

	ErrDeviceNotFound = NewBaseError(
		http.StatusNotFound,
		"DEVICE_NOT_FOUND",
		KindNotFound,
		"Device not found",
		"",
	)

	// Ownership errors
	ErrPlotUnavailable = NewBaseError(
		http.StatusConflict,
		"PLOT_UNAVAILABLE",
		KindAlreadyOwned,
		"Plot is already owned",
		"",
	)

	ErrPlotOccupied = NewBaseError(
		http.StatusConflict,
		"PLOT_OCCUPIED",
		KindAlreadyOwned,
		"Plot already has a business",
		"",
	)

	ErrDepositAlreadyCredited = NewBaseError(
		http.StatusConflict,
		"DEPOSIT_ALREADY_CREDITED",
		KindAlreadyOwned,
		"Deposit was already credited",
		"",
	)

	ErrNotOwner = NewBaseError(
		http.StatusForbidden,
		"NOT_OWNER",
		KindForbidden,
		"You do not own this resource",
		"",
	)

	// Cap errors
	ErrPlotLimitReached = NewBaseError(
		http.StatusConflict,
		"PLOT_LIMIT_REACHED",
		KindCapExceeded,
		"Plot limit for your tier reached",
		"",
	)

	ErrZonePlotLimitReached = NewBaseError(
		http.StatusConflict,
		"ZONE_PLOT_LIMIT_REACHED",
		KindCapExceeded,
		"Plot limit for this zone reached",
		"",
	)

	ErrBusinessLimitReached = NewBaseError(
		http.StatusConflict,
		"BUSINESS_LIMIT_REACHED",
		KindCapExceeded,
		"Limit for this business type reached",
		"",
	)

	ErrGlobalBusinessLimitReached = NewBaseError(
		http.StatusConflict,
		"GLOBAL_BUSINESS_LIMIT_REACHED",
		KindCapExceeded,
		"Global limit for this business type reached",
		"",
	)

	// Concurrency errors
	ErrConcurrencyConflict = NewBaseError(
		http.StatusConflict,
		"CONCURRENCY_CONFLICT",
		KindConcurrencyConflict,
		"Resource changed concurrently, retry the operation",
		"",
	)

	// General errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		KindInternal,
		"Database transaction failed",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		KindInternal,
		"Internal server error",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		KindForbidden,
		"Access denied",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Kind returns the rejection category
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
