package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInvalidCount            = errors.New("invalid installment count")
	ErrInvalidDueDay           = errors.New("invalid due day")
	ErrInvalidStartMonth       = errors.New("invalid start month")
	ErrObligationNotFound      = errors.New("obligation not found")
	ErrObligationAlreadyExists = errors.New("obligation already exists")
	ErrObligationSettled       = errors.New("obligation is already settled")
	ErrValidation              = errors.New("validation failed")
	ErrConcurrentUpdate        = errors.New("obligation was modified concurrently")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidAmount           = "INVALID_AMOUNT"
	ErrCodeInvalidCount            = "INVALID_COUNT"
	ErrCodeInvalidDueDay           = "INVALID_DUE_DAY"
	ErrCodeInvalidStartMonth       = "INVALID_START_MONTH"
	ErrCodeObligationNotFound      = "OBLIGATION_NOT_FOUND"
	ErrCodeObligationAlreadyExists = "OBLIGATION_ALREADY_EXISTS"
	ErrCodeObligationSettled       = "OBLIGATION_SETTLED"
	ErrCodeValidation              = "VALIDATION_ERROR"
	ErrCodeConcurrentUpdate        = "CONCURRENT_UPDATE"
	ErrCodeDatabaseError           = "DATABASE_ERROR"
	ErrCodeCacheError              = "CACHE_ERROR"
	ErrCodeStorageError            = "STORAGE_ERROR"
)

// CodeOf returns the business code carried by err, or "" when err is not a BusinessError.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Amount %s must be non-negative and fit its column (2 decimals for money, 4 for rates)", amount),
		ErrInvalidAmount,
	)
}

func WrapInvalidCount(field string, count int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCount,
		fmt.Sprintf("%s must not be negative, got %d", field, count),
		ErrInvalidCount,
	)
}

func WrapInvalidDueDay(day int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDueDay,
		fmt.Sprintf("Due day %d is outside 1..31", day),
		ErrInvalidDueDay,
	)
}

func WrapInvalidStartMonth(month int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidStartMonth,
		fmt.Sprintf("Start month %d is outside 1..12", month),
		ErrInvalidStartMonth,
	)
}

func WrapObligationNotFound(reference string) *BusinessError {
	return NewBusinessError(
		ErrCodeObligationNotFound,
		fmt.Sprintf("Obligation %s not found", reference),
		ErrObligationNotFound,
	)
}

func WrapObligationAlreadyExists(reference string) *BusinessError {
	return NewBusinessError(
		ErrCodeObligationAlreadyExists,
		fmt.Sprintf("Obligation %s already exists", reference),
		ErrObligationAlreadyExists,
	)
}

func WrapObligationSettled(reference string) *BusinessError {
	return NewBusinessError(
		ErrCodeObligationSettled,
		fmt.Sprintf("Obligation %s is already settled", reference),
		ErrObligationSettled,
	)
}

func WrapConcurrentUpdate(reference string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrentUpdate,
		fmt.Sprintf("Obligation %s changed while the payment was being registered", reference),
		ErrConcurrentUpdate,
	)
}

func WrapValidation(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		err.Error(),
		ErrValidation,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapStorageError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStorageError,
		"report storage failed",
		err,
	)
}
