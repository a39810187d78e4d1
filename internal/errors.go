package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeConflict    ErrorType = "CONFLICT"
	ErrorTypeInternal    ErrorType = "INTERNAL_ERROR"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDepartment ErrorCode = "INVALID_DEPARTMENT"
	ErrCodeInvalidDay        ErrorCode = "INVALID_DAY"
	ErrCodeInvalidShift      ErrorCode = "INVALID_SHIFT"
	ErrCodeInvalidPosition   ErrorCode = "INVALID_POSITION"
	ErrCodeInvalidMonth      ErrorCode = "INVALID_MONTH"
	ErrCodeInvalidSlotKey    ErrorCode = "INVALID_SLOT_KEY"
	ErrCodeSlotKindMismatch  ErrorCode = "SLOT_KIND_MISMATCH"
	ErrCodePositionCapacity  ErrorCode = "POSITION_CAPACITY"
	ErrCodeBankExceedsTotal  ErrorCode = "BANK_EXCEEDS_TOTAL"

	ErrCodeEmployeeNotFound    ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeSalaryNotFound      ErrorCode = "SALARY_NOT_FOUND"
	ErrCodeDuplicateEmployee   ErrorCode = "DUPLICATE_EMPLOYEE"
	ErrCodeDuplicateAssignment ErrorCode = "DUPLICATE_ASSIGNMENT"
	ErrCodeMonthlySalaryExists ErrorCode = "MONTHLY_SALARY_EXISTS"
	ErrCodeSlotKindConflict    ErrorCode = "SLOT_KIND_CONFLICT"
	ErrCodeStoreNotLoaded      ErrorCode = "STORE_NOT_LOADED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewUnavailableError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

var (
	ErrEmployeeNotFound    = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrSalaryNotFound      = NewNotFoundError("Salary record not found", ErrCodeSalaryNotFound)
	ErrDuplicateEmployee   = NewConflictError("Employee with this name already exists", ErrCodeDuplicateEmployee)
	ErrDuplicateAssignment = NewConflictError("Employee is already assigned to this shift", ErrCodeDuplicateAssignment)
	ErrMonthlySalaryExists = NewConflictError("Salary for this month already exists", ErrCodeMonthlySalaryExists)
	ErrStoreNotLoaded      = NewUnavailableError("Store is still loading", ErrCodeStoreNotLoaded)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
