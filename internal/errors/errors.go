// Package errors provides the typed outcomes returned by the fintrack engines.
// Every engine failure is an *AppError carrying a Kind; the API layer alone
// decides how a Kind is presented to callers.
package errors

import stderrors "errors"

// Kind classifies an AppError independently of any transport.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidInput
	KindUnavailable
	KindUnauthorized
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnavailable:
		return "unavailable"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// AppError represents a structured application error with a kind, a stable
// error code, a human-readable message and an optional internal cause.
type AppError struct {
	Kind     Kind   `json:"-"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// derived errors still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same kind/code/message but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Kind:     sentinel.Kind,
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Kind:     sentinel.Kind,
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// KindOf returns the Kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// General errors.
var (
	ErrInvalidInput     = &AppError{Kind: KindInvalidInput, Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrNotFound         = &AppError{Kind: KindNotFound, Code: "NOT_FOUND", Message: "Resource not found"}
	ErrForbidden        = &AppError{Kind: KindForbidden, Code: "FORBIDDEN", Message: "Access denied"}
	ErrConflict         = &AppError{Kind: KindConflict, Code: "CONFLICT", Message: "Resource already exists"}
	ErrUnauthorized     = &AppError{Kind: KindUnauthorized, Code: "MISSING_USER", Message: "A valid X-User-ID header is required"}
	ErrRateLimited      = &AppError{Kind: KindRateLimited, Code: "RATE_LIMITED", Message: "Too many requests"}
	ErrStoreUnavailable = &AppError{Kind: KindUnavailable, Code: "STORE_UNAVAILABLE", Message: "The data store is unavailable"}
	ErrInternalServer   = &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrDuplicateEmail = &AppError{Kind: KindConflict, Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists"}
)

// Category errors.
var (
	ErrCategoryNotFound         = &AppError{Kind: KindNotFound, Code: "CATEGORY_NOT_FOUND", Message: "Category not found"}
	ErrDuplicateCategoryName    = &AppError{Kind: KindConflict, Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists"}
	ErrDefaultCategoryImmutable = &AppError{Kind: KindForbidden, Code: "DEFAULT_CATEGORY_IMMUTABLE", Message: "Default categories cannot be modified"}
	ErrCategoryNotOwned         = &AppError{Kind: KindForbidden, Code: "CATEGORY_NOT_OWNED", Message: "Category belongs to another user"}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Kind: KindNotFound, Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found"}
	ErrTransactionNotOwned    = &AppError{Kind: KindForbidden, Code: "TRANSACTION_NOT_OWNED", Message: "Transaction belongs to another user"}
	ErrInvalidTransactionType = &AppError{Kind: KindInvalidInput, Code: "INVALID_TRANSACTION_TYPE", Message: "Transaction type must be INCOME or EXPENSE"}
	ErrInvalidAmount          = &AppError{Kind: KindInvalidInput, Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero"}
)
