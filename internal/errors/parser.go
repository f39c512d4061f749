package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the user-safe rendering of an internal error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a database or service error onto a code and a message
// that is safe to show. Raw driver text never reaches the message.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong. Please try again.",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	errLower := strings.ToLower(err.Error())

	// PostgreSQL 23505, MySQL 1062, SQLite UNIQUE
	if strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "duplicate entry") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The item you referenced is no longer available.",
		}
	}

	return ErrorInfo{
		Code:    InternalDatabase,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "An account with this email already exists.",
		}
	}
	if strings.Contains(errLower, "wishlist") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This product is already in your wishlist.",
		}
	}
	if strings.Contains(errLower, "is_default") || strings.Contains(errLower, "one_default") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Your default address changed while saving. Please try again.",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "That record already exists.",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "order"):
		return "Order not found."
	case strings.Contains(contextLower, "address"):
		return "Address not found."
	case strings.Contains(contextLower, "wishlist"):
		return "That item is no longer in your wishlist."
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "profile"):
		return "Account not found."
	}
	return "The requested item could not be found."
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "register"):
		return "We could not create your account right now. Please try again."
	case strings.Contains(contextLower, "update"):
		return "We could not save your changes. Please try again."
	case strings.Contains(contextLower, "delete"), strings.Contains(contextLower, "remove"):
		return "We could not remove that item. Please try again."
	case strings.Contains(contextLower, "cart"):
		return "We could not update your cart. Please try again."
	}
	return "Something went wrong. Please try again."
}
