package httpError

import "github.com/gofiber/fiber/v2"

// CommonError is the error shape usecases hand back to controllers.
// Code carries a machine-readable reason next to the HTTP status.
type CommonError struct {
	ResponseCode int    `json:"responseCode"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message"`
}

func (e CommonError) Error() string {
	return e.Message
}

func NewBadRequest() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusBadRequest,
		Message:      "Bad Request",
	}
}

func NewUnauthorized() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusUnauthorized,
		Message:      "Unauthorized",
	}
}

func NewForbidden() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusForbidden,
		Message:      "Forbidden",
	}
}

func NewNotFound() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusNotFound,
		Message:      "Not Found",
	}
}

func NewConflict() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusConflict,
		Message:      "Conflict",
	}
}

func NewTooManyRequests() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusTooManyRequests,
		Message:      "Too Many Requests",
	}
}

func NewInternalServerError() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusInternalServerError,
		Message:      "Internal Server Error",
	}
}

func NewBadGateway() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusBadGateway,
		Message:      "Bad Gateway",
	}
}

func NewInsufficientFunds() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusBadRequest,
		Code:         "INSUFFICIENT_FUNDS",
		Message:      "insufficient available balance",
	}
}

func NewDailyLimitExceeded() CommonError {
	return CommonError{
		ResponseCode: fiber.StatusBadRequest,
		Code:         "DAILY_LIMIT_EXCEEDED",
		Message:      "daily withdrawal limit exceeded",
	}
}
