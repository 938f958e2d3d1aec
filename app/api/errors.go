package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler maps the error taxonomy to HTTP answers: client mistakes
// keep their 400 shape, everything upstream-related becomes a 500 with a
// generic message plus internal detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(Error{Code: fiberErr.Code, Message: fiberErr.Message})
	}

	// RemoteServiceError, ConfigurationError and anything unexpected
	fmt.Printf("%s Request failed: %s\n", time.Now().Format(time.RFC3339), err)
	return c.Status(fiber.StatusInternalServerError).JSON(Error{
		Code:    fiber.StatusInternalServerError,
		Message: "Failed to process chat request",
		Details: err.Error(),
	})
}

type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrMessagesRequired() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "Messages are required",
	}
}

// ErrInvalidMessages flattens field validation failures into the 400
// {error, details} shape.
func ErrInvalidMessages(fields map[string]string) Error {
	details := make([]string, 0, len(fields))
	for field, msg := range fields {
		details = append(details, field+" "+msg)
	}
	sort.Strings(details)
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "Messages are invalid",
		Details: strings.Join(details, "; "),
	}
}
