// file: internals/helpers/json_response.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Envelopes
=================================*/

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    any    `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func orDefault(message, def string) string {
	if strings.TrimSpace(message) == "" {
		return def
	}
	return message
}

/* ===============================
   JSON responses (standard success)
=================================*/

// JsonOK: generic success (GET detail, etc.)
func JsonOK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success: true,
		Message: orDefault(message, "ok"),
		Data:    data,
	})
}

// JsonList: list with optional meta (pagination, scope)
func JsonList(c *fiber.Ctx, message string, data any, meta any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success: true,
		Message: orDefault(message, "ok"),
		Data:    data,
		Meta:    meta,
	})
}

// JsonCreated: POST
func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(SuccessResponse{
		Success: true,
		Message: orDefault(message, "created"),
		Data:    data,
	})
}

// JsonUpdated: PUT/PATCH
func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success: true,
		Message: orDefault(message, "updated"),
		Data:    data,
	})
}

// JsonDeleted: DELETE
func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponse{
		Success: true,
		Message: orDefault(message, "deleted"),
		Data:    data,
	})
}

/* ===============================
   Error responses
=================================*/

// JsonError: generic error (non-validation)
func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		message = fiber.ErrInternalServerError.Message
	}
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Message: message,
	})
}

// JsonValidationError: per-field validation failures (400)
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}
