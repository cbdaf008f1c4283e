package helper

import (
	"errors"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const msgInternal = "Internal server error"

var exposeErrors atomic.Bool

func init() { exposeErrors.Store(true) }

// SetExposeErrors toggles the raw `error` detail on 500 responses. Production turns it off.
func SetExposeErrors(v bool) { exposeErrors.Store(v) }

// FromError maps any error returned by a controller (including the ones raised
// inside DB.Transaction closures) to the failure envelope.
func FromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return internalError(c, fe.Code, err)
		}
		return JsonError(c, fe.Code, fe.Message)
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ValidationError(c, ve)
	}

	if IsUniqueViolation(err) {
		return JsonError(c, fiber.StatusBadRequest, "Duplicate entry")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return JsonError(c, fiber.StatusNotFound, "Record not found")
	}
	return internalError(c, fiber.StatusInternalServerError, err)
}

func internalError(c *fiber.Ctx, status int, err error) error {
	resp := ErrorResponse{Success: false, Message: msgInternal}
	if exposeErrors.Load() {
		resp.Error = err.Error()
	}
	return c.Status(status).JSON(resp)
}

// IsUniqueViolation recognizes duplicate-key failures from either the
// translated GORM error or a raw PostgreSQL 23505.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so middleware
// failures share the controller envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromError(c, err)
}
