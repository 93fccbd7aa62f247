package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/apperrors"
	"taskboard/internal/middleware"
	"taskboard/pkg/logger"
)

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": msg,
		"success": false,
		"status":  status,
	})
}

// respondError maps the taxonomy to a status code. Anything unmapped is
// logged with op and answered with a generic 500.
func respondError(c *fiber.Ctx, err error, op string) error {
	var ve *apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, apperrors.ErrValidation):
		return fail(c, fiber.StatusBadRequest, "Validation error")
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		return fail(c, fiber.StatusBadRequest, "User already exists")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return fail(c, fiber.StatusUnauthorized, middleware.MsgInvalidToken)
	case errors.Is(err, apperrors.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Task not found")
	default:
		logger.ErrorLogger.Error(op,
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Error(err),
		)
		return fail(c, fiber.StatusInternalServerError, middleware.MsgInternal)
	}
}
