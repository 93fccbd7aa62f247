package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/apperrors"
	"taskboard/internal/middleware"
	"taskboard/pkg/logger"
)

type UserHandler struct {
	auth Authenticator
}

func NewUserHandler(auth Authenticator) *UserHandler {
	return &UserHandler{auth: auth}
}

// Me handles GET /api/users/me. A token for a user that no longer resolves
// gets the same 401 as any other bad token.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := h.auth.FindByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.SecurityLogger.Warn("Token for unknown user", zap.String("user_id", userID))
			return fail(c, fiber.StatusUnauthorized, middleware.MsgInvalidToken)
		}
		return respondError(c, err, "Error fetching user profile")
	}
	return c.JSON(user)
}
