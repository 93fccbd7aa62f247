package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/token"
	"taskboard/pkg/logger"
)

const (
	MsgNoToken      = "No authentication token, access denied"
	MsgInvalidToken = "Token is invalid"

	// TokenCookie is the cookie variant of the bearer header.
	TokenCookie = "token"

	localsUserID = "userID"
)

type userIDKey struct{}

// TokenVerifier resolves a token to the user id it was issued for.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// UseToken guards a route group. Verification is stateless and runs on every
// request; a valid token puts the user id in Locals and the user context.
func UseToken(verifier TokenVerifier, rec metrics.Recorder) fiber.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(c *fiber.Ctx) error {
		raw, present := extractToken(c)
		if !present {
			rec.RecordAuthFailure("missing")
			return reject(c, MsgNoToken)
		}

		userID, err := verifier.Verify(raw)
		if err != nil {
			reason := "invalid"
			var ve *token.VerifyError
			if errors.As(err, &ve) {
				reason = string(ve.Reason)
			}
			rec.RecordAuthFailure(reason)
			logger.SecurityLogger.Warn("Rejected token",
				zap.String("reason", reason),
				zap.String("ip", c.IP()),
				zap.String("url", c.OriginalURL()),
			)
			return reject(c, MsgInvalidToken)
		}

		c.Locals(localsUserID, userID)
		c.SetUserContext(context.WithValue(c.UserContext(), userIDKey{}, userID))
		return c.Next()
	}
}

// extractToken reads "Authorization: Bearer <token>" and falls back to the
// token cookie. A header with another scheme counts as a present but
// unusable token.
func extractToken(c *fiber.Ctx) (string, bool) {
	if header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); header != "" {
		scheme, value, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") {
			return header, true
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}
	if cookie := c.Cookies(TokenCookie); cookie != "" {
		return cookie, true
	}
	return "", false
}

func reject(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": msg,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}

// UserID returns the id stored by UseToken, or "" outside a guarded group.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}
