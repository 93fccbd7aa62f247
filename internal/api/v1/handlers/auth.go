package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/service"
	"taskboard/pkg/logger"
)

// Authenticator is the credential side of the API.
type Authenticator interface {
	SignUp(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*service.AuthResult, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type AuthHandler struct {
	auth         Authenticator
	tokenTTL     time.Duration
	secureCookie bool
}

func NewAuthHandler(auth Authenticator, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL, secureCookie: secureCookie}
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req signUpRequest
	if err := c.BodyParser(&req); err != nil {
		logger.RequestLogger.Info("Bad request in signup", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Bad request")
	}

	res, err := h.auth.SignUp(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Error creating user")
	}

	h.setTokenCookie(c, res.Token)
	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Message: "User created successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

// SignIn handles POST /api/auth/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		logger.RequestLogger.Info("Bad request in signin", zap.Error(err))
		return fail(c, fiber.StatusBadRequest, "Bad request")
	}

	res, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "Error signing in")
	}

	h.setTokenCookie(c, res.Token)
	return c.JSON(authResponse{
		Message: "Sign in successful",
		Token:   res.Token,
		User:    res.User,
	})
}

// SignOut clears the cookie. Tokens stay valid until they expire.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	c.ClearCookie(middleware.TokenCookie)
	return c.JSON(fiber.Map{"message": "Signed out successfully"})
}

func (h *AuthHandler) setTokenCookie(c *fiber.Ctx, tok string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
