package v1

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskboard/internal/api/v1/handlers"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Auth         handlers.Authenticator
	Tasks        handlers.TaskManager
	Tokens       middleware.TokenVerifier
	Metrics      metrics.Recorder
	TokenTTL     time.Duration
	SecureCookie bool
}

func RegisterRoutes(app *fiber.App, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.TokenTTL, deps.SecureCookie)
	userHandler := handlers.NewUserHandler(deps.Auth)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the API"})
	})

	api := app.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Post("/signout", authHandler.SignOut)

	// User
	userRoutes := api.Group("/users", middleware.UseToken(deps.Tokens, deps.Metrics))
	userRoutes.Get("/me", userHandler.Me)

	// Task
	taskRoutes := api.Group("/tasks", middleware.UseToken(deps.Tokens, deps.Metrics))
	taskRoutes.Get("/", taskHandler.ListTasks)
	taskRoutes.Post("/", taskHandler.CreateTask)
	taskRoutes.Get("/:id", taskHandler.GetTask)
	taskRoutes.Put("/:id", taskHandler.UpdateTask)
	taskRoutes.Delete("/:id", taskHandler.DeleteTask)
}

// ErrorHandler answers errors that escape the handlers (unknown routes,
// framework errors) in the API's JSON shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := middleware.MsgInternal
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{
		"message": msg,
		"success": false,
		"status":  code,
	})
}
