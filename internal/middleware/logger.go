package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/pkg/logger"
)

const MsgInternal = "Something went wrong!"

// ErrorHandler recovers panics, logs every request and reports it to rec.
// Panic details and stacks go to the error log only.
func ErrorHandler(rec metrics.Recorder) fiber.Handler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error(fmt.Sprintf("Recovered from panic: %v", r),
					zap.String("method", c.Method()),
					zap.String("url", c.OriginalURL()),
					zap.String("stack", string(debug.Stack())),
				)
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": MsgInternal,
					"success": false,
					"status":  fiber.StatusInternalServerError,
				})
			}

			status := c.Response().StatusCode()
			if err != nil {
				status = fiber.StatusInternalServerError
				var fe *fiber.Error
				if errors.As(err, &fe) {
					status = fe.Code
				}
			}
			elapsed := time.Since(start)
			rec.RecordRequest(c.Method(), c.Route().Path, status, elapsed)
			logger.RequestLogger.Info("Request handled",
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.Int("status", status),
				zap.Duration("duration", elapsed),
			)
		}()

		return c.Next()
	}
}
