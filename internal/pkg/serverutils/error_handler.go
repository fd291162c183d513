package serverutils

import (
	"errors"

	"symptom-checker-be/internal/pkg/apperror"
	"symptom-checker-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of the handlers into
// the JSON error envelope. Internal causes are logged, never returned.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse("HTTP_ERROR", "", fiberErr.Message))
		}

		appErr := apperror.From(err)
		status := appErr.StatusCode()

		if status >= 500 {
			log.Error("http", "request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"kind":   appErr.Kind.String(),
				"error":  appErr.Error(),
			})
		}

		return ctx.Status(status).JSON(ErrorResponse(appErr.Kind.String(), appErr.Field, appErr.Message))
	}
}
