package serverutils

import (
	"errors"

	"grid-portal-be/internal/pkg/logger"
	"grid-portal-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidArgument:
		return fiber.StatusBadRequest
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors bubbling out of handlers into JSON
// responses. Only the classified message ever reaches the client; raw
// causes (SQL, filesystem) stay in the log.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status := statusFor(appErr.Kind())
			if status == fiber.StatusInternalServerError {
				log.Error("http", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"error": err.Error(),
				})
				return ctx.Status(status).JSON(ErrorResponse("internal error"))
			}
			return ctx.Status(status).JSON(ErrorResponse(appErr.Message()))
		}

		log.Error("http", "unclassified error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal error"))
	}
}
