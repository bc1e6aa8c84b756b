package serverutils

import (
	"errors"

	"velto-memory-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into HTTP responses. Only
// the classified kind and its message leave the process; wrapped storage and
// provider causes stay in the logs.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, nil))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return ctx.Status(statusFor(appErr.Kind)).JSON(ErrorResponse(appErr.Message, appErr.Fields))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("Internal server error", nil))
	}
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindAuth:
		return fiber.StatusUnauthorized
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindProvider:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
