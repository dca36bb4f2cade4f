package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"canon-be/internal/pkg/apperror"
	"canon-be/pkg/agent"
)

// ErrorHandlerMiddleware translates domain errors bubbled out of
// controllers into HTTP responses so handlers can just return err.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var parseErr *agent.DecisionParseError
		if errors.As(err, &parseErr) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(
				fiber.StatusBadGateway,
				"The assistant returned an unreadable reply. Please try rephrasing your instruction.",
			))
		}

		switch {
		case errors.Is(err, apperror.ErrNotFound), errors.Is(err, agent.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(fiber.StatusNotFound, err.Error()))
		case errors.Is(err, apperror.ErrUnauthorized):
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, err.Error()))
		case errors.Is(err, apperror.ErrBadRequest):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(fiber.StatusBadRequest, err.Error()))
		case errors.Is(err, apperror.ErrDuplicateName):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(fiber.StatusConflict, err.Error()))
		case errors.Is(err, agent.ErrModelUnavailable):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(
				fiber.StatusServiceUnavailable,
				"The language model is unavailable right now. Please try again shortly.",
			))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
