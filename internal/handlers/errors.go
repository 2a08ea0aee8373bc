package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"laoud/internal/cart"
	"laoud/internal/checkout"
	"laoud/internal/repositories"
)

var validate = validator.New()

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, repositories.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidSize),
		errors.Is(err, cart.ErrInvalidCoupon),
		errors.Is(err, cart.ErrEmptyCoupon):
		return fiber.StatusBadRequest
	case errors.Is(err, cart.ErrProductUnavailable),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNotStarted),
		errors.Is(err, checkout.ErrStepNotReached),
		errors.Is(err, checkout.ErrAlreadyPlaced),
		errors.Is(err, checkout.ErrSubmitInProgress):
		return fiber.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as a JSON error body.
func respondError(c *fiber.Ctx, logger zerolog.Logger, message string, err error) error {
	status := statusFor(err)
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		body["message"] = verr.Message
		body["errors"] = verr.Fields
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg(message)
	} else {
		logger.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg(message)
	}
	return c.Status(status).JSON(body)
}

// parseBody binds and validates the request body into v. It returns the
// error body to send with 400 Bad Request, or nil.
func parseBody(c *fiber.Ctx, v any) fiber.Map {
	if err := c.BodyParser(v); err != nil {
		return fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}
	}
	if err := validate.Struct(v); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			}
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		}
	}
	return nil
}
