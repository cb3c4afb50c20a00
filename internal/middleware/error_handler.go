package middleware

import (
	"errors"

	"artisan-market/internal/domain"
	"artisan-market/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StatusFor maps user-input errors to HTTP status codes; anything else is a 500.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidFileType):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrIncompleteSubmission):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownViewMode):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrListingNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the global error handler. Returns the standard error format.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	message := "Internal Server Error"
	details := map[string]interface{}{}

	if code < fiber.StatusInternalServerError {
		message = err.Error()
	} else {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("unhandled error")
	}
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) {
		message = domain.ErrIncompleteSubmission.Error()
		details["field"] = subErr.Field
	}

	return response.Error(c, message, code, details)
}
