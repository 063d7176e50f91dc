package response

import (
	"errors"

	"tienda-console/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard console response
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// ValidationFailed sends a 422 with per-field messages
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Response{
		Success: false,
		Error:   "Revisa los campos marcados",
		Fields:  fields,
	})
}

// FromError maps the console error taxonomy onto HTTP answers.
// fallback is the generic message used when the backend gave none.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	var apiErr *domain.APIError

	switch {
	case errors.As(err, &verr):
		return ValidationFailed(c, verr.Fields)
	case errors.Is(err, domain.ErrUnauthenticated):
		return Unauthorized(c, "Tu sesión expiró, inicia sesión de nuevo")
	case errors.Is(err, domain.ErrForbidden):
		return Forbidden(c, "No tienes permisos para realizar esta acción")
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, "No encontrado")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return BadRequest(c, "Cantidad no válida para el stock disponible")
	case errors.Is(err, domain.ErrConfirmationRequired):
		return Error(c, fiber.StatusPreconditionRequired, "Confirma la acción con confirmar=true")
	case errors.Is(err, domain.ErrUnknownSection):
		return BadRequest(c, "Sección de configuración desconocida")
	case errors.Is(err, domain.ErrCircuitOpen):
		return Error(c, fiber.StatusServiceUnavailable, "El servicio no está disponible, intenta más tarde")
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		status := fiber.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		return Error(c, status, msg)
	default:
		return InternalServerError(c, fallback)
	}
}
