package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos de error de la API.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidOperation  = "INVALID_OPERATION"
	CodeStorage           = "STORAGE_ERROR"
	CodeValidation        = "VALIDATION"
	CodeInvalidBody       = "INVALID_BODY"
	CodeDuplicate         = "DUPLICATE"
	CodeEmailExists       = "EMAIL_EXISTS"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInternal          = "INTERNAL"
)

// writeError traduce un error de aplicación a status HTTP + ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, CodeInternal
	msg := "error interno"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, CodeNotFound, err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code, msg = fiber.StatusConflict, CodeInsufficientStock, err.Error()
	case errors.Is(err, domain.ErrInvalidOperation):
		status, code, msg = fiber.StatusUnprocessableEntity, CodeInvalidOperation, err.Error()
	case errors.Is(err, domain.ErrStorage):
		status, code, msg = fiber.StatusServiceUnavailable, CodeStorage, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, CodeValidation, err.Error()
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code, msg = fiber.StatusConflict, CodeEmailExists, err.Error()
	case errors.Is(err, domain.ErrDuplicate):
		status, code, msg = fiber.StatusConflict, CodeDuplicate, err.Error()
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		status, code, msg = fiber.StatusUnauthorized, CodeUnauthorized, "credenciales inválidas"
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: msg})
}

// paramInt64 lee un parámetro de ruta numérico positivo.
func paramInt64(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Paging límites de paginación aplicados a los listados.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// page lee limit/offset del query string y los normaliza.
func (p Paging) page(c *fiber.Ctx) dto.PageRequest {
	in := dto.PageRequest{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
	in.Normalize(p.DefaultLimit, p.MaxLimit)
	return in
}
