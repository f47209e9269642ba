package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// writeError traduce un error de los casos de uso a status + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		resp.RequestID = de.RequestID
		resp.Item = de.Item
		if de.Detail != "" {
			resp.Message = de.Detail
		}
	}

	var status int
	switch stock.KindName(err) {
	case "validation":
		status, resp.Code = fiber.StatusBadRequest, "VALIDATION"
	case "not_found":
		status, resp.Code = fiber.StatusNotFound, "NOT_FOUND"
	case "insufficient_stock":
		status, resp.Code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case "conflict":
		status, resp.Code = fiber.StatusConflict, "CONFLICT"
	case "unauthorized":
		status, resp.Code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	default:
		// El detalle del driver no sale al cliente.
		status, resp.Code = fiber.StatusServiceUnavailable, "STORAGE_FAILURE"
		resp.Message = "almacenamiento no disponible, reintente"
	}
	return c.Status(status).JSON(resp)
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
