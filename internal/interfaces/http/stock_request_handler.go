package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// StockRequestHandler solicitudes de stock y su recepción (protegido).
type StockRequestHandler struct {
	requests *stock.RequestUseCase
	fulfill  *stock.FulfillmentUseCase
	mapper   stock.Mapper
}

// NewStockRequestHandler construye el handler.
func NewStockRequestHandler(requests *stock.RequestUseCase, fulfill *stock.FulfillmentUseCase, mapper stock.Mapper) *StockRequestHandler {
	return &StockRequestHandler{requests: requests, fulfill: fulfill, mapper: mapper}
}

// Create godoc
// @Summary      Crear solicitud de stock
// @Description  Registra una solicitud de compra pendiente. No mueve stock.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateStockRequestRequest  true  "ítem, cantidad, proveedor y transporte"
// @Success      201   {object}  dto.StockRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/requests [post]
func (h *StockRequestHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateStockRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validator.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	req, err := h.requests.CreateFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.StockRequest(req))
}

// ListPending godoc
// @Summary      Solicitudes pendientes
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        class   query     string  true   "product | spare"
// @Param        limit   query     int     false  "máximo 100"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.StockRequestListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/stock/requests [get]
func (h *StockRequestHandler) ListPending(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	class := entity.ItemClass(c.Query("class"))
	items, err := h.requests.ListPending(c.Context(), class, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.StockRequests(items, page.Limit, page.Offset))
}

// Get godoc
// @Summary      Obtener solicitud
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la solicitud"
// @Success      200  {object}  dto.StockRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/requests/{id} [get]
func (h *StockRequestHandler) Get(c *fiber.Ctx) error {
	req, err := h.requests.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.StockRequest(req))
}

// Fulfill godoc
// @Summary      Recibir solicitud
// @Description  Registra la recepción física: crea el movimiento IN y marca la solicitud como recibida
//
//	en una sola transacción. Exige la foto de recepción.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "ID de la solicitud"
// @Param        body  body      dto.FulfillRequest  true  "cantidad recibida, zona y evidencia"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/requests/{id}/fulfill [post]
func (h *StockRequestHandler) Fulfill(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.FulfillRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validator.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	res, err := h.fulfill.FulfillFromRequest(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Result(res))
}
