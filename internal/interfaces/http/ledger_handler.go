package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// LedgerHandler entradas directas, consumos y consultas del ledger (protegido).
type LedgerHandler struct {
	direct  *stock.DirectEntryUseCase
	summary *stock.SummaryUseCase
	mapper  stock.Mapper
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(direct *stock.DirectEntryUseCase, summary *stock.SummaryUseCase, mapper stock.Mapper) *LedgerHandler {
	return &LedgerHandler{direct: direct, summary: summary, mapper: mapper}
}

// DirectEntry godoc
// @Summary      Entrada directa
// @Description  Recepción sin solicitud previa. Se sintetiza una solicitud ya recibida para auditoría.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DirectEntryRequest  true  "ítem, cantidad, zona, proveedor y evidencia"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/direct-entries [post]
func (h *LedgerHandler) DirectEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.DirectEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validator.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	res, err := h.direct.DirectInFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Result(res))
}

// Consume godoc
// @Summary      Registrar salida
// @Description  Movimiento OUT contra una orden de venta o producción. Falla con 409 si la zona no alcanza.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConsumptionRequest  true  "ítem, cantidad, zona y referencia"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/consumptions [post]
func (h *LedgerHandler) Consume(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validator.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	res, err := h.direct.ConsumeFromRequest(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Result(res))
}

// Summary godoc
// @Summary      Saldo por zona
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        class  path      string  true  "product | spare"
// @Param        id     path      string  true  "ID del ítem"
// @Success      200    {object}  dto.SummaryResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/stock/items/{class}/{id}/summary [get]
func (h *LedgerHandler) Summary(c *fiber.Ctx) error {
	s, err := h.summary.GetSummary(c.Context(), itemFromPath(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.Summary(s))
}

// Movements godoc
// @Summary      Historial de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        class   path      string  true   "product | spare"
// @Param        id      path      string  true   "ID del ítem"
// @Param        limit   query     int     false  "máximo 100"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.MovementListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/stock/items/{class}/{id}/movements [get]
func (h *LedgerHandler) Movements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	movs, err := h.summary.ListMovements(c.Context(), itemFromPath(c), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.Movements(movs, page.Limit, page.Offset))
}

// Verify godoc
// @Summary      Verificar ledger
// @Description  Reproduce la cadena de movimientos del ítem y la compara con el saldo persistido.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        class  path      string  true  "product | spare"
// @Param        id     path      string  true  "ID del ítem"
// @Success      200    {object}  dto.VerifyResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/stock/items/{class}/{id}/verify [get]
func (h *LedgerHandler) Verify(c *fiber.Ctx) error {
	report, err := h.summary.VerifyItem(c.Context(), itemFromPath(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.Verify(report))
}

// LowStock godoc
// @Summary      Ítems bajo el mínimo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        class  query    string  true  "product | spare"
// @Success      200    {array}  dto.LowStockItemDTO
// @Failure      400    {object} dto.ErrorResponse
// @Router       /api/stock/low-stock [get]
func (h *LedgerHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.summary.ListLowStock(c.Context(), entity.ItemClass(c.Query("class")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.mapper.LowStock(items))
}

func itemFromPath(c *fiber.Ctx) entity.ItemRef {
	return entity.ItemRef{Class: entity.ItemClass(c.Params("class")), ID: c.Params("id")}
}
