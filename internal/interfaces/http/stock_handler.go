package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// StockHandler balances producto/ubicación: lecturas, SetBalance, override, delete y verificación.
type StockHandler struct {
	uc      *usecase.StockUseCase
	reports *report.UseCase
	paging  Paging
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, reports *report.UseCase, paging Paging) *StockHandler {
	return &StockHandler{uc: uc, reports: reports, paging: paging}
}

// List godoc
// @Summary      Listar balances
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(15)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.BalanceListResponse
// @Router       /api/v1/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), h.paging.page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Set godoc
// @Summary      Fijar stock de un producto en una ubicación
// @Description  Crea el balance si no existe o sobrescribe su cantidad. No genera mutación.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetBalanceRequest  true  "product_id, location_id, quantity"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/stock [post]
func (h *StockHandler) Set(c *fiber.Ctx) error {
	var in dto.SetBalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ProductID == "" || in.LocationID == "" || in.Quantity == nil {
		return badRequest(c, "product_id, location_id y quantity son requeridos")
	}
	out, err := h.uc.Set(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByPair godoc
// @Summary      Balance por producto y ubicación
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BalancePairRequest  true  "product_id, location_id"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/get [post]
func (h *StockHandler) GetByPair(c *fiber.Ctx) error {
	var in dto.BalancePairRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.GetByPair(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "balance no encontrado")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener balance
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del balance"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "balance no encontrado")
	}
	return c.JSON(out)
}

// Override godoc
// @Summary      Sobrescribir cantidad de un balance
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del balance"
// @Param        body  body  dto.OverrideBalanceRequest  true  "quantity"
// @Success      200   {object}  dto.BalanceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/stock/{id} [put]
func (h *StockHandler) Override(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	var in dto.OverrideBalanceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Quantity == nil {
		return badRequest(c, "quantity es requerido")
	}
	out, err := h.uc.Override(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar balance
// @Description  Elimina el balance y todas sus mutaciones.
// @Tags         stock
// @Security     Bearer
// @Param        id   path  int  true  "ID del balance"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Verify godoc
// @Summary      Verificar balance contra sus mutaciones
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del balance"
// @Success      200  {object}  dto.BalanceVerificationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stock/{id}/verify [get]
func (h *StockHandler) Verify(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	out, err := h.reports.VerifyBalance(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByProduct godoc
// @Summary      Balances de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/v1/products/{id}/stock [get]
func (h *StockHandler) ByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByLocation godoc
// @Summary      Balances de una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.BalanceListResponse
// @Router       /api/v1/locations/{id}/stock [get]
func (h *StockHandler) ByLocation(c *fiber.Ctx) error {
	out, err := h.uc.ListByLocation(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
