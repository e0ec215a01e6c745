package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MutationHandler registro y consulta de mutaciones de stock.
type MutationHandler struct {
	uc      *usecase.MutationUseCase
	reports *report.UseCase
	paging  Paging
}

// NewMutationHandler construye el handler.
func NewMutationHandler(uc *usecase.MutationUseCase, reports *report.UseCase, paging Paging) *MutationHandler {
	return &MutationHandler{uc: uc, reports: reports, paging: paging}
}

// Create godoc
// @Summary      Registrar mutación
// @Description  Entrada (in) o salida (out) sobre un balance. Una salida mayor al stock disponible se rechaza.
// @Tags         mutations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMutationRequest  true  "product_location_id, type, amount, date, note"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/v1/mutations [post]
func (h *MutationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.BalanceID <= 0 || in.Kind == "" {
		return badRequest(c, "product_location_id y type son requeridos")
	}
	if !entity.ValidMutationKind(in.Kind) {
		return badRequest(c, "type debe ser in u out")
	}
	if in.Amount <= 0 {
		return badRequest(c, "amount debe ser mayor que cero")
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Modificar mutación
// @Description  Los campos omitidos conservan su valor. Se rechaza si el balance quedaría negativo.
// @Tags         mutations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la mutación"
// @Param        body  body  dto.UpdateMutationRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/mutations/{id} [put]
func (h *MutationHandler) Update(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	var in dto.UpdateMutationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Kind != nil && !entity.ValidMutationKind(*in.Kind) {
		return badRequest(c, "type debe ser in u out")
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return badRequest(c, "amount debe ser mayor que cero")
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar mutación
// @Description  Revierte el efecto de la mutación en el balance. Se rechaza si el balance quedaría negativo.
// @Tags         mutations
// @Security     Bearer
// @Param        id   path  int  true  "ID de la mutación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/mutations/{id} [delete]
func (h *MutationHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener mutación
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la mutación"
// @Success      200  {object}  dto.MutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/mutations/{id} [get]
func (h *MutationHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	out, err := h.reports.GetMutation(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "mutación no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar mutaciones
// @Description  Con type filtra por tipo (y opcionalmente fechas, producto y ubicación) sin paginar; sin type lista todas paginadas.
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        type         query  string  false  "in | out"
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Param        product_id   query  string  false  "ID del producto"
// @Param        location_id  query  string  false  "ID de la ubicación"
// @Param        limit        query  int     false  "Límite"  default(15)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.MutationListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/v1/mutations [get]
func (h *MutationHandler) List(c *fiber.Ctx) error {
	var in dto.MutationFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "filtros inválidos")
	}
	if in.Kind == "" {
		out, err := h.reports.ListAll(c.UserContext(), h.paging.page(c))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
	out, err := h.reports.ListByKind(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByBalance godoc
// @Summary      Mutaciones de un balance
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del balance"
// @Success      200  {object}  dto.MutationListResponse
// @Router       /api/v1/mutations/balance/{id} [get]
func (h *MutationHandler) ByBalance(c *fiber.Ctx) error {
	id, ok := paramInt64(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	out, err := h.reports.ListByBalance(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByDateRange godoc
// @Summary      Mutaciones en un rango de fechas
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  true  "YYYY-MM-DD"
// @Param        end_date    query  string  true  "YYYY-MM-DD"
// @Success      200         {object}  dto.MutationListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/v1/mutations/range [get]
func (h *MutationHandler) ByDateRange(c *fiber.Ctx) error {
	out, err := h.reports.ListByDateRange(c.UserContext(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UserHistory godoc
// @Summary      Historial de mutaciones del usuario autenticado
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(15)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MutationListResponse
// @Router       /api/v1/mutations/user/histories [get]
func (h *MutationHandler) UserHistory(c *fiber.Ctx) error {
	out, err := h.reports.UserHistory(c.UserContext(), GetUserID(c), h.paging.page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductHistory godoc
// @Summary      Historial de mutaciones de un producto
// @Tags         mutations
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite"  default(15)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.MutationListResponse
// @Router       /api/v1/mutations/product/{id}/histories [get]
func (h *MutationHandler) ProductHistory(c *fiber.Ctx) error {
	out, err := h.reports.ProductHistory(c.UserContext(), c.Params("id"), h.paging.page(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
