package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/report"
)

// HeaderReportDigest header con el SHA-256 (base64) del XML canónico exportado.
const HeaderReportDigest = "X-Report-Digest"

// ReportHandler reporte de stock y sus exportaciones.
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Stock godoc
// @Summary      Reporte de stock
// @Description  Agrupado por producto/ubicación con entradas, salidas, neto y rotación. El rango de fechas solo restringe las mutaciones sumadas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "ID del producto"
// @Param        location_id  query  string  false  "ID de la ubicación"
// @Param        category_id  query  int     false  "ID de la categoría"
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Success      200          {object}  dto.StockReportDTO
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/v1/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	in, err := parseReportFilters(c)
	if err != nil {
		return badRequest(c, "filtros inválidos")
	}
	out, err := h.uc.StockReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockPDF godoc
// @Summary      Reporte de stock en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        category_id  query  int     false  "ID de la categoría"
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/stock/pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	in, err := parseReportFilters(c)
	if err != nil {
		return badRequest(c, "filtros inválidos")
	}
	doc, err := h.uc.StockReportPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, "reporte-stock.pdf"))
	return c.Send(doc)
}

// StockXML godoc
// @Summary      Reporte de stock en XML
// @Description  El header X-Report-Digest lleva el SHA-256 en base64 de la forma canónica (C14N) del documento.
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Param        category_id  query  int     false  "ID de la categoría"
// @Param        start_date   query  string  false  "YYYY-MM-DD"
// @Param        end_date     query  string  false  "YYYY-MM-DD"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/reports/stock/xml [get]
func (h *ReportHandler) StockXML(c *fiber.Ctx) error {
	in, err := parseReportFilters(c)
	if err != nil {
		return badRequest(c, "filtros inválidos")
	}
	doc, digest, err := h.uc.StockReportXML(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	c.Set(HeaderReportDigest, digest)
	return c.Send(doc)
}

func parseReportFilters(c *fiber.Ctx) (dto.StockReportRequest, error) {
	var in dto.StockReportRequest
	err := c.QueryParser(&in)
	return in, err
}
