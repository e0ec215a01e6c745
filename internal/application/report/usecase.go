// Package report contiene la capa de consulta: vistas de mutaciones, reporte de stock,
// verificación de balances y exportaciones. Es de solo lectura.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// UseCase casos de uso de consulta y reportes.
type UseCase struct {
	mutationRepo repository.MutationRepository
	balanceRepo  repository.BalanceRepository
	reportRepo   repository.ReportRepository
	pdf          PDFRenderer
	xml          XMLRenderer
	title        string
	now          func() time.Time
}

// NewUseCase construye el caso de uso. pdf y xml pueden ser nil si no se exponen exportaciones.
func NewUseCase(
	mutationRepo repository.MutationRepository,
	balanceRepo repository.BalanceRepository,
	reportRepo repository.ReportRepository,
	pdf PDFRenderer,
	xml XMLRenderer,
	title string,
) *UseCase {
	if title == "" {
		title = "Reporte de stock"
	}
	return &UseCase{
		mutationRepo: mutationRepo,
		balanceRepo:  balanceRepo,
		reportRepo:   reportRepo,
		pdf:          pdf,
		xml:          xml,
		title:        title,
		now:          time.Now,
	}
}

// ── Vistas de mutaciones ─────────────────────────────────────────────────────

// GetMutation obtiene una mutación con sus relaciones; nil si no existe.
func (uc *UseCase) GetMutation(ctx context.Context, id int64) (*dto.MutationResponse, error) {
	v, err := uc.mutationRepo.GetView(ctx, id)
	if err != nil || v == nil {
		return nil, err
	}
	return toMutationResponse(v), nil
}

// ListByKind mutaciones de un tipo, con rango de fechas, producto y ubicación opcionales.
func (uc *UseCase) ListByKind(ctx context.Context, in dto.MutationFilterRequest) (*dto.MutationListResponse, error) {
	if !entity.ValidMutationKind(in.Kind) {
		return nil, fmt.Errorf("%w: tipo de mutación inválido", domain.ErrInvalidInput)
	}
	from, to, err := ParseDateRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.MutationFilter{
		Kind:       in.Kind,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		From:       from,
		To:         to,
	})
}

// ListByBalance mutaciones de un balance.
func (uc *UseCase) ListByBalance(ctx context.Context, balanceID int64) (*dto.MutationListResponse, error) {
	return uc.list(ctx, repository.MutationFilter{BalanceID: balanceID})
}

// ListByDateRange mutaciones entre dos fechas (inclusive); ambas son obligatorias.
func (uc *UseCase) ListByDateRange(ctx context.Context, fromStr, toStr string) (*dto.MutationListResponse, error) {
	if fromStr == "" || toStr == "" {
		return nil, fmt.Errorf("%w: start_date y end_date son obligatorios", domain.ErrInvalidInput)
	}
	from, to, err := ParseDateRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.MutationFilter{From: from, To: to})
}

// ListAll todas las mutaciones, paginadas.
func (uc *UseCase) ListAll(ctx context.Context, page dto.PageRequest) (*dto.MutationListResponse, error) {
	return uc.page(ctx, repository.MutationFilter{}, page)
}

// UserHistory historial paginado de las mutaciones registradas por un usuario.
func (uc *UseCase) UserHistory(ctx context.Context, userID string, page dto.PageRequest) (*dto.MutationListResponse, error) {
	return uc.page(ctx, repository.MutationFilter{UserID: userID}, page)
}

// ProductHistory historial paginado de las mutaciones de un producto en todas sus ubicaciones.
func (uc *UseCase) ProductHistory(ctx context.Context, productID string, page dto.PageRequest) (*dto.MutationListResponse, error) {
	return uc.page(ctx, repository.MutationFilter{ProductID: productID}, page)
}

func (uc *UseCase) list(ctx context.Context, f repository.MutationFilter) (*dto.MutationListResponse, error) {
	views, err := uc.mutationRepo.List(ctx, f, 0, 0)
	if err != nil {
		return nil, err
	}
	return &dto.MutationListResponse{Items: toMutationResponses(views)}, nil
}

func (uc *UseCase) page(ctx context.Context, f repository.MutationFilter, page dto.PageRequest) (*dto.MutationListResponse, error) {
	views, err := uc.mutationRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.mutationRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.MutationListResponse{
		Items: toMutationResponses(views),
		Page:  &dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ── Verificación ─────────────────────────────────────────────────────────────

// VerifyBalance recalcula Σin − Σout del balance y lo compara con la cantidad guardada.
func (uc *UseCase) VerifyBalance(ctx context.Context, balanceID int64) (*dto.BalanceVerificationResponse, error) {
	b, err := uc.balanceRepo.GetByID(ctx, balanceID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	totalIn, totalOut, err := uc.mutationRepo.Totals(ctx, balanceID)
	if err != nil {
		return nil, err
	}
	computed := totalIn - totalOut
	return &dto.BalanceVerificationResponse{
		BalanceID:        b.ID,
		StoredQuantity:   b.Quantity,
		TotalIn:          totalIn,
		TotalOut:         totalOut,
		ComputedQuantity: computed,
		Consistent:       computed == b.Quantity,
	}, nil
}

// ── Reporte de stock ─────────────────────────────────────────────────────────

// StockReport reporte agregado por par producto/ubicación con totales generales.
func (uc *UseCase) StockReport(ctx context.Context, in dto.StockReportRequest) (*dto.StockReportDTO, error) {
	from, to, err := ParseDateRange(in.From, in.To)
	if err != nil {
		return nil, err
	}
	f := repository.StockReportFilter{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		From:       from,
		To:         to,
	}
	if in.CategoryID > 0 {
		f.CategoryID = &in.CategoryID
	}

	rows, err := uc.reportRepo.StockReport(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &dto.StockReportDTO{
		Title:       uc.title,
		GeneratedAt: uc.now(),
		Filters:     in,
		Rows:        make([]dto.StockReportRowDTO, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.StockReportRowDTO{
			ProductID:    r.ProductID,
			ProductCode:  r.ProductCode,
			ProductName:  r.ProductName,
			CategoryName: r.CategoryName,
			LocationID:   r.LocationID,
			LocationCode: r.LocationCode,
			LocationName: r.LocationName,
			Quantity:     r.Quantity,
			TotalIn:      r.TotalIn,
			TotalOut:     r.TotalOut,
			NetMovement:  r.NetMovement(),
			RotationPct:  r.RotationPct,
		})
		out.Totals.Quantity += r.Quantity
		out.Totals.TotalIn += r.TotalIn
		out.Totals.TotalOut += r.TotalOut
	}
	out.Totals.Pairs = len(rows)
	out.Totals.NetMovement = out.Totals.TotalIn - out.Totals.TotalOut
	out.Totals.RotationPct = RotationPct(out.Totals.TotalIn, out.Totals.TotalOut)
	return out, nil
}

// StockReportPDF genera el reporte y lo renderiza en PDF.
func (uc *UseCase) StockReportPDF(ctx context.Context, in dto.StockReportRequest) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("exportación PDF no configurada")
	}
	r, err := uc.StockReport(ctx, in)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderStockReport(r)
}

// StockReportXML genera el reporte en XML junto con su digest.
func (uc *UseCase) StockReportXML(ctx context.Context, in dto.StockReportRequest) ([]byte, string, error) {
	if uc.xml == nil {
		return nil, "", fmt.Errorf("exportación XML no configurada")
	}
	r, err := uc.StockReport(ctx, in)
	if err != nil {
		return nil, "", err
	}
	return uc.xml.RenderStockReport(r)
}

// RotationPct salidas / entradas × 100 con 2 decimales; 0 si no hubo entradas.
func RotationPct(totalIn, totalOut int64) decimal.Decimal {
	if totalIn == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(totalOut).Mul(hundred).Div(decimal.NewFromInt(totalIn)).Round(2)
}

// ParseDateRange interpreta fechas opcionales 2006-01-02 (UTC). Un rango invertido es inválido.
func ParseDateRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		t, err := time.Parse(dto.DateLayout, fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: start_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		from = &t
	}
	if toStr != "" {
		t, err := time.Parse(dto.DateLayout, toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: end_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: end_date anterior a start_date", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func toMutationResponses(views []*entity.MutationView) []dto.MutationResponse {
	items := make([]dto.MutationResponse, 0, len(views))
	for _, v := range views {
		items = append(items, *toMutationResponse(v))
	}
	return items
}

func toMutationResponse(v *entity.MutationView) *dto.MutationResponse {
	return &dto.MutationResponse{
		ID:           v.ID,
		BalanceID:    v.BalanceID,
		Date:         v.Date.Format(dto.DateLayout),
		Kind:         v.Kind,
		Amount:       v.Amount,
		Note:         v.Note,
		UserID:       v.UserID,
		Quantity:     v.Quantity,
		ProductID:    v.ProductID,
		ProductCode:  v.ProductCode,
		ProductName:  v.ProductName,
		Unit:         v.ProductUnit,
		LocationID:   v.LocationID,
		LocationCode: v.LocationCode,
		LocationName: v.LocationName,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
