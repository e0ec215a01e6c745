package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const defaultUnit = "und"

// ProductUseCase casos de uso CRUD para productos. El stock se maneja por ubicación vía balances y mutaciones.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// Create crea un nuevo producto. Código y nombre obligatorios; el código es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		CategoryID:  in.CategoryID,
		Unit:        unit,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No toca el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.ErrInvalidInput
		}
		if code != product.Code {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		product.Code = code
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID
	}
	if in.Unit != nil && strings.TrimSpace(*in.Unit) != "" {
		product.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros (categoría, búsqueda, solo con stock) y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	f := repository.ProductFilter{
		Search:    strings.TrimSpace(in.Search),
		WithStock: in.WithStock,
	}
	if in.CategoryID > 0 {
		f.CategoryID = &in.CategoryID
	}
	return listProducts(ctx, uc.repo, f, in.PageRequest)
}

// Search busca productos por nombre o código. q vacío es inválido.
func (uc *ProductUseCase) Search(ctx context.Context, q string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.ErrInvalidInput
	}
	return listProducts(ctx, uc.repo, repository.ProductFilter{Search: q}, page)
}

// Delete elimina un producto junto con sus balances y mutaciones.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	category, err := uc.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func listProducts(ctx context.Context, repo repository.ProductRepository, f repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	list, err := repo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Unit:        p.Unit,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
