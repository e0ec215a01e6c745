package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CategoryID  *int64 `json:"category_id"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock se maneja vía mutaciones).
type UpdateProductRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	CategoryID  *int64  `json:"category_id"`
	Unit        *string `json:"unit"`
	Description *string `json:"description"`
}

// ProductFilterRequest filtros del listado de productos (query string).
type ProductFilterRequest struct {
	PageRequest
	CategoryID int64  `query:"category_id"`
	Search     string `query:"search"`
	WithStock  bool   `query:"with_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CategoryID  *int64    `json:"category_id"`
	Unit        string    `json:"unit"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
