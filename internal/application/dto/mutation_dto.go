package dto

import "time"

// DateLayout formato de fecha (día calendario) de las mutaciones en la API.
const DateLayout = "2006-01-02"

// CreateMutationRequest body para POST /mutations.
type CreateMutationRequest struct {
	BalanceID int64  `json:"product_location_id"`
	Date      string `json:"date"`
	Kind      string `json:"type"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
}

// UpdateMutationRequest body para PUT /mutations/:id; los campos omitidos conservan su valor.
type UpdateMutationRequest struct {
	Date   *string `json:"date"`
	Kind   *string `json:"type"`
	Amount *int64  `json:"amount"`
	Note   *string `json:"note"`
}

// MutationFilterRequest filtros de GET /mutations (query string).
type MutationFilterRequest struct {
	PageRequest
	Kind       string `query:"type"`
	ProductID  string `query:"product_id"`
	LocationID string `query:"location_id"`
	From       string `query:"start_date"`
	To         string `query:"end_date"`
}

// MutationResponse salida de una mutación con su balance, producto y ubicación.
type MutationResponse struct {
	ID           int64     `json:"id"`
	BalanceID    int64     `json:"product_location_id"`
	Date         string    `json:"date"`
	Kind         string    `json:"type"`
	Amount       int64     `json:"amount"`
	Note         string    `json:"note"`
	UserID       string    `json:"user_id"`
	Quantity     int64     `json:"current_quantity"`
	ProductID    string    `json:"product_id"`
	ProductCode  string    `json:"product_code"`
	ProductName  string    `json:"product_name"`
	Unit         string    `json:"unit"`
	LocationID   string    `json:"location_id"`
	LocationCode string    `json:"location_code"`
	LocationName string    `json:"location_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MutationListResponse lista de mutaciones; Page solo en las vistas paginadas.
type MutationListResponse struct {
	Items []MutationResponse `json:"items"`
	Page  *PageResponse      `json:"page,omitempty"`
}
