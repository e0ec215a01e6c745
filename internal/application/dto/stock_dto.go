package dto

import "time"

// SetBalanceRequest body para POST /stock: fija la cantidad del par producto/ubicación.
type SetBalanceRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Quantity   *int64 `json:"quantity"`
}

// OverrideBalanceRequest body para PUT /stock/:id.
type OverrideBalanceRequest struct {
	Quantity *int64 `json:"quantity"`
}

// BalancePairRequest body para POST /stock/get.
type BalancePairRequest struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
}

// BalanceResponse salida de un balance con producto y ubicación.
type BalanceResponse struct {
	ID           int64     `json:"id"`
	ProductID    string    `json:"product_id"`
	ProductCode  string    `json:"product_code,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	LocationID   string    `json:"location_id"`
	LocationCode string    `json:"location_code,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Quantity     int64     `json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BalanceListResponse lista de balances; Page es nil en los listados no paginados.
type BalanceListResponse struct {
	Items []BalanceResponse `json:"items"`
	Page  *PageResponse     `json:"page,omitempty"`
}

// BalanceVerificationResponse compara la cantidad guardada con la recalculada desde las mutaciones.
type BalanceVerificationResponse struct {
	BalanceID        int64 `json:"balance_id"`
	StoredQuantity   int64 `json:"stored_quantity"`
	TotalIn          int64 `json:"total_in"`
	TotalOut         int64 `json:"total_out"`
	ComputedQuantity int64 `json:"computed_quantity"`
	Consistent       bool  `json:"consistent"`
}
