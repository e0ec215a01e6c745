package sqlite

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type balanceRow struct {
	ID         int64     `db:"id"`
	ProductID  string    `db:"product_id"`
	LocationID string    `db:"location_id"`
	Quantity   int64     `db:"quantity"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r balanceRow) entity() *entity.Balance {
	return &entity.Balance{
		ID:         r.ID,
		ProductID:  r.ProductID,
		LocationID: r.LocationID,
		Quantity:   r.Quantity,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type balanceViewRow struct {
	balanceRow
	ProductCode  string `db:"product_code"`
	ProductName  string `db:"product_name"`
	ProductUnit  string `db:"product_unit"`
	LocationCode string `db:"location_code"`
	LocationName string `db:"location_name"`
}

func (r balanceViewRow) view() *entity.BalanceView {
	return &entity.BalanceView{
		Balance:      *r.balanceRow.entity(),
		ProductCode:  r.ProductCode,
		ProductName:  r.ProductName,
		ProductUnit:  r.ProductUnit,
		LocationCode: r.LocationCode,
		LocationName: r.LocationName,
	}
}

type mutationRow struct {
	ID        int64     `db:"id"`
	BalanceID int64     `db:"product_location_id"`
	Date      time.Time `db:"date"`
	Kind      string    `db:"kind"`
	Amount    int64     `db:"amount"`
	Note      string    `db:"note"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r mutationRow) entity() *entity.Mutation {
	return &entity.Mutation{
		ID:        r.ID,
		BalanceID: r.BalanceID,
		Date:      r.Date.UTC(),
		Kind:      r.Kind,
		Amount:    r.Amount,
		Note:      r.Note,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type mutationViewRow struct {
	mutationRow
	Quantity     int64  `db:"quantity"`
	ProductID    string `db:"product_id"`
	ProductCode  string `db:"product_code"`
	ProductName  string `db:"product_name"`
	ProductUnit  string `db:"product_unit"`
	LocationID   string `db:"location_id"`
	LocationCode string `db:"location_code"`
	LocationName string `db:"location_name"`
}

func (r mutationViewRow) view() *entity.MutationView {
	return &entity.MutationView{
		Mutation:     *r.mutationRow.entity(),
		Quantity:     r.Quantity,
		ProductID:    r.ProductID,
		ProductCode:  r.ProductCode,
		ProductName:  r.ProductName,
		ProductUnit:  r.ProductUnit,
		LocationID:   r.LocationID,
		LocationCode: r.LocationCode,
		LocationName: r.LocationName,
	}
}

type productRow struct {
	ID          string    `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	CategoryID  *int64    `db:"category_id"`
	Unit        string    `db:"unit"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r productRow) entity() *entity.Product {
	return &entity.Product{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		CategoryID:  r.CategoryID,
		Unit:        r.Unit,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type locationRow struct {
	ID          string    `db:"id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r locationRow) entity() *entity.Location {
	return &entity.Location{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type categoryRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r categoryRow) entity() *entity.Category {
	return &entity.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type userRow struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r userRow) entity() *entity.User {
	return &entity.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		LastLoginAt:  r.LastLoginAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
