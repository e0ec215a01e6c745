package entity

import "time"

// Balance es la cantidad actual de un producto en una ubicación (una fila por par producto/ubicación).
// Quantity nunca es negativa en un estado confirmado.
type Balance struct {
	ID         int64
	ProductID  string
	LocationID string
	Quantity   int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BalanceView es un Balance con los datos de producto y ubicación resueltos para lectura.
type BalanceView struct {
	Balance
	ProductCode  string
	ProductName  string
	ProductUnit  string
	LocationCode string
	LocationName string
}
