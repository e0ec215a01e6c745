package entity

import "time"

// Location representa una ubicación física de almacenamiento (bodega, estante, sucursal).
type Location struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
