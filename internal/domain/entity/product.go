package entity

import "time"

// Product representa un producto del catálogo. El stock no vive aquí: se maneja por ubicación en Balance.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	CategoryID  *int64 // nil si no tiene categoría
	Unit        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
