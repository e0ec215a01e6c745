package entity

import "time"

// Tipos de mutación de stock.
const (
	MutationKindIn  = "in"  // entrada
	MutationKindOut = "out" // salida
)

// ValidMutationKind indica si kind es uno de los tipos admitidos.
func ValidMutationKind(kind string) bool {
	return kind == MutationKindIn || kind == MutationKindOut
}

// Mutation es un movimiento de stock (entrada o salida) sobre un Balance.
// Amount siempre es positivo; el signo lo da Kind.
type Mutation struct {
	ID        int64
	BalanceID int64
	Date      time.Time // solo fecha (día calendario)
	Kind      string
	Amount    int64
	Note      string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MutationView es una Mutation con su balance, producto y ubicación resueltos (vistas de consulta).
type MutationView struct {
	Mutation
	Quantity     int64 // cantidad actual del balance
	ProductID    string
	ProductCode  string
	ProductName  string
	ProductUnit  string
	LocationID   string
	LocationCode string
	LocationName string
}
