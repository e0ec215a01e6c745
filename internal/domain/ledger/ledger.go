// Package ledger contiene la aritmética pura del libro de stock (servicio de dominio sin I/O).
//
// Un balance es la suma de los efectos de sus mutaciones: +amount para "in", -amount para "out".
// Modificar una mutación se modela como deshacer el efecto anterior y aplicar el nuevo;
// eliminarla equivale a que nunca hubiera ocurrido.
package ledger

import (
	"errors"
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ErrOverflow indica que el balance resultante no cabe en un int64.
var ErrOverflow = errors.New("ledger: la cantidad excede el rango admitido")

// Effect devuelve el efecto con signo de una mutación sobre el balance.
func Effect(kind string, amount int64) int64 {
	if kind == entity.MutationKindOut {
		return -amount
	}
	return amount
}

// add suma a y b; falla con ErrOverflow si el resultado se sale de int64.
func add(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// Apply suma el efecto de (kind, amount) a quantity.
func Apply(quantity int64, kind string, amount int64) (int64, error) {
	return add(quantity, Effect(kind, amount))
}

// Reverse deshace el efecto de (kind, amount) sobre quantity.
func Reverse(quantity int64, kind string, amount int64) (int64, error) {
	if amount == math.MinInt64 {
		return 0, ErrOverflow
	}
	return add(quantity, -Effect(kind, amount))
}

// Amend calcula el balance final al reemplazar la mutación (oldKind, oldAmount) por (newKind, newAmount).
// Si un orden de los dos pasos desborda se prueba el otro; solo falla cuando el resultado final no cabe.
func Amend(quantity int64, oldKind string, oldAmount int64, newKind string, newAmount int64) (int64, error) {
	if q, err := Reverse(quantity, oldKind, oldAmount); err == nil {
		if final, err := Apply(q, newKind, newAmount); err == nil {
			return final, nil
		}
	}
	q, err := Apply(quantity, newKind, newAmount)
	if err != nil {
		return 0, err
	}
	return Reverse(q, oldKind, oldAmount)
}

// Net recalcula un balance desde cero a partir de sus mutaciones.
func Net(mutations []entity.Mutation) int64 {
	var q int64
	for _, m := range mutations {
		q += Effect(m.Kind, m.Amount)
	}
	return q
}
