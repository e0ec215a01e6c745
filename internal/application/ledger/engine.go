// Package ledger implementa el motor de mutaciones de stock: el único escritor de mutaciones y
// de cantidades de balance. Cada operación corre en una sola transacción con la fila del balance
// bloqueada (SELECT ... FOR UPDATE) y hace Commit o Rollback completo.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Engine motor de mutaciones de stock.
type Engine struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewEngine construye el motor.
func NewEngine(txRunner TxRunner, log zerolog.Logger) *Engine {
	return &Engine{
		txRunner: txRunner,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      time.Now,
	}
}

// CreateMutationInput entrada para registrar una mutación. Kind es "in" u "out"; Amount > 0.
type CreateMutationInput struct {
	BalanceID int64
	Date      time.Time
	Kind      string
	Amount    int64
	Note      string
	UserID    string
}

// UpdateMutationInput campos modificables de una mutación; nil conserva el valor actual.
type UpdateMutationInput struct {
	Date   *time.Time
	Kind   *string
	Amount *int64
	Note   *string
}

// MutationResult mutación persistida con su balance (cantidad ya actualizada), producto y ubicación.
type MutationResult struct {
	Mutation *entity.Mutation
	Balance  *entity.Balance
	Product  *entity.Product
	Location *entity.Location
}

// CreateMutation bloquea el balance, verifica que la salida no lo deje negativo, inserta la mutación
// y actualiza la cantidad, todo en la misma transacción.
func (e *Engine) CreateMutation(ctx context.Context, in CreateMutationInput) (*MutationResult, error) {
	if !entity.ValidMutationKind(in.Kind) {
		return nil, domain.InvalidOperation(fmt.Sprintf("tipo de mutación inválido: %q", in.Kind))
	}
	if in.Amount <= 0 {
		return nil, domain.InvalidOperation("la cantidad debe ser mayor que cero")
	}
	if in.UserID == "" {
		return nil, domain.InvalidOperation("la mutación requiere un usuario")
	}

	var res *MutationResult
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		mutationRepo repository.MutationRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error {
		balance, err := balanceRepo.GetForUpdate(ctx, in.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.NotFound("balance no encontrado")
		}

		next, err := domainledger.Apply(balance.Quantity, in.Kind, in.Amount)
		if err != nil {
			return overflow(err)
		}
		if next < 0 {
			return domain.InsufficientStock(fmt.Sprintf(
				"stock insuficiente: disponible %d, solicitado %d", balance.Quantity, in.Amount))
		}

		now := e.now()
		m := &entity.Mutation{
			BalanceID: balance.ID,
			Date:      mutationDay(in.Date, now),
			Kind:      in.Kind,
			Amount:    in.Amount,
			Note:      in.Note,
			UserID:    in.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := mutationRepo.Create(ctx, m); err != nil {
			return err
		}
		if err := balanceRepo.UpdateQuantity(ctx, balance.ID, next); err != nil {
			return err
		}
		balance.Quantity = next
		balance.UpdatedAt = now

		res, err = resolve(ctx, productRepo, locationRepo, m, balance)
		return err
	})
	if err != nil {
		return nil, e.reject("create_mutation", err)
	}
	return res, nil
}

// UpdateMutation revierte el efecto anterior de la mutación y aplica el nuevo sobre el balance bloqueado.
// La mutación se relee bajo el bloqueo del balance: el orden de bloqueo es siempre balance y luego mutación.
func (e *Engine) UpdateMutation(ctx context.Context, id int64, in UpdateMutationInput) (*MutationResult, error) {
	if in.Kind != nil && !entity.ValidMutationKind(*in.Kind) {
		return nil, domain.InvalidOperation(fmt.Sprintf("tipo de mutación inválido: %q", *in.Kind))
	}
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, domain.InvalidOperation("la cantidad debe ser mayor que cero")
	}

	var res *MutationResult
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		mutationRepo repository.MutationRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error {
		balance, old, err := lockMutation(ctx, balanceRepo, mutationRepo, id)
		if err != nil {
			return err
		}

		updated := *old
		if in.Date != nil {
			updated.Date = mutationDay(*in.Date, e.now())
		}
		if in.Kind != nil {
			updated.Kind = *in.Kind
		}
		if in.Amount != nil {
			updated.Amount = *in.Amount
		}
		if in.Note != nil {
			updated.Note = *in.Note
		}

		final, err := domainledger.Amend(balance.Quantity, old.Kind, old.Amount, updated.Kind, updated.Amount)
		if err != nil {
			return overflow(err)
		}
		if final < 0 {
			return domain.InvalidOperation(fmt.Sprintf(
				"la modificación dejaría el stock en negativo (%d)", final))
		}

		now := e.now()
		updated.UpdatedAt = now
		if err := mutationRepo.Update(ctx, &updated); err != nil {
			return err
		}
		if err := balanceRepo.UpdateQuantity(ctx, balance.ID, final); err != nil {
			return err
		}
		balance.Quantity = final
		balance.UpdatedAt = now

		res, err = resolve(ctx, productRepo, locationRepo, &updated, balance)
		return err
	})
	if err != nil {
		return nil, e.reject("update_mutation", err)
	}
	return res, nil
}

// DeleteMutation deshace el efecto de la mutación sobre su balance y la elimina.
// Se rechaza si el balance quedaría negativo (p. ej. una entrada ya consumida por salidas posteriores).
func (e *Engine) DeleteMutation(ctx context.Context, id int64) error {
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		mutationRepo repository.MutationRepository,
		_ repository.ProductRepository,
		_ repository.LocationRepository,
	) error {
		balance, old, err := lockMutation(ctx, balanceRepo, mutationRepo, id)
		if err != nil {
			return err
		}

		reversed, err := domainledger.Reverse(balance.Quantity, old.Kind, old.Amount)
		if err != nil {
			return overflow(err)
		}
		if reversed < 0 {
			return domain.InvalidOperation(fmt.Sprintf(
				"eliminar la mutación dejaría el stock en negativo (%d)", reversed))
		}
		if err := balanceRepo.UpdateQuantity(ctx, balance.ID, reversed); err != nil {
			return err
		}
		return mutationRepo.Delete(ctx, old.ID)
	})
	if err != nil {
		return e.reject("delete_mutation", err)
	}
	return nil
}

// SetBalance fija la cantidad del par producto/ubicación (insert o update en sitio) sin generar mutación.
func (e *Engine) SetBalance(ctx context.Context, productID, locationID string, quantity int64) (*entity.Balance, error) {
	if quantity < 0 {
		return nil, domain.InvalidOperation("la cantidad no puede ser negativa")
	}

	var out *entity.Balance
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MutationRepository,
		productRepo repository.ProductRepository,
		locationRepo repository.LocationRepository,
	) error {
		product, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("producto no encontrado")
		}
		location, err := locationRepo.GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if location == nil {
			return domain.NotFound("ubicación no encontrada")
		}

		now := e.now()
		b := &entity.Balance{
			ProductID:  productID,
			LocationID: locationID,
			Quantity:   quantity,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := balanceRepo.Upsert(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, e.reject("set_balance", err)
	}
	return out, nil
}

// OverrideBalance fija la cantidad de un balance existente identificado por su id, sin generar mutación.
func (e *Engine) OverrideBalance(ctx context.Context, balanceID, quantity int64) (*entity.Balance, error) {
	if quantity < 0 {
		return nil, domain.InvalidOperation("la cantidad no puede ser negativa")
	}

	var out *entity.Balance
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MutationRepository,
		_ repository.ProductRepository,
		_ repository.LocationRepository,
	) error {
		b, err := balanceRepo.GetForUpdate(ctx, balanceID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NotFound("balance no encontrado")
		}
		if err := balanceRepo.UpdateQuantity(ctx, b.ID, quantity); err != nil {
			return err
		}
		b.Quantity = quantity
		b.UpdatedAt = e.now()
		out = b
		return nil
	})
	if err != nil {
		return nil, e.reject("override_balance", err)
	}
	return out, nil
}

// DeleteBalance elimina un balance y, por la FK en cascada, todas sus mutaciones.
func (e *Engine) DeleteBalance(ctx context.Context, balanceID int64) error {
	err := e.txRunner.Run(ctx, func(
		balanceRepo repository.BalanceRepository,
		_ repository.MutationRepository,
		_ repository.ProductRepository,
		_ repository.LocationRepository,
	) error {
		b, err := balanceRepo.GetForUpdate(ctx, balanceID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NotFound("balance no encontrado")
		}
		return balanceRepo.Delete(ctx, b.ID)
	})
	if err != nil {
		return e.reject("delete_balance", err)
	}
	return nil
}

// lockMutation localiza la mutación, bloquea su balance y la relee bloqueada.
func lockMutation(
	ctx context.Context,
	balanceRepo repository.BalanceRepository,
	mutationRepo repository.MutationRepository,
	id int64,
) (*entity.Balance, *entity.Mutation, error) {
	current, err := mutationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		return nil, nil, domain.NotFound("mutación no encontrada")
	}
	balance, err := balanceRepo.GetForUpdate(ctx, current.BalanceID)
	if err != nil {
		return nil, nil, err
	}
	if balance == nil {
		return nil, nil, domain.NotFound("balance no encontrado")
	}
	// Otra transacción pudo modificarla o eliminarla antes de obtener el bloqueo.
	locked, err := mutationRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if locked == nil {
		return nil, nil, domain.NotFound("mutación no encontrada")
	}
	return balance, locked, nil
}

// resolve completa el resultado con producto y ubicación, buscados a partir del balance.
func resolve(
	ctx context.Context,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	m *entity.Mutation,
	b *entity.Balance,
) (*MutationResult, error) {
	product, err := productRepo.GetByID(ctx, b.ProductID)
	if err != nil {
		return nil, err
	}
	location, err := locationRepo.GetByID(ctx, b.LocationID)
	if err != nil {
		return nil, err
	}
	return &MutationResult{Mutation: m, Balance: b, Product: product, Location: location}, nil
}

// reject normaliza err a *domain.LedgerError y registra los fallos de almacenamiento con su causa.
func (e *Engine) reject(op string, err error) error {
	le := domain.AsLedgerError(err)
	if errors.Is(le, domain.ErrStorage) {
		e.log.Error().Err(le.Cause()).Str("op", op).Msg("fallo de almacenamiento, transacción revertida")
		return le
	}
	e.log.Debug().Str("op", op).Str("reason", le.Reason).Msg("operación rechazada")
	return le
}

// overflow traduce un desbordamiento del cálculo del balance a operación inválida.
func overflow(err error) error {
	return domain.InvalidOperation(err.Error())
}

// mutationDay recorta t al día calendario; un t cero se interpreta como hoy.
func mutationDay(t, now time.Time) time.Time {
	if t.IsZero() {
		t = now
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
