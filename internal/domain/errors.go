package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidOperation   = errors.New("operación inválida")
	ErrStorage            = errors.New("error de almacenamiento")
)

// LedgerError es el resultado de rechazo del motor de mutaciones: un tipo (Kind, uno de los
// sentinelas de arriba) y un motivo legible. La causa técnica, si existe, no se expone en Error().
type LedgerError struct {
	Kind   error
	Reason string
	cause  error
}

func (e *LedgerError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Reason
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock) y similares.
func (e *LedgerError) Unwrap() error { return e.Kind }

// Cause devuelve el error técnico original (solo para logs).
func (e *LedgerError) Cause() error { return e.cause }

// NotFound construye un rechazo ErrNotFound.
func NotFound(reason string) *LedgerError {
	return &LedgerError{Kind: ErrNotFound, Reason: reason}
}

// InsufficientStock construye un rechazo ErrInsufficientStock.
func InsufficientStock(reason string) *LedgerError {
	return &LedgerError{Kind: ErrInsufficientStock, Reason: reason}
}

// InvalidOperation construye un rechazo ErrInvalidOperation.
func InvalidOperation(reason string) *LedgerError {
	return &LedgerError{Kind: ErrInvalidOperation, Reason: reason}
}

// Storage envuelve un fallo de persistencia. El motivo es genérico; cause queda para el log.
func Storage(cause error) *LedgerError {
	return &LedgerError{
		Kind:   ErrStorage,
		Reason: "no se pudo completar la operación en el almacenamiento",
		cause:  cause,
	}
}

// AsLedgerError normaliza cualquier error devuelto dentro de una transacción:
// los LedgerError pasan tal cual y el resto se trata como fallo de almacenamiento.
func AsLedgerError(err error) *LedgerError {
	if err == nil {
		return nil
	}
	var le *LedgerError
	if errors.As(err, &le) {
		return le
	}
	return Storage(err)
}
