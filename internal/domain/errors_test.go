package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestLedgerError_IsKind(t *testing.T) {
	err := error(domain.InsufficientStock("stock insuficiente para la salida"))
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "stock insuficiente para la salida", err.Error())
}

func TestStorage_NoExponeCausa(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3:5432")
	err := domain.Storage(cause)

	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.NotContains(t, err.Error(), "10.0.0.3")
	assert.Equal(t, cause, err.Cause())
}

func TestAsLedgerError(t *testing.T) {
	assert.Nil(t, domain.AsLedgerError(nil))

	rejected := domain.InvalidOperation("quedaría negativo")
	wrapped := fmt.Errorf("tx: %w", rejected)
	got := domain.AsLedgerError(wrapped)
	require.NotNil(t, got)
	assert.Same(t, rejected, got)

	raw := domain.AsLedgerError(errors.New("commit transaction: timeout"))
	require.NotNil(t, raw)
	assert.True(t, errors.Is(raw, domain.ErrStorage))
}
