package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestHasCode(t *testing.T) {
	unique := fmt.Errorf("create product: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isForeignKeyViolation(unique))

	// El texto del error no cuenta: solo el código de un *pgconn.PgError.
	assert.False(t, isUniqueViolation(errors.New("pedido 23505 rechazado")))
	assert.False(t, isForeignKeyViolation(errors.New("falló la referencia 23503")))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID(productUUID))
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID(""))
}

// Con un id que no es UUID los repositorios responden "no encontrado" sin tocar la base
// (el Querier es nil: cualquier consulta haría panic).
func TestRepos_IDNoUUIDSinConsultar(t *testing.T) {
	ctx := context.Background()

	p, err := NewProductRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, NewProductRepository(nil).Delete(ctx, "abc"), domain.ErrNotFound)

	l, err := NewLocationRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.ErrorIs(t, NewLocationRepository(nil).Delete(ctx, "abc"), domain.ErrNotFound)

	u, err := NewUserRepository(nil).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	balances := NewBalanceRepository(nil)
	b, err := balances.GetByPair(ctx, "abc", locationUUID)
	require.NoError(t, err)
	assert.Nil(t, b)
	v, err := balances.GetViewByPair(ctx, productUUID, "abc")
	require.NoError(t, err)
	assert.Nil(t, v)
	list, err := balances.ListByProduct(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = balances.ListByLocation(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, list)
}
