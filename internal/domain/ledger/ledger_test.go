package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestEffect(t *testing.T) {
	assert.Equal(t, int64(5), ledger.Effect(entity.MutationKindIn, 5))
	assert.Equal(t, int64(-5), ledger.Effect(entity.MutationKindOut, 5))
}

func TestApplyAndReverse_SonInversas(t *testing.T) {
	for _, kind := range []string{entity.MutationKindIn, entity.MutationKindOut} {
		q, err := ledger.Apply(10, kind, 7)
		require.NoError(t, err)
		back, err := ledger.Reverse(q, kind, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(10), back, "kind=%s", kind)
	}
}

// Balance 5, mutación M in 5 (balance 10). Cambiar M a out 3: revierte +5 (5) y aplica -3 (2).
func TestAmend_CambioDeTipo(t *testing.T) {
	got, err := ledger.Amend(10, entity.MutationKindIn, 5, entity.MutationKindOut, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestAmend_MismosValoresNoCambiaNada(t *testing.T) {
	got, err := ledger.Amend(42, entity.MutationKindOut, 9, entity.MutationKindOut, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestNet(t *testing.T) {
	muts := []entity.Mutation{
		{Kind: entity.MutationKindIn, Amount: 10},
		{Kind: entity.MutationKindOut, Amount: 4},
		{Kind: entity.MutationKindIn, Amount: 1},
	}
	assert.Equal(t, int64(7), ledger.Net(muts))
	assert.Equal(t, int64(0), ledger.Net(nil))
}

func TestApply_Desbordamiento(t *testing.T) {
	_, err := ledger.Apply(1, entity.MutationKindIn, math.MaxInt64)
	assert.ErrorIs(t, err, ledger.ErrOverflow)

	_, err = ledger.Apply(math.MinInt64+1, entity.MutationKindOut, 2)
	assert.ErrorIs(t, err, ledger.ErrOverflow)

	q, err := ledger.Apply(0, entity.MutationKindIn, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), q)
}

func TestReverse_Desbordamiento(t *testing.T) {
	_, err := ledger.Reverse(math.MaxInt64, entity.MutationKindOut, 1)
	assert.ErrorIs(t, err, ledger.ErrOverflow)
}

func TestAmend_PasoIntermedioNoDesborda(t *testing.T) {
	// Revertir la salida primero pasaría de MaxInt64; aplicar antes la nueva salida no.
	got, err := ledger.Amend(math.MaxInt64, entity.MutationKindOut, 5, entity.MutationKindOut, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-5), got)

	_, err = ledger.Amend(math.MaxInt64-1, entity.MutationKindIn, 1, entity.MutationKindIn, 3)
	assert.ErrorIs(t, err, ledger.ErrOverflow)
}
