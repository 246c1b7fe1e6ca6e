package repository

import (
	"context"
	"testing"

	"github.com/jattu8602/ek-sub000/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuestCartStore_Upsert(t *testing.T) {
	store := NewMemoryGuestCartStore()
	ctx := context.Background()

	lines, err := store.Upsert(ctx, "tok", model.GuestCartLine{
		ProductID: 1, UnitID: 2, Quantity: 1, SelectedUnit: "1 kg",
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	t.Run("Same product and unit merges quantities", func(t *testing.T) {
		lines, err := store.Upsert(ctx, "tok", model.GuestCartLine{
			ProductID: 1, UnitID: 2, Quantity: 2, SelectedUnit: "1 kg",
		})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("Different unit adds a new line", func(t *testing.T) {
		lines, err := store.Upsert(ctx, "tok", model.GuestCartLine{
			ProductID: 1, UnitID: 3, Quantity: 1, SelectedUnit: "5 kg",
		})
		require.NoError(t, err)
		assert.Len(t, lines, 2)
	})

	t.Run("Tokens are isolated", func(t *testing.T) {
		lines, err := store.Get(ctx, "other")
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestMemoryGuestCartStore_SetQuantity(t *testing.T) {
	store := NewMemoryGuestCartStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, "tok", model.GuestCartLine{
		ProductID: 1, UnitID: 2, Quantity: 5,
	})
	require.NoError(t, err)

	lines, err := store.SetQuantity(ctx, "tok", 1, 2, 3)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	t.Run("Zero quantity removes the line", func(t *testing.T) {
		lines, err := store.SetQuantity(ctx, "tok", 1, 2, 0)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestMemoryGuestCartStore_Remove(t *testing.T) {
	store := NewMemoryGuestCartStore()
	ctx := context.Background()

	_, err := store.Upsert(ctx, "tok", model.GuestCartLine{ProductID: 1, UnitID: 2, Quantity: 1})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "tok", model.GuestCartLine{ProductID: 1, UnitID: 3, Quantity: 1})
	require.NoError(t, err)

	lines, err := store.Remove(ctx, "tok", 1, 2)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, uint(3), lines[0].UnitID)
}

func TestMemoryGuestCartStore_AcquireMigration(t *testing.T) {
	store := NewMemoryGuestCartStore()
	ctx := context.Background()

	acquired, err := store.AcquireMigration(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, acquired)

	// Second attempt for the same token never wins
	acquired, err = store.AcquireMigration(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, acquired)

	acquired, err = store.AcquireMigration(ctx, "other")
	require.NoError(t, err)
	assert.True(t, acquired)
}
