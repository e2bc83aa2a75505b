package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	db := newTestDatabase(t).DB
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	c := seedCustomer(t, db)

	t.Run("FindByUserID", func(t *testing.T) {
		found, err := repo.FindByUserID(ctx, c.UserID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		assert.Equal(t, customer.MembershipBronze, found.Membership)

		_, err = repo.FindByUserID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("addresses are saved with the customer", func(t *testing.T) {
		_, err := c.AddAddress("1 Main St", "Springfield", "12345")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))

		found, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, found.Addresses, 1)
		assert.Equal(t, "Springfield", found.Addresses[0].City)
	})

	t.Run("one profile per user", func(t *testing.T) {
		dup, err := customer.NewCustomer(c.UserID, "555-0199")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)

		exists, err := repo.ExistsByUserID(ctx, c.UserID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("FindAll", func(t *testing.T) {
		seedCustomer(t, db)
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
