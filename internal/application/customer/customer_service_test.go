package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]customer.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates profile", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		userID := uuid.New()
		birthDate := "1990-04-01"

		repo.On("ExistsByUserID", ctx, userID).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		result, err := svc.Create(ctx, CreateCustomerRequest{UserID: userID, Phone: "555-0100", BirthDate: &birthDate, Membership: "S"})
		require.NoError(t, err)
		assert.Equal(t, userID, result.UserID)
		assert.Equal(t, "S", result.Membership)
		require.NotNil(t, result.BirthDate)
		assert.Equal(t, "1990-04-01", *result.BirthDate)
	})

	t.Run("defaults membership to bronze", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		userID := uuid.New()

		repo.On("ExistsByUserID", ctx, userID).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*customer.Customer")).Return(nil)

		result, err := svc.Create(ctx, CreateCustomerRequest{UserID: userID, Phone: "555-0100"})
		require.NoError(t, err)
		assert.Equal(t, "B", result.Membership)
		assert.Nil(t, result.BirthDate)
	})

	t.Run("rejects second profile for the same user", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		userID := uuid.New()

		repo.On("ExistsByUserID", ctx, userID).Return(true, nil)

		_, err := svc.Create(ctx, CreateCustomerRequest{UserID: userID, Phone: "555-0100"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_UpdateByUserID(t *testing.T) {
	ctx := context.Background()

	t.Run("patches own profile", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		c, _ := customer.NewCustomer(uuid.New(), "555-0100")
		phone := "555-0199"

		repo.On("FindByUserID", ctx, c.UserID).Return(c, nil)
		repo.On("Save", ctx, c).Return(nil)

		result, err := svc.UpdateByUserID(ctx, c.UserID, UpdateCustomerRequest{Phone: &phone})
		require.NoError(t, err)
		assert.Equal(t, "555-0199", result.Phone)
		assert.Equal(t, "B", result.Membership)
	})

	t.Run("user without profile", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		userID := uuid.New()

		repo.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := svc.UpdateByUserID(ctx, userID, UpdateCustomerRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects malformed birth date", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		svc := NewCustomerService(repo)
		c, _ := customer.NewCustomer(uuid.New(), "555-0100")
		bad := "01/04/1990"

		repo.On("FindByUserID", ctx, c.UserID).Return(c, nil)

		_, err := svc.UpdateByUserID(ctx, c.UserID, UpdateCustomerRequest{BirthDate: &bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "birth_date")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_AddAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo)
	c, _ := customer.NewCustomer(uuid.New(), "555-0100")

	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	result, err := svc.AddAddress(ctx, c.ID, AddAddressRequest{Street: "1 Main St", City: "Springfield", Zipcode: "12345"})
	require.NoError(t, err)
	require.Len(t, result.Addresses, 1)
	assert.Equal(t, "Springfield", result.Addresses[0].City)
}
