package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/shared"
)

// CustomerService handles customer profile operations
type CustomerService struct {
	customerRepo customer.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// List returns all customers
func (s *CustomerService) List(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, nil
}

// GetByID retrieves a customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// GetByUserID retrieves the profile of an authenticated user
func (s *CustomerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// Create creates a customer profile for a user
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewValidationError("user", "customer with this user already exists.")
	}

	c, err := customer.NewCustomer(req.UserID, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(c, nil, req.BirthDate, optional(req.Membership)); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(c)
	return &response, nil
}

// Update applies the non-nil fields of req to a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, c, req)
}

// UpdateByUserID applies the non-nil fields of req to the profile of an authenticated user
func (s *CustomerService) UpdateByUserID(ctx context.Context, userID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, c, req)
}

// AddAddress attaches an address to a customer
func (s *CustomerService) AddAddress(ctx context.Context, id uuid.UUID, req AddAddressRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddAddress(req.Street, req.City, req.Zipcode); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

func (s *CustomerService) update(ctx context.Context, c *customer.Customer, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := applyProfile(c, req.Phone, req.BirthDate, req.Membership); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

func applyProfile(c *customer.Customer, phone, birthDate, membership *string) error {
	if phone != nil {
		if err := c.UpdatePhone(*phone); err != nil {
			return err
		}
	}
	if birthDate != nil {
		if *birthDate == "" {
			if err := c.SetBirthDate(nil); err != nil {
				return err
			}
		} else {
			parsed, err := time.Parse(dateLayout, *birthDate)
			if err != nil {
				return shared.NewValidationError("birth_date", "Date has wrong format. Use YYYY-MM-DD.")
			}
			if err := c.SetBirthDate(&parsed); err != nil {
				return err
			}
		}
	}
	if membership != nil {
		if err := c.ChangeMembership(customer.Membership(*membership)); err != nil {
			return err
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
