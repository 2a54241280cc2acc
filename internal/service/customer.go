package service

import (
	"context"

	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
	"closet-backend/internal/repository"
)

type customerService struct {
	repos repository.Repositories
	tx    repository.TxManager
}

func NewCustomerService(repos repository.Repositories, tx repository.TxManager) CustomerService {
	return &customerService{repos: repos, tx: tx}
}

func (s *customerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	c, err := customerFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info("customer created", "customer_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *customerService) Get(ctx context.Context, id int32) (*domain.Customer, error) {
	return s.repos.Customers.GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, id int32, input CustomerInput) (*domain.Customer, error) {
	updated, err := customerFromInput(input)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changedStanding := c.FinancialStatus != updated.FinancialStatus

	c.Name = updated.Name
	c.Document = updated.Document
	c.Phone = updated.Phone
	c.Email = updated.Email
	c.Address = updated.Address
	c.PostalCode = updated.PostalCode
	c.FinancialStatus = updated.FinancialStatus
	c.IsRecurring = updated.IsRecurring
	c.Notes = updated.Notes
	if err := s.repos.Customers.Update(ctx, c); err != nil {
		return nil, err
	}
	if changedStanding {
		logger.Info("customer financial status changed", "customer_id", c.ID, "financial_status", c.FinancialStatus)
	}
	return c, nil
}

func (s *customerService) Delete(ctx context.Context, id int32) error {
	return s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		count, err := r.Reservations.CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.ReferentialConflictError{Entity: "customer", ID: id, DependsOn: "reservations"}
		}
		return r.Customers.Delete(ctx, id)
	})
}

func (s *customerService) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	return s.repos.Customers.List(ctx, query, page, pageSize)
}

func customerFromInput(input CustomerInput) (*domain.Customer, error) {
	if input.Name == "" {
		return nil, domain.NewValidationError("customer name is required")
	}
	status := input.FinancialStatus
	if status == "" {
		status = domain.FinancialStatusActive
	}
	if !domain.ValidFinancialStatus(status) {
		return nil, domain.NewValidationError("unknown financial status %q", input.FinancialStatus)
	}
	return &domain.Customer{
		Name:            input.Name,
		Document:        input.Document,
		Phone:           input.Phone,
		Email:           input.Email,
		Address:         input.Address,
		PostalCode:      input.PostalCode,
		FinancialStatus: status,
		IsRecurring:     input.IsRecurring,
		Notes:           input.Notes,
	}, nil
}
