package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/sangkips/shopdesk-api/pkg/validation"
)

// SupplierService handles supplier-related operations
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	invoiceRepo  repository.InvoiceRepository
	phoneRegion  string
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo repository.SupplierRepository, invoiceRepo repository.InvoiceRepository, phoneRegion string) *SupplierService {
	if phoneRegion == "" {
		phoneRegion = validation.DefaultRegion
	}
	return &SupplierService{supplierRepo: supplierRepo, invoiceRepo: invoiceRepo, phoneRegion: phoneRegion}
}

// CreateSupplierInput represents the create supplier input
type CreateSupplierInput struct {
	Name    string
	Address *string
	Mobile  string
	Email   *string
	Notes   *string
}

func (s *SupplierService) validate(supplier *entity.Supplier) error {
	var v validation.Collector
	v.Required("name", supplier.Name)
	if v.Required("mobile", supplier.Mobile) {
		v.Phone("mobile", supplier.Mobile, s.phoneRegion)
	}
	v.Email("email", supplier.Email)
	return v.Err()
}

// CreateSupplier creates a new supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, input *CreateSupplierInput) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		Name:    strings.TrimSpace(input.Name),
		Address: trimmed(input.Address),
		Mobile:  strings.TrimSpace(input.Mobile),
		Email:   trimmed(input.Email),
		Notes:   trimmed(input.Notes),
	}
	if err := s.validate(supplier); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// ListSuppliers lists suppliers whose name, mobile or email match search
func (s *SupplierService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}

// UpdateSupplierInput represents the update supplier input
type UpdateSupplierInput struct {
	ID      uuid.UUID
	Name    *string
	Address *string
	Mobile  *string
	Email   *string
	Notes   *string
}

// UpdateSupplier updates a supplier
func (s *SupplierService) UpdateSupplier(ctx context.Context, input *UpdateSupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		supplier.Name = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		supplier.Address = trimmed(input.Address)
	}
	if input.Mobile != nil {
		supplier.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Email != nil {
		supplier.Email = trimmed(input.Email)
	}
	if input.Notes != nil {
		supplier.Notes = trimmed(input.Notes)
	}
	if err := s.validate(supplier); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier deletes a supplier that has no invoices
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}

	n, err := s.invoiceRepo.CountBySupplier(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Supplier has %d invoice(s); delete them first", n))
	}
	return s.supplierRepo.Delete(ctx, id)
}
