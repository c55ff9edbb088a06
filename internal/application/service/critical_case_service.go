package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

// CriticalCaseService handles critical cases spanning shops and bills
type CriticalCaseService struct {
	caseRepo repository.CriticalCaseRepository
	shopRepo repository.ShopRepository
	billRepo repository.BillRepository
}

// NewCriticalCaseService creates a new critical case service
func NewCriticalCaseService(caseRepo repository.CriticalCaseRepository, shopRepo repository.ShopRepository, billRepo repository.BillRepository) *CriticalCaseService {
	return &CriticalCaseService{caseRepo: caseRepo, shopRepo: shopRepo, billRepo: billRepo}
}

// CreateCriticalCaseInput represents the create critical case input
type CreateCriticalCaseInput struct {
	ShopIDs     []uuid.UUID
	BillIDs     []uuid.UUID
	Description string
	Severity    enum.Severity
	Remarks     *string
	CreatedBy   *uuid.UUID
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// resolveLinks loads the referenced shops and bills and checks every bill
// belongs to one of the shops.
func (s *CriticalCaseService) resolveLinks(ctx context.Context, shopIDs, billIDs []uuid.UUID) ([]entity.Shop, []entity.Bill, error) {
	shopIDs = uniqueIDs(shopIDs)
	if len(shopIDs) == 0 {
		return nil, nil, apperror.NewFieldError("shop_ids", "at least one shop is required")
	}
	shops, err := s.shopRepo.GetByIDs(ctx, shopIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(shops) != len(shopIDs) {
		return nil, nil, apperror.NewFieldError("shop_ids", "one or more shops do not exist")
	}

	billIDs = uniqueIDs(billIDs)
	bills, err := s.billRepo.GetByIDs(ctx, billIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(bills) != len(billIDs) {
		return nil, nil, apperror.NewFieldError("bill_ids", "one or more bills do not exist")
	}

	listed := make(map[uuid.UUID]bool, len(shops))
	for _, shop := range shops {
		listed[shop.ID] = true
	}
	for _, bill := range bills {
		if !listed[bill.ShopID] {
			return nil, nil, apperror.NewFieldError("bill_ids", "bill "+bill.Number+" does not belong to the listed shops")
		}
	}
	return shops, bills, nil
}

// CreateCriticalCase records a new critical case
func (s *CriticalCaseService) CreateCriticalCase(ctx context.Context, input *CreateCriticalCaseInput) (*entity.CriticalCase, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperror.NewFieldError("description", "description is required")
	}
	if !input.Severity.IsValid() {
		return nil, apperror.NewFieldError("severity", "severity must be low, medium, high or critical")
	}
	shops, bills, err := s.resolveLinks(ctx, input.ShopIDs, input.BillIDs)
	if err != nil {
		return nil, err
	}

	c := &entity.CriticalCase{
		Description: description,
		Severity:    input.Severity,
		Remarks:     trimmed(input.Remarks),
		CreatedBy:   input.CreatedBy,
		Shops:       shops,
		Bills:       bills,
	}
	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCriticalCase retrieves a critical case by ID
func (s *CriticalCaseService) GetCriticalCase(ctx context.Context, id uuid.UUID) (*entity.CriticalCase, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Critical case")
	}
	return c, nil
}

// ListCriticalCases lists critical cases by severity or shop
func (s *CriticalCaseService) ListCriticalCases(ctx context.Context, params *pagination.PaginationParams, filter repository.CriticalCaseFilter) (*pagination.PaginatedResult[entity.CriticalCase], error) {
	if filter.Severity != "" && !filter.Severity.IsValid() {
		return nil, apperror.NewBadRequestError("unknown severity")
	}
	cases, total, err := s.caseRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(cases, pag), nil
}

// UpdateCriticalCaseInput represents the update critical case input.
// A non-nil ShopIDs or BillIDs replaces that association.
type UpdateCriticalCaseInput struct {
	ID          uuid.UUID
	ShopIDs     []uuid.UUID
	BillIDs     []uuid.UUID
	Description *string
	Severity    *enum.Severity
	Remarks     *string
}

// UpdateCriticalCase updates a critical case
func (s *CriticalCaseService) UpdateCriticalCase(ctx context.Context, input *UpdateCriticalCaseInput) (*entity.CriticalCase, error) {
	c, err := s.GetCriticalCase(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperror.NewFieldError("description", "description is required")
		}
		c.Description = description
	}
	if input.Severity != nil {
		if !input.Severity.IsValid() {
			return nil, apperror.NewFieldError("severity", "severity must be low, medium, high or critical")
		}
		c.Severity = *input.Severity
	}
	if input.Remarks != nil {
		c.Remarks = trimmed(input.Remarks)
	}

	if input.ShopIDs != nil || input.BillIDs != nil {
		shopIDs := input.ShopIDs
		if shopIDs == nil {
			for _, shop := range c.Shops {
				shopIDs = append(shopIDs, shop.ID)
			}
		}
		billIDs := input.BillIDs
		if billIDs == nil {
			for _, bill := range c.Bills {
				billIDs = append(billIDs, bill.ID)
			}
		}
		shops, bills, err := s.resolveLinks(ctx, shopIDs, billIDs)
		if err != nil {
			return nil, err
		}
		c.Shops, c.Bills = shops, bills
	}

	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCriticalCase deletes a critical case
func (s *CriticalCaseService) DeleteCriticalCase(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCriticalCase(ctx, id); err != nil {
		return err
	}
	return s.caseRepo.Delete(ctx, id)
}
