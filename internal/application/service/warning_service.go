package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/email"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/sirupsen/logrus"
)

// WarningService handles warnings issued to shops
type WarningService struct {
	warningRepo repository.WarningRepository
	shopRepo    repository.ShopRepository
	billRepo    repository.BillRepository
	sender      email.Sender
	log         *logrus.Logger
	now         Clock
}

// NewWarningService creates a new warning service
func NewWarningService(
	warningRepo repository.WarningRepository,
	shopRepo repository.ShopRepository,
	billRepo repository.BillRepository,
	sender email.Sender,
	log *logrus.Logger,
	now Clock,
) *WarningService {
	return &WarningService{
		warningRepo: warningRepo,
		shopRepo:    shopRepo,
		billRepo:    billRepo,
		sender:      sender,
		log:         log,
		now:         clockOrNow(now),
	}
}

// CreateWarningInput represents the create warning input
type CreateWarningInput struct {
	ShopID    uuid.UUID
	BillIDs   []uuid.UUID
	Title     string
	Message   string
	CreatedBy *uuid.UUID
}

func (s *WarningService) requireShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewFieldError("shop_id", "shop does not exist")
	}
	return shop, nil
}

// shopBills loads the referenced bills and checks they belong to shopID.
func (s *WarningService) shopBills(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]entity.Bill, error) {
	ids = uniqueIDs(ids)
	bills, err := s.billRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(bills) != len(ids) {
		return nil, apperror.NewFieldError("bill_ids", "one or more bills do not exist")
	}
	for _, bill := range bills {
		if bill.ShopID != shopID {
			return nil, apperror.NewFieldError("bill_ids", "bill "+bill.Number+" does not belong to this shop")
		}
	}
	return bills, nil
}

// CreateWarning records a new open warning
func (s *WarningService) CreateWarning(ctx context.Context, input *CreateWarningInput) (*entity.Warning, error) {
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" {
		return nil, apperror.NewFieldError("title", "title is required")
	}
	if message == "" {
		return nil, apperror.NewFieldError("message", "message is required")
	}
	shop, err := s.requireShop(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	bills, err := s.shopBills(ctx, shop.ID, input.BillIDs)
	if err != nil {
		return nil, err
	}

	w := &entity.Warning{
		ShopID:    shop.ID,
		Title:     title,
		Message:   message,
		Status:    enum.WarningOpen,
		CreatedBy: input.CreatedBy,
		Bills:     bills,
	}
	if err := s.warningRepo.Create(ctx, w); err != nil {
		return nil, err
	}
	w.Shop = shop
	return w, nil
}

// GetWarning retrieves a warning by ID
func (s *WarningService) GetWarning(ctx context.Context, id uuid.UUID) (*entity.Warning, error) {
	w, err := s.warningRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NewNotFoundError("Warning")
	}
	return w, nil
}

// ListWarnings lists warnings by status or shop
func (s *WarningService) ListWarnings(ctx context.Context, params *pagination.PaginationParams, filter repository.WarningFilter) (*pagination.PaginatedResult[entity.Warning], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperror.NewBadRequestError("unknown warning status")
	}
	warnings, total, err := s.warningRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(warnings, pag), nil
}

// UpdateWarningInput represents the update warning input
type UpdateWarningInput struct {
	ID      uuid.UUID
	BillIDs []uuid.UUID
	Title   *string
	Message *string
}

// UpdateWarning edits a warning's content and bill list
func (s *WarningService) UpdateWarning(ctx context.Context, input *UpdateWarningInput) (*entity.Warning, error) {
	w, err := s.GetWarning(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.NewFieldError("title", "title is required")
		}
		w.Title = title
	}
	if input.Message != nil {
		message := strings.TrimSpace(*input.Message)
		if message == "" {
			return nil, apperror.NewFieldError("message", "message is required")
		}
		w.Message = message
	}
	if input.BillIDs != nil {
		bills, err := s.shopBills(ctx, w.ShopID, input.BillIDs)
		if err != nil {
			return nil, err
		}
		w.Bills = bills
	}

	if err := s.warningRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateStatus moves a warning forward
func (s *WarningService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.WarningStatus) (*entity.Warning, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldError("status", "status must be open, sent, acknowledged or resolved")
	}
	w, err := s.GetWarning(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.Status == status {
		return w, nil
	}
	if !w.Status.CanTransitionTo(status) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot move warning from %s to %s", w.Status, status))
	}

	w.Status = status
	if status == enum.WarningSent && w.SentAt == nil {
		now := s.now()
		w.SentAt = &now
	}
	if err := s.warningRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SendResult reports whether the warning notice reached the shop by email.
type SendResult struct {
	Warning *entity.Warning `json:"warning"`
	Emailed bool            `json:"emailed"`
}

// SendWarning emails the warning to the shop when it has an address and
// marks it sent. Delivery failures are logged; the warning is still sent.
func (s *WarningService) SendWarning(ctx context.Context, id uuid.UUID) (*SendResult, error) {
	w, err := s.GetWarning(ctx, id)
	if err != nil {
		return nil, err
	}
	if !w.Status.CanTransitionTo(enum.WarningSent) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot send a warning that is %s", w.Status))
	}

	now := s.now()
	emailed := false
	if w.Shop != nil && w.Shop.Email != nil {
		numbers := make([]string, len(w.Bills))
		for i, b := range w.Bills {
			numbers[i] = b.Number
		}
		msg := email.WarningMessage{
			ShopName:    w.Shop.Name,
			OwnerName:   w.Shop.OwnerName,
			Title:       w.Title,
			Message:     w.Message,
			BillNumbers: numbers,
			IssuedAt:    now,
		}
		err := s.sender.SendWarning(ctx, *w.Shop.Email, msg)
		switch {
		case err == nil:
			emailed = true
		case errors.Is(err, email.ErrNotConfigured):
			s.log.WithField("warning_id", w.ID).Info("SMTP not configured; warning marked sent without email")
		default:
			logger.LogError(s.log, "WarningService", "SendWarning", "email warning to shop", w.ID.String(), err)
		}
	}

	w.Status = enum.WarningSent
	w.SentAt = &now
	if err := s.warningRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return &SendResult{Warning: w, Emailed: emailed}, nil
}

// DeleteWarning deletes a warning
func (s *WarningService) DeleteWarning(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetWarning(ctx, id); err != nil {
		return err
	}
	return s.warningRepo.Delete(ctx, id)
}
