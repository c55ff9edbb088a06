package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/cache"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// BillService handles bills issued to shops
type BillService struct {
	billRepo          repository.BillRepository
	shopRepo          repository.ShopRepository
	paymentRepo       repository.PaymentRepository
	cache             cache.Cache
	log               *logrus.Logger
	defaultCreditDays int
	now               Clock
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	shopRepo repository.ShopRepository,
	paymentRepo repository.PaymentRepository,
	c cache.Cache,
	log *logrus.Logger,
	defaultCreditDays int,
	now Clock,
) *BillService {
	return &BillService{
		billRepo:          billRepo,
		shopRepo:          shopRepo,
		paymentRepo:       paymentRepo,
		cache:             c,
		log:               log,
		defaultCreditDays: defaultCreditDays,
		now:               clockOrNow(now),
	}
}

// CreateBillInput represents the create bill input. CreditDays is only
// read for the custom credit option.
type CreateBillInput struct {
	ShopID       uuid.UUID
	Number       string
	Date         time.Time
	Items        []LineInput
	Discount     decimal.Decimal
	PaymentType  enum.PaymentType
	CreditOption enum.CreditOption
	CreditDays   *int
	Notes        *string
	CreatedBy    *uuid.UUID
}

// resolveCredit settles the credit option and period for a payment type.
// Cash bills carry no credit; a credit bill without an option gets the
// configured default.
func (s *BillService) resolveCredit(pt enum.PaymentType, opt enum.CreditOption, customDays *int) (enum.CreditOption, int, error) {
	if !pt.IsValid() {
		return "", 0, apperror.NewFieldError("payment_type", "payment type must be cash, credit or cheque")
	}
	if pt == enum.PaymentTypeCash {
		return enum.CreditNone, 0, nil
	}

	if opt == "" {
		if pt != enum.PaymentTypeCredit {
			return enum.CreditNone, 0, nil
		}
		opt = enum.CreditOptionForDays(s.defaultCreditDays)
		if opt == enum.CreditCustom {
			d := s.defaultCreditDays
			customDays = &d
		}
	}
	if !opt.IsValid() {
		return "", 0, apperror.NewFieldError("credit_option", "unknown credit option")
	}

	days, fixed := opt.Days()
	if !fixed {
		if customDays == nil {
			return "", 0, apperror.NewFieldError("credit_period_days", "credit period is required for a custom option")
		}
		if *customDays < 0 {
			return "", 0, apperror.NewFieldError("credit_period_days", finance.ErrNegativeCreditDays.Error())
		}
		days = *customDays
	}

	if pt == enum.PaymentTypeCredit && days == 0 {
		return "", 0, apperror.NewFieldError("credit_option", "credit bills need a credit period")
	}
	return opt, days, nil
}

func (s *BillService) ensureNumberFree(ctx context.Context, shopID uuid.UUID, number string, self uuid.UUID) error {
	existing, err := s.billRepo.GetByNumber(ctx, shopID, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Bill number already exists for this shop")
	}
	return nil
}

// CreateBill prices and stores a new bill for a shop
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*BillView, error) {
	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, apperror.NewFieldError("number", "number is required")
	}
	if input.Date.IsZero() {
		return nil, apperror.NewFieldError("date", "date is required")
	}

	_, sub, grand, err := priceLines(input.Items, input.Discount)
	if err != nil {
		return nil, err
	}
	opt, days, err := s.resolveCredit(input.PaymentType, input.CreditOption, input.CreditDays)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, shop.ID, number, uuid.Nil); err != nil {
		return nil, err
	}

	bill := &entity.Bill{
		ShopID:           shop.ID,
		Number:           number,
		Date:             dateOnly(input.Date),
		PaymentType:      input.PaymentType,
		CreditOption:     opt,
		CreditPeriodDays: days,
		Discount:         finance.Round(input.Discount),
		SubTotal:         sub,
		GrandTotal:       grand,
		Notes:            trimmed(input.Notes),
		CreatedBy:        input.CreatedBy,
		Items:            billItems(input.Items),
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError("Bill number already exists for this shop")
		}
		return nil, err
	}
	bill.Shop = shop

	invalidateDashboard(ctx, s.cache, s.log, "CreateBill")
	return s.view(bill, decimal.Zero), nil
}

func (s *BillService) view(bill *entity.Bill, paid decimal.Decimal) *BillView {
	return &BillView{
		Bill:    *bill,
		Summary: finance.Summarize(bill.FinanceDocument(), []decimal.Decimal{paid}, s.now()),
	}
}

func (s *BillService) load(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// GetBill retrieves a bill with its items and payment summary
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*BillView, error) {
	bill, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumByDocument(ctx, enum.DocumentBill, bill.ID)
	if err != nil {
		return nil, err
	}
	return s.view(bill, paid), nil
}

// GetSummary returns only the computed payment state of a bill
func (s *BillService) GetSummary(ctx context.Context, id uuid.UUID) (*finance.Summary, error) {
	v, err := s.GetBill(ctx, id)
	if err != nil {
		return nil, err
	}
	return &v.Summary, nil
}

// ListBills lists the bills of a shop, each with its payment summary.
// Paid totals for the page come from one grouped query.
func (s *BillService) ListBills(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams, filter repository.DocumentFilter) (*pagination.PaginatedResult[BillView], error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewNotFoundError("Shop")
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperror.NewBadRequestError("status must be unpaid, partial or paid")
	}
	filter.AsOf = dateOnly(s.now())

	bills, total, err := s.billRepo.ListByShop(ctx, shopID, params, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(bills))
	for i := range bills {
		ids[i] = bills[i].ID
	}
	paid, err := s.paymentRepo.SumByDocuments(ctx, enum.DocumentBill, ids)
	if err != nil {
		return nil, err
	}

	views := make([]BillView, len(bills))
	for i := range bills {
		views[i] = *s.view(&bills[i], paid[bills[i].ID])
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(views, pag), nil
}

// UpdateBillInput represents the update bill input. Nil fields are left
// unchanged; a non-nil Items replaces every line.
type UpdateBillInput struct {
	ID           uuid.UUID
	Number       *string
	Date         *time.Time
	Items        []LineInput
	Discount     *decimal.Decimal
	PaymentType  *enum.PaymentType
	CreditOption *enum.CreditOption
	CreditDays   *int
	Notes        *string
}

// UpdateBill edits a bill and recomputes its totals
func (s *BillService) UpdateBill(ctx context.Context, input *UpdateBillInput) (*BillView, error) {
	bill, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Number != nil {
		number := strings.TrimSpace(*input.Number)
		if number == "" {
			return nil, apperror.NewFieldError("number", "number is required")
		}
		if err := s.ensureNumberFree(ctx, bill.ShopID, number, bill.ID); err != nil {
			return nil, err
		}
		bill.Number = number
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, apperror.NewFieldError("date", "date is required")
		}
		bill.Date = dateOnly(*input.Date)
	}

	items := make([]LineInput, len(bill.Items))
	for i, it := range bill.Items {
		items[i] = LineInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	if input.Items != nil {
		items = input.Items
	}
	discount := bill.Discount
	if input.Discount != nil {
		discount = *input.Discount
	}
	_, sub, grand, err := priceLines(items, discount)
	if err != nil {
		return nil, err
	}

	pt, opt := bill.PaymentType, bill.CreditOption
	if input.PaymentType != nil {
		pt = *input.PaymentType
	}
	if input.CreditOption != nil {
		opt = *input.CreditOption
	}
	customDays := input.CreditDays
	if customDays == nil && opt == enum.CreditCustom {
		customDays = &bill.CreditPeriodDays
	}
	if input.PaymentType != nil && *input.PaymentType == enum.PaymentTypeCredit && bill.CreditOption == enum.CreditNone && input.CreditOption == nil {
		opt = ""
	}
	opt, days, err := s.resolveCredit(pt, opt, customDays)
	if err != nil {
		return nil, err
	}

	bill.PaymentType = pt
	bill.CreditOption = opt
	bill.CreditPeriodDays = days
	bill.Discount = finance.Round(discount)
	bill.SubTotal = sub
	bill.GrandTotal = grand
	bill.Items = billItems(items)
	if input.Notes != nil {
		bill.Notes = trimmed(input.Notes)
	}

	if err := s.billRepo.Update(ctx, bill); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError("Bill number already exists for this shop")
		}
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.log, "UpdateBill")
	paid, err := s.paymentRepo.SumByDocument(ctx, enum.DocumentBill, bill.ID)
	if err != nil {
		return nil, err
	}
	return s.view(bill, paid), nil
}

// DeleteBill removes a bill that has no recorded payments
func (s *BillService) DeleteBill(ctx context.Context, id uuid.UUID) error {
	bill, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.paymentRepo.CountByDocument(ctx, enum.DocumentBill, bill.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Bill has %d payment(s); delete them first", n))
	}

	if err := s.billRepo.Delete(ctx, bill.ID); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, s.log, "DeleteBill")
	return nil
}
