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

// InvoiceService handles purchase invoices received from suppliers
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	supplierRepo repository.SupplierRepository
	paymentRepo  repository.PaymentRepository
	cache        cache.Cache
	log          *logrus.Logger
	now          Clock
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	supplierRepo repository.SupplierRepository,
	paymentRepo repository.PaymentRepository,
	c cache.Cache,
	log *logrus.Logger,
	now Clock,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		supplierRepo: supplierRepo,
		paymentRepo:  paymentRepo,
		cache:        c,
		log:          log,
		now:          clockOrNow(now),
	}
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	SupplierID uuid.UUID
	Number     string
	Date       time.Time
	SalesRep   *string
	CreditDays int
	Discount   decimal.Decimal
	Items      []LineInput
	Notes      *string
	CreatedBy  *uuid.UUID
}

const duplicateInvoiceNumber = "Invoice number already exists for this supplier"

func (s *InvoiceService) ensureNumberFree(ctx context.Context, supplierID uuid.UUID, number string, self uuid.UUID) error {
	existing, err := s.invoiceRepo.GetByNumber(ctx, supplierID, number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError(duplicateInvoiceNumber)
	}
	return nil
}

// CreateInvoice prices and stores a new supplier invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*InvoiceView, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, apperror.NewFieldError("number", "number is required")
	}
	if input.Date.IsZero() {
		return nil, apperror.NewFieldError("date", "date is required")
	}
	if input.CreditDays < 0 {
		return nil, financeFieldError(finance.ErrNegativeCreditDays)
	}
	_, sub, grand, err := priceLines(input.Items, input.Discount)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNumberFree(ctx, supplier.ID, number, uuid.Nil); err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		SupplierID: supplier.ID,
		Number:     number,
		Date:       dateOnly(input.Date),
		SalesRep:   trimmed(input.SalesRep),
		CreditDays: input.CreditDays,
		Discount:   finance.Round(input.Discount),
		SubTotal:   sub,
		GrandTotal: grand,
		Notes:      trimmed(input.Notes),
		CreatedBy:  input.CreatedBy,
		Items:      invoiceItems(input.Items),
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError(duplicateInvoiceNumber)
		}
		return nil, err
	}
	invoice.Supplier = supplier

	invalidateDashboard(ctx, s.cache, s.log, "CreateInvoice")
	return s.view(invoice, decimal.Zero), nil
}

func (s *InvoiceService) view(invoice *entity.Invoice, paid decimal.Decimal) *InvoiceView {
	return &InvoiceView{
		Invoice: *invoice,
		Summary: finance.Summarize(invoice.FinanceDocument(), []decimal.Decimal{paid}, s.now()),
	}
}

func (s *InvoiceService) load(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoice retrieves an invoice with its items and payment summary
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceView, error) {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.paymentRepo.SumByDocument(ctx, enum.DocumentInvoice, invoice.ID)
	if err != nil {
		return nil, err
	}
	return s.view(invoice, paid), nil
}

// GetSummary returns only the computed payment state of an invoice
func (s *InvoiceService) GetSummary(ctx context.Context, id uuid.UUID) (*finance.Summary, error) {
	v, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return &v.Summary, nil
}

// ListInvoices lists the invoices of a supplier with their summaries
func (s *InvoiceService) ListInvoices(ctx context.Context, supplierID uuid.UUID, params *pagination.PaginationParams, filter repository.DocumentFilter) (*pagination.PaginatedResult[InvoiceView], error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}

	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperror.NewBadRequestError("status must be unpaid, partial or paid")
	}
	filter.AsOf = dateOnly(s.now())

	invoices, total, err := s.invoiceRepo.ListBySupplier(ctx, supplierID, params, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	paid, err := s.paymentRepo.SumByDocuments(ctx, enum.DocumentInvoice, ids)
	if err != nil {
		return nil, err
	}

	views := make([]InvoiceView, len(invoices))
	for i := range invoices {
		views[i] = *s.view(&invoices[i], paid[invoices[i].ID])
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(views, pag), nil
}

// UpdateInvoiceInput represents the update invoice input
type UpdateInvoiceInput struct {
	ID         uuid.UUID
	Number     *string
	Date       *time.Time
	SalesRep   *string
	CreditDays *int
	Discount   *decimal.Decimal
	Items      []LineInput
	Notes      *string
}

// UpdateInvoice edits an invoice and recomputes its totals
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*InvoiceView, error) {
	invoice, err := s.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Number != nil {
		number := strings.TrimSpace(*input.Number)
		if number == "" {
			return nil, apperror.NewFieldError("number", "number is required")
		}
		if err := s.ensureNumberFree(ctx, invoice.SupplierID, number, invoice.ID); err != nil {
			return nil, err
		}
		invoice.Number = number
	}
	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, apperror.NewFieldError("date", "date is required")
		}
		invoice.Date = dateOnly(*input.Date)
	}
	if input.CreditDays != nil {
		if *input.CreditDays < 0 {
			return nil, financeFieldError(finance.ErrNegativeCreditDays)
		}
		invoice.CreditDays = *input.CreditDays
	}

	items := make([]LineInput, len(invoice.Items))
	for i, it := range invoice.Items {
		items[i] = LineInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	if input.Items != nil {
		items = input.Items
	}
	discount := invoice.Discount
	if input.Discount != nil {
		discount = *input.Discount
	}
	_, sub, grand, err := priceLines(items, discount)
	if err != nil {
		return nil, err
	}

	invoice.Discount = finance.Round(discount)
	invoice.SubTotal = sub
	invoice.GrandTotal = grand
	invoice.Items = invoiceItems(items)
	if input.SalesRep != nil {
		invoice.SalesRep = trimmed(input.SalesRep)
	}
	if input.Notes != nil {
		invoice.Notes = trimmed(input.Notes)
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		if isDuplicate(err) {
			return nil, apperror.NewConflictError(duplicateInvoiceNumber)
		}
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.log, "UpdateInvoice")
	paid, err := s.paymentRepo.SumByDocument(ctx, enum.DocumentInvoice, invoice.ID)
	if err != nil {
		return nil, err
	}
	return s.view(invoice, paid), nil
}

// DeleteInvoice removes an invoice that has no recorded payments
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.paymentRepo.CountByDocument(ctx, enum.DocumentInvoice, invoice.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Invoice has %d payment(s); delete them first", n))
	}

	if err := s.invoiceRepo.Delete(ctx, invoice.ID); err != nil {
		return err
	}
	invalidateDashboard(ctx, s.cache, s.log, "DeleteInvoice")
	return nil
}
