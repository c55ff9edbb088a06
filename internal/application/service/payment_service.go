package service

import (
	"context"
	"errors"
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
	"github.com/sangkips/shopdesk-api/pkg/lock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const paymentLockTTL = 10 * time.Second

// PaymentService records payments against bills and invoices. Every write
// for a document runs under that document's lock so two clerks cannot
// both settle the same remaining balance.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	billRepo    repository.BillRepository
	invoiceRepo repository.InvoiceRepository
	locker      lock.Locker
	cache       cache.Cache
	log         *logrus.Logger
	now         Clock
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	billRepo repository.BillRepository,
	invoiceRepo repository.InvoiceRepository,
	locker lock.Locker,
	c cache.Cache,
	log *logrus.Logger,
	now Clock,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		billRepo:    billRepo,
		invoiceRepo: invoiceRepo,
		locker:      locker,
		cache:       c,
		log:         log,
		now:         clockOrNow(now),
	}
}

// PaymentResult is a stored payment with the document's state after it.
type PaymentResult struct {
	Payment *entity.Payment `json:"payment"`
	Summary finance.Summary `json:"summary"`
}

// document loads the finance view of a bill or invoice.
func (s *PaymentService) document(ctx context.Context, docType enum.DocumentType, id uuid.UUID) (finance.Document, error) {
	switch docType {
	case enum.DocumentBill:
		bill, err := s.billRepo.GetByID(ctx, id)
		if err != nil {
			return finance.Document{}, err
		}
		if bill == nil {
			return finance.Document{}, apperror.NewNotFoundError("Bill")
		}
		return bill.FinanceDocument(), nil
	case enum.DocumentInvoice:
		invoice, err := s.invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return finance.Document{}, err
		}
		if invoice == nil {
			return finance.Document{}, apperror.NewNotFoundError("Invoice")
		}
		return invoice.FinanceDocument(), nil
	}
	return finance.Document{}, fmt.Errorf("unknown document type %q", docType)
}

func (s *PaymentService) withLock(ctx context.Context, docType enum.DocumentType, docID uuid.UUID, fn func() error) error {
	key := fmt.Sprintf("payment:%s:%s", docType, docID)
	release, err := s.locker.Obtain(ctx, key, paymentLockTTL)
	if errors.Is(err, lock.ErrNotObtained) {
		return apperror.NewConflictError(fmt.Sprintf("Another payment is being recorded for this %s; try again", strings.ToLower(docType.Label())))
	}
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

func (s *PaymentService) summarize(ctx context.Context, docType enum.DocumentType, docID uuid.UUID, doc finance.Document) (finance.Summary, error) {
	paid, err := s.paymentRepo.SumByDocument(ctx, docType, docID)
	if err != nil {
		return finance.Summary{}, err
	}
	return finance.Summarize(doc, []decimal.Decimal{paid}, s.now()), nil
}

// ListPayments returns the payments of one document, oldest first
func (s *PaymentService) ListPayments(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.document(ctx, docType, docID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByDocument(ctx, docType, docID)
}

// RecordPaymentInput represents a new payment
type RecordPaymentInput struct {
	DocumentType enum.DocumentType
	DocumentID   uuid.UUID
	Amount       decimal.Decimal
	Method       enum.PaymentMethod
	ChequeNumber *string
	Date         time.Time
	Note         *string
	RecordedBy   *uuid.UUID
}

func validateMethod(method enum.PaymentMethod, chequeNumber *string) (enum.PaymentMethod, error) {
	if method == "" {
		method = enum.PaymentMethodCash
	}
	if !method.IsValid() {
		return "", apperror.NewFieldError("method", "method must be cash or cheque")
	}
	if method == enum.PaymentMethodCheque && trimmed(chequeNumber) == nil {
		return "", apperror.NewFieldError("cheque_number", "cheque number is required for cheque payments")
	}
	return method, nil
}

// RecordPayment adds a payment no larger than the remaining balance
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	method, err := validateMethod(input.Method, input.ChequeNumber)
	if err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, apperror.NewFieldError("date", "date is required")
	}

	var result *PaymentResult
	err = s.withLock(ctx, input.DocumentType, input.DocumentID, func() error {
		doc, err := s.document(ctx, input.DocumentType, input.DocumentID)
		if err != nil {
			return err
		}
		before, err := s.summarize(ctx, input.DocumentType, input.DocumentID, doc)
		if err != nil {
			return err
		}
		if err := finance.ValidatePayment(input.Amount, before.Remaining); err != nil {
			return financeFieldError(err)
		}

		payment := &entity.Payment{
			DocumentType: input.DocumentType,
			DocumentID:   input.DocumentID,
			Amount:       finance.Round(input.Amount),
			Method:       method,
			Date:         dateOnly(input.Date),
			Note:         trimmed(input.Note),
			RecordedBy:   input.RecordedBy,
		}
		if method == enum.PaymentMethodCheque {
			payment.ChequeNumber = trimmed(input.ChequeNumber)
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		after, err := s.summarize(ctx, input.DocumentType, input.DocumentID, doc)
		if err != nil {
			return err
		}
		result = &PaymentResult{Payment: payment, Summary: after}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.log, "RecordPayment")
	return result, nil
}

func (s *PaymentService) loadPayment(ctx context.Context, docType enum.DocumentType, docID, paymentID uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil || payment.DocumentType != docType || payment.DocumentID != docID {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// UpdatePaymentInput represents the update payment input
type UpdatePaymentInput struct {
	DocumentType enum.DocumentType
	DocumentID   uuid.UUID
	PaymentID    uuid.UUID
	Amount       *decimal.Decimal
	Method       *enum.PaymentMethod
	ChequeNumber *string
	Date         *time.Time
	Note         *string
}

// UpdatePayment edits a payment; the new amount may use the balance the
// old amount occupied.
func (s *PaymentService) UpdatePayment(ctx context.Context, input *UpdatePaymentInput) (*PaymentResult, error) {
	var result *PaymentResult
	err := s.withLock(ctx, input.DocumentType, input.DocumentID, func() error {
		doc, err := s.document(ctx, input.DocumentType, input.DocumentID)
		if err != nil {
			return err
		}
		payment, err := s.loadPayment(ctx, input.DocumentType, input.DocumentID, input.PaymentID)
		if err != nil {
			return err
		}

		method := payment.Method
		if input.Method != nil {
			method = *input.Method
		}
		cheque := payment.ChequeNumber
		if input.ChequeNumber != nil {
			cheque = input.ChequeNumber
		}
		method, err = validateMethod(method, cheque)
		if err != nil {
			return err
		}

		if input.Amount != nil {
			before, err := s.summarize(ctx, input.DocumentType, input.DocumentID, doc)
			if err != nil {
				return err
			}
			others := before.TotalPaid.Sub(payment.Amount)
			available := finance.Remaining(before.GrandTotal, others)
			if err := finance.ValidatePayment(*input.Amount, available); err != nil {
				return financeFieldError(err)
			}
			payment.Amount = finance.Round(*input.Amount)
		}
		if input.Date != nil {
			if input.Date.IsZero() {
				return apperror.NewFieldError("date", "date is required")
			}
			payment.Date = dateOnly(*input.Date)
		}
		if input.Note != nil {
			payment.Note = trimmed(input.Note)
		}
		payment.Method = method
		payment.ChequeNumber = nil
		if method == enum.PaymentMethodCheque {
			payment.ChequeNumber = trimmed(cheque)
		}

		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return err
		}
		after, err := s.summarize(ctx, input.DocumentType, input.DocumentID, doc)
		if err != nil {
			return err
		}
		result = &PaymentResult{Payment: payment, Summary: after}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.log, "UpdatePayment")
	return result, nil
}

// DeletePayment removes a payment and returns the document's new state
func (s *PaymentService) DeletePayment(ctx context.Context, docType enum.DocumentType, docID, paymentID uuid.UUID) (*finance.Summary, error) {
	var summary finance.Summary
	err := s.withLock(ctx, docType, docID, func() error {
		doc, err := s.document(ctx, docType, docID)
		if err != nil {
			return err
		}
		if _, err := s.loadPayment(ctx, docType, docID, paymentID); err != nil {
			return err
		}
		if err := s.paymentRepo.Delete(ctx, paymentID); err != nil {
			return err
		}
		summary, err = s.summarize(ctx, docType, docID, doc)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.cache, s.log, "DeletePayment")
	return &summary, nil
}
