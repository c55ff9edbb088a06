package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/cache"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Clock returns the current time in the business location.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

const dashboardCacheKey = "dashboard:summary"

// invalidateDashboard drops the cached dashboard after a money write.
// A cache failure only means a stale dashboard for one TTL.
func invalidateDashboard(ctx context.Context, c cache.Cache, log *logrus.Logger, funcName string) {
	if err := c.Delete(ctx, dashboardCacheKey); err != nil {
		logger.LogError(log, "service", funcName, "invalidate dashboard cache", dashboardCacheKey, err)
	}
}

// LineInput is one item of a bill or invoice as submitted.
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// financeFieldError turns a finance rule violation into a 422 on the
// field it concerns. Other errors pass through unchanged.
func financeFieldError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, finance.ErrNoLines):
		return apperror.NewFieldError("items", err.Error())
	case errors.Is(err, finance.ErrInvalidQuantity):
		return apperror.NewFieldError("items.quantity", err.Error())
	case errors.Is(err, finance.ErrNegativeUnitPrice):
		return apperror.NewFieldError("items.unit_price", err.Error())
	case errors.Is(err, finance.ErrNegativeDiscount), errors.Is(err, finance.ErrDiscountExceedsSubtotal):
		return apperror.NewFieldError("discount", err.Error())
	case errors.Is(err, finance.ErrNegativeCreditDays):
		return apperror.NewFieldError("credit_days", err.Error())
	case errors.Is(err, finance.ErrNonPositivePayment), errors.Is(err, finance.ErrOverpayment):
		return apperror.NewFieldError("amount", err.Error())
	}
	return err
}

// quantityPlaces matches the numeric(15,3) item quantity columns.
const quantityPlaces = 3

// storedLine is the line as the item columns will hold it, so totals
// priced now agree with totals recomputed after a reload.
func storedLine(it LineInput) finance.Line {
	return finance.Line{
		Quantity:  it.Quantity.Round(quantityPlaces),
		UnitPrice: finance.Round(it.UnitPrice),
	}
}

// priceLines validates items and discount and returns the finance lines
// with their subtotal and grand total. A quantity that rounds to zero is
// rejected.
func priceLines(items []LineInput, discount decimal.Decimal) ([]finance.Line, decimal.Decimal, decimal.Decimal, error) {
	for _, it := range items {
		if strings.TrimSpace(it.Description) == "" {
			return nil, decimal.Zero, decimal.Zero, apperror.NewFieldError("items.description", "description is required")
		}
	}
	lines := make([]finance.Line, len(items))
	for i, it := range items {
		lines[i] = storedLine(it)
	}
	if err := finance.ValidateLines(lines); err != nil {
		return nil, decimal.Zero, decimal.Zero, financeFieldError(err)
	}
	sub := finance.Subtotal(lines)
	if err := finance.ValidateDiscount(sub, discount); err != nil {
		return nil, decimal.Zero, decimal.Zero, financeFieldError(err)
	}
	return lines, sub, finance.GrandTotal(sub, discount), nil
}

func billItems(items []LineInput) []entity.BillItem {
	out := make([]entity.BillItem, len(items))
	for i, it := range items {
		line := storedLine(it)
		out[i] = entity.BillItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       finance.LineTotal(line.Quantity, line.UnitPrice),
			Position:    i,
		}
	}
	return out
}

func invoiceItems(items []LineInput) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	for i, it := range items {
		line := storedLine(it)
		out[i] = entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       finance.LineTotal(line.Quantity, line.UnitPrice),
			Position:    i,
		}
	}
	return out
}

// BillView is a bill together with its computed payment state.
type BillView struct {
	entity.Bill
	Summary finance.Summary `json:"summary"`
}

// InvoiceView is an invoice together with its computed payment state.
type InvoiceView struct {
	entity.Invoice
	Summary finance.Summary `json:"summary"`
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// dateOnly truncates t to its calendar date at UTC midnight, the form
// date columns are stored in.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isDuplicate reports a unique index violation that slipped past the
// explicit existence check, e.g. two concurrent creates.
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
