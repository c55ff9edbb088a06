// Package finance holds the billing arithmetic shared by bills and invoices:
// line totals, subtotal, grand total, payments, remaining balance and the
// credit-day countdown. All amounts are decimals rounded to cents.
package finance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	ErrNoLines                 = errors.New("at least one item is required")
	ErrInvalidQuantity         = errors.New("quantity must be greater than zero")
	ErrNegativeUnitPrice       = errors.New("unit price cannot be negative")
	ErrNegativeDiscount        = errors.New("discount cannot be negative")
	ErrDiscountExceedsSubtotal = errors.New("discount cannot exceed the subtotal")
	ErrNegativeCreditDays      = errors.New("credit days cannot be negative")
	ErrNonPositivePayment      = errors.New("payment amount must be greater than zero")
	ErrOverpayment             = errors.New("payment amount exceeds the remaining balance")
)

// PaymentStatus describes how much of a document has been settled.
type PaymentStatus string

const (
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
	StatusPaid    PaymentStatus = "paid"
)

// IsValid reports whether s is one of the known statuses.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case StatusUnpaid, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// Line is a single priced row of a bill or invoice.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Document is the part of a bill or invoice the arithmetic needs.
type Document struct {
	Date       time.Time
	CreditDays int
	Discount   decimal.Decimal
	Lines      []Line
}

// Summary is the computed financial state of a document at a point in time.
type Summary struct {
	SubTotal            decimal.Decimal `json:"sub_total"`
	Discount            decimal.Decimal `json:"discount"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
	TotalPaid           decimal.Decimal `json:"total_paid"`
	Remaining           decimal.Decimal `json:"remaining"`
	CreditDays          int             `json:"credit_days"`
	RemainingCreditDays int             `json:"remaining_credit_days"`
	DueDate             time.Time       `json:"due_date"`
	Status              PaymentStatus   `json:"status"`
	Overdue             bool            `json:"overdue"`
}

// Round rounds an amount to cents.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// LineTotal returns quantity × unit price.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(quantity.Mul(unitPrice))
}

// Subtotal sums the line totals.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

// GrandTotal returns subtotal − discount.
func GrandTotal(subtotal, discount decimal.Decimal) decimal.Decimal {
	return Round(subtotal.Sub(discount))
}

// TotalPaid sums payment amounts.
func TotalPaid(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// Remaining returns grandTotal − paid, never below zero.
func Remaining(grandTotal, paid decimal.Decimal) decimal.Decimal {
	r := grandTotal.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return Round(r)
}

// StatusOf derives the payment status from grand total and amount paid.
func StatusOf(grandTotal, paid decimal.Decimal) PaymentStatus {
	switch {
	case !paid.IsPositive():
		if !grandTotal.IsPositive() {
			return StatusPaid
		}
		return StatusUnpaid
	case Remaining(grandTotal, paid).IsZero():
		return StatusPaid
	default:
		return StatusPartial
	}
}

// DaysSince counts whole calendar days from the calendar date of date to
// the calendar date of now (in now's location). Future dates are negative.
func DaysSince(date, now time.Time) int {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// RemainingCreditDays returns creditDays − DaysSince(date, now). A negative
// result means the credit period has run out.
func RemainingCreditDays(creditDays int, date, now time.Time) int {
	return creditDays - DaysSince(date, now)
}

// DueDate returns the calendar date on which the credit period ends.
func DueDate(date time.Time, creditDays int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, creditDays)
}

// Summarize computes every derived figure for doc given its payments.
func Summarize(doc Document, payments []decimal.Decimal, now time.Time) Summary {
	sub := Subtotal(doc.Lines)
	grand := GrandTotal(sub, doc.Discount)
	paid := TotalPaid(payments)
	remaining := Remaining(grand, paid)
	remainingDays := RemainingCreditDays(doc.CreditDays, doc.Date, now)

	return Summary{
		SubTotal:            sub,
		Discount:            Round(doc.Discount),
		GrandTotal:          grand,
		TotalPaid:           paid,
		Remaining:           remaining,
		CreditDays:          doc.CreditDays,
		RemainingCreditDays: remainingDays,
		DueDate:             DueDate(doc.Date, doc.CreditDays),
		Status:              StatusOf(grand, paid),
		Overdue:             remaining.IsPositive() && remainingDays < 0,
	}
}

// ValidateLines checks every line has a positive quantity and a
// non-negative unit price.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrNoLines
	}
	for _, l := range lines {
		if !l.Quantity.IsPositive() {
			return ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return ErrNegativeUnitPrice
		}
	}
	return nil
}

// ValidateDiscount requires 0 <= discount <= subtotal.
func ValidateDiscount(subtotal, discount decimal.Decimal) error {
	if discount.IsNegative() {
		return ErrNegativeDiscount
	}
	if discount.GreaterThan(subtotal) {
		return ErrDiscountExceedsSubtotal
	}
	return nil
}

// ValidatePayment requires 0 < amount <= remaining.
func ValidatePayment(amount, remaining decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositivePayment
	}
	if Round(amount).GreaterThan(remaining) {
		return ErrOverpayment
	}
	return nil
}
