package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotalAndGrandTotal(t *testing.T) {
	lines := []Line{
		{Quantity: d("2"), UnitPrice: d("150.50")},
		{Quantity: d("1.5"), UnitPrice: d("40")},
		{Quantity: d("3"), UnitPrice: d("0")},
	}

	sub := Subtotal(lines)
	if !sub.Equal(d("361")) {
		t.Fatalf("Subtotal = %s, want 361", sub)
	}

	tests := []struct {
		discount string
		want     string
	}{
		{"0", "361"},
		{"61", "300"},
		{"361", "0"},
	}
	for _, tt := range tests {
		got := GrandTotal(sub, d(tt.discount))
		if !got.Equal(d(tt.want)) {
			t.Errorf("GrandTotal(%s, %s) = %s, want %s", sub, tt.discount, got, tt.want)
		}
		// grand total is always subtotal minus discount
		if !got.Add(d(tt.discount)).Equal(sub) {
			t.Errorf("grand total + discount != subtotal for discount %s", tt.discount)
		}
	}
}

func TestRemainingClampsAtZero(t *testing.T) {
	tests := []struct {
		grand string
		paid  []string
		want  string
	}{
		{"1000", nil, "1000"},
		{"1000", []string{"250", "250"}, "500"},
		{"1000", []string{"1000"}, "0"},
		{"1000", []string{"800", "400"}, "0"},
		{"0", []string{"10"}, "0"},
	}
	for _, tt := range tests {
		var amounts []decimal.Decimal
		for _, p := range tt.paid {
			amounts = append(amounts, d(p))
		}
		got := Remaining(d(tt.grand), TotalPaid(amounts))
		if !got.Equal(d(tt.want)) {
			t.Errorf("Remaining(%s, %v) = %s, want %s", tt.grand, tt.paid, got, tt.want)
		}
		if got.IsNegative() {
			t.Errorf("remaining must never be negative, got %s", got)
		}
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		grand, paid string
		want        PaymentStatus
	}{
		{"100", "0", StatusUnpaid},
		{"100", "40", StatusPartial},
		{"100", "100", StatusPaid},
		{"100", "120", StatusPaid},
		{"0", "0", StatusPaid},
	}
	for _, tt := range tests {
		if got := StatusOf(d(tt.grand), d(tt.paid)); got != tt.want {
			t.Errorf("StatusOf(%s, %s) = %s, want %s", tt.grand, tt.paid, got, tt.want)
		}
	}
}

func TestRemainingCreditDays(t *testing.T) {
	colombo := time.FixedZone("Asia/Colombo", 5*3600+1800)
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		creditDays int
		now        time.Time
		want       int
	}{
		{"same day", 30, time.Date(2024, 3, 1, 23, 0, 0, 0, colombo), 30},
		{"ten days later", 30, time.Date(2024, 3, 11, 8, 0, 0, 0, colombo), 20},
		{"last day of credit", 30, time.Date(2024, 3, 31, 0, 0, 1, 0, colombo), 0},
		{"overdue", 7, time.Date(2024, 3, 20, 12, 0, 0, 0, colombo), -12},
		{"no credit", 0, time.Date(2024, 3, 2, 0, 0, 0, 0, colombo), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemainingCreditDays(tt.creditDays, date, tt.now)
			if got != tt.want {
				t.Fatalf("RemainingCreditDays = %d, want %d", got, tt.want)
			}
			if got != tt.creditDays-DaysSince(date, tt.now) {
				t.Fatalf("remaining credit days must equal creditDays - days elapsed")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	doc := Document{
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CreditDays: 14,
		Discount:   d("50"),
		Lines: []Line{
			{Quantity: d("10"), UnitPrice: d("25")},
			{Quantity: d("2"), UnitPrice: d("100")},
		},
	}
	now := time.Date(2024, 1, 30, 9, 0, 0, 0, time.UTC)

	s := Summarize(doc, []decimal.Decimal{d("100"), d("50.25")}, now)

	if !s.SubTotal.Equal(d("450")) || !s.GrandTotal.Equal(d("400")) {
		t.Fatalf("totals = %s / %s", s.SubTotal, s.GrandTotal)
	}
	if !s.TotalPaid.Equal(d("150.25")) || !s.Remaining.Equal(d("249.75")) {
		t.Fatalf("paid/remaining = %s / %s", s.TotalPaid, s.Remaining)
	}
	if s.RemainingCreditDays != -6 || !s.Overdue {
		t.Fatalf("expected overdue by 6 days, got %d overdue=%v", s.RemainingCreditDays, s.Overdue)
	}
	if s.Status != StatusPartial {
		t.Fatalf("status = %s", s.Status)
	}
	wantDue := time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)
	if !s.DueDate.Equal(wantDue) {
		t.Fatalf("due date = %s, want %s", s.DueDate, wantDue)
	}

	settled := Summarize(doc, []decimal.Decimal{d("400")}, now)
	if settled.Overdue {
		t.Fatalf("a fully paid document is never overdue")
	}
}

func TestValidation(t *testing.T) {
	if err := ValidateLines(nil); !errors.Is(err, ErrNoLines) {
		t.Errorf("ValidateLines(nil) = %v", err)
	}
	if err := ValidateLines([]Line{{Quantity: d("0"), UnitPrice: d("1")}}); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity = %v", err)
	}
	if err := ValidateLines([]Line{{Quantity: d("1"), UnitPrice: d("-1")}}); !errors.Is(err, ErrNegativeUnitPrice) {
		t.Errorf("negative price = %v", err)
	}

	if err := ValidateDiscount(d("100"), d("-1")); !errors.Is(err, ErrNegativeDiscount) {
		t.Errorf("negative discount = %v", err)
	}
	if err := ValidateDiscount(d("100"), d("100.01")); !errors.Is(err, ErrDiscountExceedsSubtotal) {
		t.Errorf("discount > subtotal = %v", err)
	}
	if err := ValidateDiscount(d("100"), d("100")); err != nil {
		t.Errorf("discount == subtotal = %v", err)
	}

	if err := ValidatePayment(d("0"), d("10")); !errors.Is(err, ErrNonPositivePayment) {
		t.Errorf("zero payment = %v", err)
	}
	if err := ValidatePayment(d("10.01"), d("10")); !errors.Is(err, ErrOverpayment) {
		t.Errorf("overpayment = %v", err)
	}
	if err := ValidatePayment(d("10"), d("10")); err != nil {
		t.Errorf("exact payment = %v", err)
	}
}
