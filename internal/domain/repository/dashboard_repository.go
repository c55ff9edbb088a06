package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Counts holds the record totals shown on the dashboard.
type Counts struct {
	Shops         int64
	Suppliers     int64
	OpenTickets   int64
	OpenWarnings  int64
	CriticalCases int64
}

// Outstanding is the unpaid side of bills or invoices.
type Outstanding struct {
	Total     decimal.Decimal
	Documents int64
	Overdue   int64
}

// DashboardRepository runs the aggregate queries behind the dashboard.
type DashboardRepository interface {
	Counts(ctx context.Context) (*Counts, error)
	// Receivables sums remaining balances of bills; overdue is judged on asOf.
	Receivables(ctx context.Context, asOf time.Time) (*Outstanding, error)
	Payables(ctx context.Context, asOf time.Time) (*Outstanding, error)
}
