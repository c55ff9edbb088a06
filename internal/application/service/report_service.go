package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/export"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ReportService builds spreadsheet exports of outstanding balances
type ReportService struct {
	billRepo    repository.BillRepository
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	now         Clock
}

// NewReportService creates a new report service
func NewReportService(billRepo repository.BillRepository, invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository, now Clock) *ReportService {
	return &ReportService{billRepo: billRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo, now: clockOrNow(now)}
}

func outstandingRow(party, number string, doc finance.Document, paid decimal.Decimal, now time.Time) export.OutstandingRow {
	sum := finance.Summarize(doc, []decimal.Decimal{paid}, now)
	return export.OutstandingRow{
		Party:               party,
		Number:              number,
		Date:                doc.Date,
		DueDate:             sum.DueDate,
		GrandTotal:          sum.GrandTotal,
		TotalPaid:           sum.TotalPaid,
		Remaining:           sum.Remaining,
		RemainingCreditDays: sum.RemainingCreditDays,
		Overdue:             sum.Overdue,
	}
}

// OutstandingBills lists every bill with a remaining balance, oldest first
func (s *ReportService) OutstandingBills(ctx context.Context) (*excelize.File, error) {
	bills, err := s.billRepo.ListOutstanding(ctx)
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

	now := s.now()
	rows := make([]export.OutstandingRow, 0, len(bills))
	for i := range bills {
		party := ""
		if bills[i].Shop != nil {
			party = bills[i].Shop.Name
		}
		rows = append(rows, outstandingRow(party, bills[i].Number, bills[i].FinanceDocument(), paid[bills[i].ID], now))
	}
	return export.Workbook(export.OutstandingHeadings("Shop"), rows)
}

// OutstandingInvoices lists every invoice with a remaining balance
func (s *ReportService) OutstandingInvoices(ctx context.Context) (*excelize.File, error) {
	invoices, err := s.invoiceRepo.ListOutstanding(ctx)
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

	now := s.now()
	rows := make([]export.OutstandingRow, 0, len(invoices))
	for i := range invoices {
		party := ""
		if invoices[i].Supplier != nil {
			party = invoices[i].Supplier.Name
		}
		rows = append(rows, outstandingRow(party, invoices[i].Number, invoices[i].FinanceDocument(), paid[invoices[i].ID], now))
	}
	return export.Workbook(export.OutstandingHeadings("Supplier"), rows)
}
