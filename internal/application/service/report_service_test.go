package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/pkg/export"
	"github.com/xuri/excelize/v2"
)

func readSheet(t *testing.T, f *excelize.File) [][]string {
	t.Helper()
	var buf bytes.Buffer
	if err := export.Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer out.Close()
	rows, err := out.GetRows(out.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return rows
}

func TestOutstandingBillsReport(t *testing.T) {
	shop := &entity.Shop{ID: uuid.New(), Name: "Lanka Stores"}
	bill := creditBill(shop)
	payments := newFakePaymentRepo()
	_ = payments.Create(context.Background(), &entity.Payment{
		DocumentType: enum.DocumentBill, DocumentID: bill.ID, Amount: dec("400"), Date: fixedNow,
	})
	svc := NewReportService(newFakeBillRepo(bill), newFakeInvoiceRepo(), payments, fixedClock)

	f, err := svc.OutstandingBills(context.Background())
	if err != nil {
		t.Fatalf("OutstandingBills() error = %v", err)
	}
	rows := readSheet(t, f)
	if len(rows) != 2 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0][0] != "Shop" || rows[1][0] != "Lanka Stores" || rows[1][1] != "B-100" {
		t.Errorf("rows = %v", rows)
	}
	if rows[1][5] != "400" || rows[1][6] != "600" || rows[1][7] != "27" {
		t.Errorf("amounts = %v", rows[1])
	}
}

func TestOutstandingInvoicesReport(t *testing.T) {
	supplier := &entity.Supplier{ID: uuid.New(), Name: "Ceylon Traders"}
	invoice := entity.Invoice{
		ID:         uuid.New(),
		SupplierID: supplier.ID,
		Supplier:   supplier,
		Number:     "INV-9",
		Date:       fixedNow.AddDate(0, 0, -40),
		CreditDays: 30,
		Items: []entity.InvoiceItem{
			{Description: "Flour", Quantity: dec("10"), UnitPrice: dec("150"), Total: dec("1500")},
		},
	}
	svc := NewReportService(newFakeBillRepo(), newFakeInvoiceRepo(invoice), newFakePaymentRepo(), fixedClock)

	f, err := svc.OutstandingInvoices(context.Background())
	if err != nil {
		t.Fatalf("OutstandingInvoices() error = %v", err)
	}
	rows := readSheet(t, f)
	if len(rows) != 2 || rows[0][0] != "Supplier" {
		t.Fatalf("rows = %v", rows)
	}
	if rows[1][6] != "1500" || rows[1][8] != "Yes" {
		t.Errorf("row = %v", rows[1])
	}
}
