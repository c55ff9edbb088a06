package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

type invoiceFixture struct {
	svc      *InvoiceService
	supplier entity.Supplier
	invoices *fakeInvoiceRepo
	payments *fakePaymentRepo
	cache    *memCache
}

func newInvoiceFixture() *invoiceFixture {
	supplier := entity.Supplier{ID: uuid.New(), Name: "Ceylon Traders", Mobile: "0771234567"}
	f := &invoiceFixture{
		supplier: supplier,
		invoices: newFakeInvoiceRepo(),
		payments: newFakePaymentRepo(),
		cache:    newMemCache(),
	}
	f.svc = NewInvoiceService(f.invoices, newFakeSupplierRepo(supplier), f.payments, f.cache, quietLogger(), fixedClock)
	return f
}

func (f *invoiceFixture) create(t *testing.T, number string) *InvoiceView {
	t.Helper()
	view, err := f.svc.CreateInvoice(context.Background(), &CreateInvoiceInput{
		SupplierID: f.supplier.ID,
		Number:     number,
		Date:       fixedNow.AddDate(0, 0, -5),
		CreditDays: 30,
		Discount:   dec("401"),
		Items:      twoLines(),
	})
	if err != nil {
		t.Fatalf("CreateInvoice() error = %v", err)
	}
	return view
}

func TestCreateInvoice(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()

	view := f.create(t, " INV-001 ")
	if view.Number != "INV-001" {
		t.Errorf("number = %q", view.Number)
	}
	if !view.Summary.SubTotal.Equal(dec("3401")) || !view.Summary.GrandTotal.Equal(dec("3000")) {
		t.Errorf("totals = %s / %s", view.Summary.SubTotal, view.Summary.GrandTotal)
	}
	if view.Summary.Status != finance.StatusUnpaid || view.Summary.RemainingCreditDays != 25 {
		t.Errorf("summary = %+v", view.Summary)
	}
	if len(f.cache.deleted) == 0 {
		t.Error("dashboard cache not invalidated")
	}

	_, err := f.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		SupplierID: f.supplier.ID, Number: "INV-001", Date: fixedNow, Items: twoLines(),
	})
	assertCode(t, err, http.StatusConflict)

	_, err = f.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		SupplierID: uuid.New(), Number: "INV-002", Date: fixedNow, Items: twoLines(),
	})
	assertCode(t, err, http.StatusNotFound)

	_, err = f.svc.CreateInvoice(ctx, &CreateInvoiceInput{
		SupplierID: f.supplier.ID, Number: "INV-003", Items: twoLines(),
	})
	assertField(t, err, "date")
}

func TestInvoicePaymentsAndDelete(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()
	view := f.create(t, "INV-010")

	_ = f.payments.Create(ctx, &entity.Payment{
		DocumentType: enum.DocumentInvoice,
		DocumentID:   view.ID,
		Amount:       dec("1000"),
		Date:         fixedNow,
	})

	sum, err := f.svc.GetSummary(ctx, view.ID)
	if err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}
	if sum.Status != finance.StatusPartial || !sum.Remaining.Equal(dec("2000")) {
		t.Errorf("summary = %+v", sum)
	}

	page, err := f.svc.ListInvoices(ctx, f.supplier.ID, pagination.FromQuery("", ""), repository.DocumentFilter{})
	if err != nil {
		t.Fatalf("ListInvoices() error = %v", err)
	}
	if len(page.Items) != 1 || !page.Items[0].Summary.TotalPaid.Equal(dec("1000")) {
		t.Errorf("list = %+v", page.Items)
	}

	assertCode(t, f.svc.DeleteInvoice(ctx, view.ID), http.StatusConflict)
}

func TestUpdateInvoiceRenumber(t *testing.T) {
	f := newInvoiceFixture()
	ctx := context.Background()
	first := f.create(t, "INV-1")
	second := f.create(t, "INV-2")

	_, err := f.svc.UpdateInvoice(ctx, &UpdateInvoiceInput{ID: second.ID, Number: ptr("INV-1")})
	assertCode(t, err, http.StatusConflict)

	updated, err := f.svc.UpdateInvoice(ctx, &UpdateInvoiceInput{ID: first.ID, Number: ptr("INV-1"), Discount: ptr(dec("0"))})
	if err != nil {
		t.Fatalf("UpdateInvoice() error = %v", err)
	}
	if !updated.Summary.GrandTotal.Equal(dec("3401")) {
		t.Errorf("grand total = %s", updated.Summary.GrandTotal)
	}
}
