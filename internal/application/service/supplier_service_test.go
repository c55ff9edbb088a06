package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
)

func TestCreateSupplierValidation(t *testing.T) {
	svc := NewSupplierService(newFakeSupplierRepo(), newFakeInvoiceRepo(), "")
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateSupplierInput
		field string
	}{
		{"missing name", CreateSupplierInput{Name: " ", Mobile: "0771234567"}, "name"},
		{"missing mobile", CreateSupplierInput{Name: "Ceylon Traders"}, "mobile"},
		{"bad mobile", CreateSupplierInput{Name: "Ceylon Traders", Mobile: "12345"}, "mobile"},
		{"bad email", CreateSupplierInput{Name: "Ceylon Traders", Mobile: "0771234567", Email: ptr("nope")}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSupplier(ctx, &tt.input)
			assertField(t, err, tt.field)
		})
	}

	s, err := svc.CreateSupplier(ctx, &CreateSupplierInput{Name: " Ceylon Traders ", Mobile: "0771234567", Email: ptr(" sales@ceylon.lk ")})
	if err != nil {
		t.Fatalf("CreateSupplier() error = %v", err)
	}
	if s.Name != "Ceylon Traders" || *s.Email != "sales@ceylon.lk" {
		t.Errorf("supplier = %+v", s)
	}
}

func TestUpdateSupplier(t *testing.T) {
	existing := entity.Supplier{ID: uuid.New(), Name: "Ceylon Traders", Mobile: "0771234567"}
	svc := NewSupplierService(newFakeSupplierRepo(existing), newFakeInvoiceRepo(), "")
	ctx := context.Background()

	updated, err := svc.UpdateSupplier(ctx, &UpdateSupplierInput{ID: existing.ID, Name: ptr("Ceylon Traders Ltd")})
	if err != nil {
		t.Fatalf("UpdateSupplier() error = %v", err)
	}
	if updated.Name != "Ceylon Traders Ltd" || updated.Mobile != existing.Mobile {
		t.Errorf("supplier = %+v", updated)
	}

	_, err = svc.UpdateSupplier(ctx, &UpdateSupplierInput{ID: existing.ID, Mobile: ptr("abc")})
	assertField(t, err, "mobile")

	_, err = svc.UpdateSupplier(ctx, &UpdateSupplierInput{ID: uuid.New(), Name: ptr("x")})
	assertCode(t, err, http.StatusNotFound)
}

func TestDeleteSupplierWithInvoices(t *testing.T) {
	supplier := entity.Supplier{ID: uuid.New(), Name: "Ceylon Traders", Mobile: "0771234567"}
	invoices := newFakeInvoiceRepo(entity.Invoice{ID: uuid.New(), SupplierID: supplier.ID, Number: "INV-1"})
	suppliers := newFakeSupplierRepo(supplier)
	svc := NewSupplierService(suppliers, invoices, "")
	ctx := context.Background()

	assertCode(t, svc.DeleteSupplier(ctx, supplier.ID), http.StatusConflict)

	for id := range invoices.invoices {
		delete(invoices.invoices, id)
	}
	if err := svc.DeleteSupplier(ctx, supplier.ID); err != nil {
		t.Fatalf("DeleteSupplier() error = %v", err)
	}
	if _, ok := suppliers.suppliers[supplier.ID]; ok {
		t.Error("supplier still stored")
	}
}
