package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
)

func TestCreateCriticalCaseLinks(t *testing.T) {
	shopA := entity.Shop{ID: uuid.New(), Name: "A"}
	shopB := entity.Shop{ID: uuid.New(), Name: "B"}
	billA := entity.Bill{ID: uuid.New(), ShopID: shopA.ID, Number: "A-1"}
	billB := entity.Bill{ID: uuid.New(), ShopID: shopB.ID, Number: "B-1"}
	svc := NewCriticalCaseService(newFakeCaseRepo(), newFakeShopRepo(shopA, shopB), newFakeBillRepo(billA, billB))
	ctx := context.Background()

	tests := []struct {
		name      string
		shops     []uuid.UUID
		bills     []uuid.UUID
		severity  enum.Severity
		field     string
		wantShops int
		wantBills int
	}{
		{name: "shops and own bills", shops: []uuid.UUID{shopA.ID, shopB.ID, shopA.ID}, bills: []uuid.UUID{billA.ID, billB.ID}, severity: enum.SeverityHigh, wantShops: 2, wantBills: 2},
		{name: "shop only", shops: []uuid.UUID{shopA.ID}, severity: enum.SeverityLow, wantShops: 1},
		{name: "no shops", bills: []uuid.UUID{billA.ID}, severity: enum.SeverityLow, field: "shop_ids"},
		{name: "unknown shop", shops: []uuid.UUID{uuid.New()}, severity: enum.SeverityLow, field: "shop_ids"},
		{name: "bill outside listed shops", shops: []uuid.UUID{shopA.ID}, bills: []uuid.UUID{billB.ID}, severity: enum.SeverityLow, field: "bill_ids"},
		{name: "unknown bill", shops: []uuid.UUID{shopA.ID}, bills: []uuid.UUID{uuid.New()}, severity: enum.SeverityLow, field: "bill_ids"},
		{name: "bad severity", shops: []uuid.UUID{shopA.ID}, severity: "extreme", field: "severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := svc.CreateCriticalCase(ctx, &CreateCriticalCaseInput{
				ShopIDs:     tt.shops,
				BillIDs:     tt.bills,
				Description: "Repeated bounced cheques",
				Severity:    tt.severity,
			})
			if tt.field != "" {
				assertField(t, err, tt.field)
				return
			}
			if err != nil {
				t.Fatalf("CreateCriticalCase() error = %v", err)
			}
			if len(c.Shops) != tt.wantShops || len(c.Bills) != tt.wantBills {
				t.Errorf("links = %d shops %d bills, want %d/%d", len(c.Shops), len(c.Bills), tt.wantShops, tt.wantBills)
			}
		})
	}
}

func TestDeleteCriticalCase(t *testing.T) {
	shop := entity.Shop{ID: uuid.New(), Name: "A"}
	svc := NewCriticalCaseService(newFakeCaseRepo(), newFakeShopRepo(shop), newFakeBillRepo())
	ctx := context.Background()

	c, err := svc.CreateCriticalCase(ctx, &CreateCriticalCaseInput{ShopIDs: []uuid.UUID{shop.ID}, Description: "d", Severity: enum.SeverityCritical})
	if err != nil {
		t.Fatalf("CreateCriticalCase() error = %v", err)
	}
	if err := svc.DeleteCriticalCase(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCriticalCase() error = %v", err)
	}
	_, err = svc.GetCriticalCase(ctx, c.ID)
	appErr := assertCode(t, err, http.StatusNotFound)
	if appErr.Message != "Critical case not found" {
		t.Errorf("message = %q", appErr.Message)
	}
}
