package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := bill.Items
		bill.Items = nil
		if err := tx.Omit("Shop").Create(bill).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].BillID = bill.ID
			items[i].Position = i
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		bill.Items = items
		return nil
	})
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Items", itemsByPosition).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByNumber(ctx context.Context, shopID uuid.UUID, number string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND LOWER(number) = LOWER(?)", shopID, number).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Bill, error) {
	var bills []entity.Bill
	if len(ids) == 0 {
		return bills, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&bills).Error
	return bills, err
}

// Update saves the bill header and replaces its items.
func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := bill.Items
		if err := tx.Omit("Shop", "Items").Save(bill).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&entity.BillItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].BillID = bill.ID
			items[i].Position = i
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		bill.Items = items
		return nil
	})
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM critical_case_bills WHERE bill_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM warning_bills WHERE bill_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Bill{}, "id = ?", id).Error
	})
}

func (r *billRepository) ListByShop(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams, filter domainRepo.DocumentFilter) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("bills.shop_id = ?", shopID).
		Scopes(DocumentScope("bills", enum.DocumentBill, "credit_period_days", filter))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Preload("Items", itemsByPosition).
		Order("bills.date DESC, bills.created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListOutstanding(ctx context.Context) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Joins("LEFT JOIN (?) AS pt ON pt.document_id = bills.id", paidTotals(r.db, enum.DocumentBill)).
		Where("COALESCE(pt.paid, 0) < bills.grand_total").
		Preload("Shop").
		Preload("Items").
		Order("bills.date ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Where("shop_id = ?", shopID).Count(&count).Error
	return count, err
}
