package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"gorm.io/gorm"
)

type shopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new shop repository
func NewShopRepository(db *gorm.DB) domainRepo.ShopRepository {
	return &shopRepository{db: db}
}

func (r *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *shopRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) GetByUsername(ctx context.Context, username string) (*entity.Shop, error) {
	var shop entity.Shop
	err := r.db.WithContext(ctx).First(&shop, "LOWER(username) = LOWER(?)", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

func (r *shopRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Shop, error) {
	var shops []entity.Shop
	if len(ids) == 0 {
		return shops, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&shops).Error
	return shops, err
}

func (r *shopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

func (r *shopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM critical_case_shops WHERE shop_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Shop{}, "id = ?", id).Error
	})
}

func (r *shopRepository) List(ctx context.Context, params *pagination.PaginationParams, filter domainRepo.ShopFilter) ([]entity.Shop, int64, error) {
	var shops []entity.Shop
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Shop{}).
		Scopes(Search(filter.Search, "name", "owner_name", "username", "phone"))
	if filter.District != "" {
		query = query.Where("LOWER(district) = LOWER(?)", filter.District)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&shops).Error
	return shops, total, err
}
