package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

// ShopFilter narrows shop listings.
type ShopFilter struct {
	Search   string
	District string
}

// ShopRepository defines the interface for shop data operations
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	GetByUsername(ctx context.Context, username string) (*entity.Shop, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter ShopFilter) ([]entity.Shop, int64, error)
}
