package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

// DocumentFilter narrows bill and invoice listings. Status and Overdue are
// evaluated against the payments recorded so far; AsOf is the date overdue
// is measured on.
type DocumentFilter struct {
	Search  string
	Status  finance.PaymentStatus
	Overdue bool
	From    *time.Time
	To      *time.Time
	AsOf    time.Time
}

// BillRepository defines the interface for bill data operations.
// Create and Update write the bill and its items in one transaction.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByNumber(ctx context.Context, shopID uuid.UUID, number string) (*entity.Bill, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByShop(ctx context.Context, shopID uuid.UUID, params *pagination.PaginationParams, filter DocumentFilter) ([]entity.Bill, int64, error)
	// ListOutstanding returns every bill with a remaining balance, shop preloaded.
	ListOutstanding(ctx context.Context) ([]entity.Bill, error)
	CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error)
}

// InvoiceRepository mirrors BillRepository for supplier invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, supplierID uuid.UUID, number string) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params *pagination.PaginationParams, filter DocumentFilter) ([]entity.Invoice, int64, error)
	ListOutstanding(ctx context.Context) ([]entity.Invoice, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Supplier, int64, error)
}
