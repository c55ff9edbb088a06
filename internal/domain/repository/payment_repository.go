package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentRepository stores payments against bills and invoices.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDocument(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) ([]entity.Payment, error)
	SumByDocument(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) (decimal.Decimal, error)
	// SumByDocuments totals payments per document in one grouped query.
	// Documents without payments are absent from the map.
	SumByDocuments(ctx context.Context, docType enum.DocumentType, docIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	CountByDocument(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) (int64, error)
}
