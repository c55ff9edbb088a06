package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

type CriticalCaseFilter struct {
	Severity enum.Severity
	ShopID   *uuid.UUID
}

// CriticalCaseRepository defines the interface for critical case data operations.
// Create and Update replace the shop and bill associations.
type CriticalCaseRepository interface {
	Create(ctx context.Context, c *entity.CriticalCase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CriticalCase, error)
	Update(ctx context.Context, c *entity.CriticalCase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter CriticalCaseFilter) ([]entity.CriticalCase, int64, error)
}

type TicketFilter struct {
	Status   enum.TicketStatus
	Priority enum.Priority
	ShopID   *uuid.UUID
}

type TicketRepository interface {
	Create(ctx context.Context, t *entity.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	Update(ctx context.Context, t *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter TicketFilter) ([]entity.Ticket, int64, error)
}

type WarningFilter struct {
	Status enum.WarningStatus
	ShopID *uuid.UUID
}

type WarningRepository interface {
	Create(ctx context.Context, w *entity.Warning) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Warning, error)
	Update(ctx context.Context, w *entity.Warning) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter WarningFilter) ([]entity.Warning, int64, error)
}

type NoteFilter struct {
	Search   string
	Priority enum.Priority
	ShopID   *uuid.UUID
	BillID   *uuid.UUID
	Tag      string
}

type NoteRepository interface {
	Create(ctx context.Context, n *entity.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, filter NoteFilter) ([]entity.Note, int64, error)
}
