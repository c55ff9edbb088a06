package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"gorm.io/gorm"
)

type criticalCaseRepository struct {
	db *gorm.DB
}

// NewCriticalCaseRepository creates a new critical case repository
func NewCriticalCaseRepository(db *gorm.DB) domainRepo.CriticalCaseRepository {
	return &criticalCaseRepository{db: db}
}

func (r *criticalCaseRepository) Create(ctx context.Context, c *entity.CriticalCase) error {
	return r.db.WithContext(ctx).Omit("Shops.*", "Bills.*").Create(c).Error
}

func (r *criticalCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CriticalCase, error) {
	var c entity.CriticalCase
	err := r.db.WithContext(ctx).Preload("Shops").Preload("Bills").First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *criticalCaseRepository) Update(ctx context.Context, c *entity.CriticalCase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Shops", "Bills").Save(c).Error; err != nil {
			return err
		}
		if err := tx.Model(c).Omit("Shops.*").Association("Shops").Replace(c.Shops); err != nil {
			return err
		}
		return tx.Model(c).Omit("Bills.*").Association("Bills").Replace(c.Bills)
	})
}

func (r *criticalCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c := &entity.CriticalCase{ID: id}
		if err := tx.Model(c).Association("Shops").Clear(); err != nil {
			return err
		}
		if err := tx.Model(c).Association("Bills").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entity.CriticalCase{}, "id = ?", id).Error
	})
}

func (r *criticalCaseRepository) List(ctx context.Context, params *pagination.PaginationParams, filter domainRepo.CriticalCaseFilter) ([]entity.CriticalCase, int64, error) {
	var cases []entity.CriticalCase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CriticalCase{})
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.ShopID != nil {
		query = query.Where("id IN (?)", r.db.Table("critical_case_shops").
			Select("critical_case_id").Where("shop_id = ?", *filter.ShopID))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Preload("Shops").Preload("Bills").
		Order("created_at DESC").
		Find(&cases).Error
	return cases, total, err
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) domainRepo.TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, t *entity.Ticket) error {
	return r.db.WithContext(ctx).Omit("Shop").Create(t).Error
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	var t entity.Ticket
	err := r.db.WithContext(ctx).Preload("Shop").First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *ticketRepository) Update(ctx context.Context, t *entity.Ticket) error {
	return r.db.WithContext(ctx).Omit("Shop").Save(t).Error
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Ticket{}, "id = ?", id).Error
}

func (r *ticketRepository) List(ctx context.Context, params *pagination.PaginationParams, filter domainRepo.TicketFilter) ([]entity.Ticket, int64, error) {
	var tickets []entity.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ticket{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Preload("Shop").
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, total, err
}

type warningRepository struct {
	db *gorm.DB
}

// NewWarningRepository creates a new warning repository
func NewWarningRepository(db *gorm.DB) domainRepo.WarningRepository {
	return &warningRepository{db: db}
}

func (r *warningRepository) Create(ctx context.Context, w *entity.Warning) error {
	return r.db.WithContext(ctx).Omit("Shop", "Bills.*").Create(w).Error
}

func (r *warningRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Warning, error) {
	var w entity.Warning
	err := r.db.WithContext(ctx).Preload("Shop").Preload("Bills").First(&w, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &w, err
}

func (r *warningRepository) Update(ctx context.Context, w *entity.Warning) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Shop", "Bills").Save(w).Error; err != nil {
			return err
		}
		return tx.Model(w).Omit("Bills.*").Association("Bills").Replace(w.Bills)
	})
}

func (r *warningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Warning{ID: id}).Association("Bills").Clear(); err != nil {
			return err
		}
		return tx.Delete(&entity.Warning{}, "id = ?", id).Error
	})
}

func (r *warningRepository) List(ctx context.Context, params *pagination.PaginationParams, filter domainRepo.WarningFilter) ([]entity.Warning, int64, error) {
	var warnings []entity.Warning
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Warning{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Preload("Shop").Preload("Bills").
		Order("created_at DESC").
		Find(&warnings).Error
	return warnings, total, err
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *gorm.DB) domainRepo.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, n *entity.Note) error {
	return r.db.WithContext(ctx).Omit("Shop", "Bill").Create(n).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var n entity.Note
	err := r.db.WithContext(ctx).Preload("Shop").Preload("Bill").First(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &n, err
}

func (r *noteRepository) Update(ctx context.Context, n *entity.Note) error {
	return r.db.WithContext(ctx).Omit("Shop", "Bill").Save(n).Error
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Note{}, "id = ?", id).Error
}

func (r *noteRepository) List(ctx context.Context, params *pagination.PaginationParams, filter domainRepo.NoteFilter) ([]entity.Note, int64, error) {
	var notes []entity.Note
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Note{}).
		Scopes(Search(filter.Search, "title", "content"))
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.BillID != nil {
		query = query.Where("bill_id = ?", *filter.BillID)
	}
	if filter.Tag != "" {
		tag, _ := json.Marshal([]string{filter.Tag})
		query = query.Where("tags @> ?::jsonb", string(tag))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("date DESC, created_at DESC").
		Find(&notes).Error
	return notes, total, err
}
