package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

// NoteService handles dated notes, optionally tied to a shop or bill
type NoteService struct {
	noteRepo repository.NoteRepository
	shopRepo repository.ShopRepository
	billRepo repository.BillRepository
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo repository.NoteRepository, shopRepo repository.ShopRepository, billRepo repository.BillRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo, shopRepo: shopRepo, billRepo: billRepo}
}

// NormalizeTags trims, lower-cases and de-duplicates tags, keeping the
// first occurrence order and dropping blanks.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CreateNoteInput represents the create note input
type CreateNoteInput struct {
	Date      time.Time
	Title     string
	Content   string
	Priority  enum.Priority
	ShopID    *uuid.UUID
	BillID    *uuid.UUID
	Tags      []string
	CreatedBy *uuid.UUID
}

// checkLinks verifies the optional shop and bill exist and agree.
func (s *NoteService) checkLinks(ctx context.Context, shopID, billID *uuid.UUID) error {
	if shopID != nil {
		shop, err := s.shopRepo.GetByID(ctx, *shopID)
		if err != nil {
			return err
		}
		if shop == nil {
			return apperror.NewFieldError("shop_id", "shop does not exist")
		}
	}
	if billID != nil {
		bill, err := s.billRepo.GetByID(ctx, *billID)
		if err != nil {
			return err
		}
		if bill == nil {
			return apperror.NewFieldError("bill_id", "bill does not exist")
		}
		if shopID != nil && bill.ShopID != *shopID {
			return apperror.NewFieldError("bill_id", "bill does not belong to this shop")
		}
	}
	return nil
}

// CreateNote creates a note
func (s *NoteService) CreateNote(ctx context.Context, input *CreateNoteInput) (*entity.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	switch {
	case input.Date.IsZero():
		return nil, apperror.NewFieldError("date", "date is required")
	case title == "":
		return nil, apperror.NewFieldError("title", "title is required")
	case content == "":
		return nil, apperror.NewFieldError("content", "content is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enum.PriorityMedium
	}
	if !priority.IsValidNotePriority() {
		return nil, apperror.NewFieldError("priority", "priority must be low, medium or high")
	}
	if err := s.checkLinks(ctx, input.ShopID, input.BillID); err != nil {
		return nil, err
	}

	note := &entity.Note{
		Date:      dateOnly(input.Date),
		Title:     title,
		Content:   content,
		Priority:  priority,
		ShopID:    input.ShopID,
		BillID:    input.BillID,
		Tags:      NormalizeTags(input.Tags),
		CreatedBy: input.CreatedBy,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// GetNote retrieves a note by ID
func (s *NoteService) GetNote(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, apperror.NewNotFoundError("Note")
	}
	return note, nil
}

// ListNotes lists notes by priority, shop, bill, tag or text search
func (s *NoteService) ListNotes(ctx context.Context, params *pagination.PaginationParams, filter repository.NoteFilter) (*pagination.PaginatedResult[entity.Note], error) {
	if filter.Priority != "" && !filter.Priority.IsValidNotePriority() {
		return nil, apperror.NewBadRequestError("unknown note priority")
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	notes, total, err := s.noteRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(notes, pag), nil
}

// UpdateNoteInput represents the update note input. ClearShop and
// ClearBill detach the note from its shop or bill.
type UpdateNoteInput struct {
	ID        uuid.UUID
	Date      *time.Time
	Title     *string
	Content   *string
	Priority  *enum.Priority
	ShopID    *uuid.UUID
	BillID    *uuid.UUID
	ClearShop bool
	ClearBill bool
	Tags      []string
}

// UpdateNote updates a note
func (s *NoteService) UpdateNote(ctx context.Context, input *UpdateNoteInput) (*entity.Note, error) {
	note, err := s.GetNote(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, apperror.NewFieldError("date", "date is required")
		}
		note.Date = dateOnly(*input.Date)
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.NewFieldError("title", "title is required")
		}
		note.Title = title
	}
	if input.Content != nil {
		content := strings.TrimSpace(*input.Content)
		if content == "" {
			return nil, apperror.NewFieldError("content", "content is required")
		}
		note.Content = content
	}
	if input.Priority != nil {
		if !input.Priority.IsValidNotePriority() {
			return nil, apperror.NewFieldError("priority", "priority must be low, medium or high")
		}
		note.Priority = *input.Priority
	}
	if input.Tags != nil {
		note.Tags = NormalizeTags(input.Tags)
	}

	shopID, billID := note.ShopID, note.BillID
	if input.ClearShop {
		shopID = nil
	} else if input.ShopID != nil {
		shopID = input.ShopID
	}
	if input.ClearBill {
		billID = nil
	} else if input.BillID != nil {
		billID = input.BillID
	}
	if err := s.checkLinks(ctx, shopID, billID); err != nil {
		return nil, err
	}
	note.ShopID, note.BillID = shopID, billID
	note.Shop, note.Bill = nil, nil

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote deletes a note
func (s *NoteService) DeleteNote(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetNote(ctx, id); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, id)
}
