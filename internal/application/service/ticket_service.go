package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/apperror"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
)

// TicketService handles support tickets raised for shops
type TicketService struct {
	ticketRepo repository.TicketRepository
	shopRepo   repository.ShopRepository
	now        Clock
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo repository.TicketRepository, shopRepo repository.ShopRepository, now Clock) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, shopRepo: shopRepo, now: clockOrNow(now)}
}

// CreateTicketInput represents the create ticket input
type CreateTicketInput struct {
	ShopID      uuid.UUID
	Title       string
	Description string
	Priority    enum.Priority
	CreatedBy   *uuid.UUID
}

func (s *TicketService) requireShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, apperror.NewFieldError("shop_id", "shop does not exist")
	}
	return shop, nil
}

// CreateTicket opens a new ticket
func (s *TicketService) CreateTicket(ctx context.Context, input *CreateTicketInput) (*entity.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	switch {
	case title == "":
		return nil, apperror.NewFieldError("title", "title is required")
	case description == "":
		return nil, apperror.NewFieldError("description", "description is required")
	case !input.Priority.IsValid():
		return nil, apperror.NewFieldError("priority", "priority must be low, medium, high or urgent")
	}
	shop, err := s.requireShop(ctx, input.ShopID)
	if err != nil {
		return nil, err
	}

	ticket := &entity.Ticket{
		ShopID:      shop.ID,
		Title:       title,
		Description: description,
		Priority:    input.Priority,
		Status:      enum.TicketOpen,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.Shop = shop
	return ticket, nil
}

// GetTicket retrieves a ticket by ID
func (s *TicketService) GetTicket(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperror.NewNotFoundError("Ticket")
	}
	return ticket, nil
}

// ListTickets lists tickets by status, priority or shop
func (s *TicketService) ListTickets(ctx context.Context, params *pagination.PaginationParams, filter repository.TicketFilter) (*pagination.PaginatedResult[entity.Ticket], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, apperror.NewBadRequestError("unknown ticket status")
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return nil, apperror.NewBadRequestError("unknown priority")
	}
	tickets, total, err := s.ticketRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(tickets, pag), nil
}

// UpdateTicketInput represents the update ticket input. Status changes go
// through UpdateStatus.
type UpdateTicketInput struct {
	ID          uuid.UUID
	ShopID      *uuid.UUID
	Title       *string
	Description *string
	Priority    *enum.Priority
}

// UpdateTicket updates a ticket's content
func (s *TicketService) UpdateTicket(ctx context.Context, input *UpdateTicketInput) (*entity.Ticket, error) {
	ticket, err := s.GetTicket(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ShopID != nil && *input.ShopID != ticket.ShopID {
		shop, err := s.requireShop(ctx, *input.ShopID)
		if err != nil {
			return nil, err
		}
		ticket.ShopID = shop.ID
		ticket.Shop = shop
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.NewFieldError("title", "title is required")
		}
		ticket.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperror.NewFieldError("description", "description is required")
		}
		ticket.Description = description
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, apperror.NewFieldError("priority", "priority must be low, medium, high or urgent")
		}
		ticket.Priority = *input.Priority
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateStatus moves a ticket along its workflow. Resolving stamps
// ResolvedAt; reopening clears it.
func (s *TicketService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.TicketStatus) (*entity.Ticket, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldError("status", "status must be open, in_progress, resolved or closed")
	}
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == status {
		return ticket, nil
	}
	if !ticket.Status.CanTransitionTo(status) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Cannot move ticket from %s to %s", ticket.Status, status))
	}

	ticket.Status = status
	switch status {
	case enum.TicketResolved, enum.TicketClosed:
		if ticket.ResolvedAt == nil {
			now := s.now()
			ticket.ResolvedAt = &now
		}
	default:
		ticket.ResolvedAt = nil
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// DeleteTicket deletes a ticket
func (s *TicketService) DeleteTicket(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTicket(ctx, id); err != nil {
		return err
	}
	return s.ticketRepo.Delete(ctx, id)
}
