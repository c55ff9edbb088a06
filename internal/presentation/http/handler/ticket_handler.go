package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// TicketHandler handles support ticket HTTP requests
type TicketHandler struct {
	ticketService *service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// List handles listing tickets filtered by status, priority or shop
func (h *TicketHandler) List(c *gin.Context) {
	shopID, ok := queryID(c, "shop_id")
	if !ok {
		return
	}

	result, err := h.ticketService.ListTickets(c.Request.Context(), pageParams(c), repository.TicketFilter{
		Status:   enum.TicketStatus(c.Query("status")),
		Priority: enum.Priority(c.Query("priority")),
		ShopID:   shopID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Tickets retrieved successfully", result)
}

// Create handles opening a ticket
func (h *TicketHandler) Create(c *gin.Context) {
	var req request.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), &service.CreateTicketInput{
		ShopID:      req.ShopID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Ticket created successfully", ticket)
}

// Get handles getting a single ticket
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "ticket")
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket retrieved successfully", ticket)
}

// Update handles editing a ticket's details
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "ticket")
	if !ok {
		return
	}

	var req request.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ticket, err := h.ticketService.UpdateTicket(c.Request.Context(), &service.UpdateTicketInput{
		ID:          id,
		ShopID:      req.ShopID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket updated successfully", ticket)
}

// UpdateStatus moves a ticket through its workflow
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id", "ticket")
	if !ok {
		return
	}

	var req request.TicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ticket, err := h.ticketService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket status updated successfully", ticket)
}

// Delete handles removing a ticket
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "ticket")
	if !ok {
		return
	}

	if err := h.ticketService.DeleteTicket(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket deleted successfully", nil)
}
