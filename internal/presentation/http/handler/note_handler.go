package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	noteService *service.NoteService
	loc         *time.Location
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *service.NoteService, loc *time.Location) *NoteHandler {
	return &NoteHandler{noteService: noteService, loc: loc}
}

// List handles listing notes. Filters: priority, shop_id, bill_id, tag
// and search on title or content.
func (h *NoteHandler) List(c *gin.Context) {
	shopID, ok := queryID(c, "shop_id")
	if !ok {
		return
	}
	billID, ok := queryID(c, "bill_id")
	if !ok {
		return
	}

	result, err := h.noteService.ListNotes(c.Request.Context(), pageParams(c), repository.NoteFilter{
		Search:   c.Query("search"),
		Priority: enum.Priority(c.Query("priority")),
		ShopID:   shopID,
		BillID:   billID,
		Tag:      c.Query("tag"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Notes retrieved successfully", result)
}

// Create handles creating a note
func (h *NoteHandler) Create(c *gin.Context) {
	var req request.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	note, err := h.noteService.CreateNote(c.Request.Context(), &service.CreateNoteInput{
		Date:      req.Date.In(h.loc),
		Title:     req.Title,
		Content:   req.Content,
		Priority:  req.Priority,
		ShopID:    req.ShopID,
		BillID:    req.BillID,
		Tags:      req.Tags,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Note created successfully", note)
}

// Get handles getting a single note
func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "note")
	if !ok {
		return
	}

	note, err := h.noteService.GetNote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Note retrieved successfully", note)
}

// Update handles a partial note update
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "note")
	if !ok {
		return
	}

	var req request.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	note, err := h.noteService.UpdateNote(c.Request.Context(), &service.UpdateNoteInput{
		ID:        id,
		Date:      req.Date.PtrIn(h.loc),
		Title:     req.Title,
		Content:   req.Content,
		Priority:  req.Priority,
		ShopID:    req.ShopID,
		BillID:    req.BillID,
		ClearShop: req.ClearShop,
		ClearBill: req.ClearBill,
		Tags:      req.Tags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Note updated successfully", note)
}

// Delete handles removing a note
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "note")
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Note deleted successfully", nil)
}
