package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// WarningHandler handles shop warning HTTP requests
type WarningHandler struct {
	warningService *service.WarningService
}

func NewWarningHandler(warningService *service.WarningService) *WarningHandler {
	return &WarningHandler{warningService: warningService}
}

func (h *WarningHandler) List(c *gin.Context) {
	shopID, ok := queryID(c, "shop_id")
	if !ok {
		return
	}

	result, err := h.warningService.ListWarnings(c.Request.Context(), pageParams(c), repository.WarningFilter{
		Status: enum.WarningStatus(c.Query("status")),
		ShopID: shopID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Warnings retrieved successfully", result)
}

func (h *WarningHandler) Create(c *gin.Context) {
	var req request.WarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	warning, err := h.warningService.CreateWarning(c.Request.Context(), &service.CreateWarningInput{
		ShopID:    req.ShopID,
		BillIDs:   req.BillIDs,
		Title:     req.Title,
		Message:   req.Message,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Warning created successfully", warning)
}

func (h *WarningHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "warning")
	if !ok {
		return
	}

	warning, err := h.warningService.GetWarning(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Warning retrieved successfully", warning)
}

func (h *WarningHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "warning")
	if !ok {
		return
	}

	var req request.UpdateWarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	warning, err := h.warningService.UpdateWarning(c.Request.Context(), &service.UpdateWarningInput{
		ID:      id,
		BillIDs: req.BillIDs,
		Title:   req.Title,
		Message: req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Warning updated successfully", warning)
}

// Send e-mails the warning to its shop and marks it sent
func (h *WarningHandler) Send(c *gin.Context) {
	id, ok := paramID(c, "id", "warning")
	if !ok {
		return
	}

	result, err := h.warningService.SendWarning(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Warning marked as sent"
	if result.Emailed {
		message = "Warning sent to shop"
	}
	response.OK(c, message, result)
}

func (h *WarningHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id", "warning")
	if !ok {
		return
	}

	var req request.WarningStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	warning, err := h.warningService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Warning status updated successfully", warning)
}

func (h *WarningHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "warning")
	if !ok {
		return
	}

	if err := h.warningService.DeleteWarning(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Warning deleted successfully", nil)
}
