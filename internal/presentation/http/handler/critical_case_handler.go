package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// CriticalCaseHandler handles critical case HTTP requests
type CriticalCaseHandler struct {
	caseService *service.CriticalCaseService
}

func NewCriticalCaseHandler(caseService *service.CriticalCaseService) *CriticalCaseHandler {
	return &CriticalCaseHandler{caseService: caseService}
}

func (h *CriticalCaseHandler) List(c *gin.Context) {
	shopID, ok := queryID(c, "shop_id")
	if !ok {
		return
	}

	result, err := h.caseService.ListCriticalCases(c.Request.Context(), pageParams(c), repository.CriticalCaseFilter{
		Severity: enum.Severity(c.Query("severity")),
		ShopID:   shopID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Critical cases retrieved successfully", result)
}

func (h *CriticalCaseHandler) Create(c *gin.Context) {
	var req request.CriticalCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cc, err := h.caseService.CreateCriticalCase(c.Request.Context(), &service.CreateCriticalCaseInput{
		ShopIDs:     req.ShopIDs,
		BillIDs:     req.BillIDs,
		Description: req.Description,
		Severity:    req.Severity,
		Remarks:     req.Remarks,
		CreatedBy:   GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Critical case created successfully", cc)
}

func (h *CriticalCaseHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "critical case")
	if !ok {
		return
	}

	cc, err := h.caseService.GetCriticalCase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Critical case retrieved successfully", cc)
}

func (h *CriticalCaseHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "critical case")
	if !ok {
		return
	}

	var req request.UpdateCriticalCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cc, err := h.caseService.UpdateCriticalCase(c.Request.Context(), &service.UpdateCriticalCaseInput{
		ID:          id,
		ShopIDs:     req.ShopIDs,
		BillIDs:     req.BillIDs,
		Description: req.Description,
		Severity:    req.Severity,
		Remarks:     req.Remarks,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Critical case updated successfully", cc)
}

func (h *CriticalCaseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "critical case")
	if !ok {
		return
	}

	if err := h.caseService.DeleteCriticalCase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Critical case deleted successfully", nil)
}
