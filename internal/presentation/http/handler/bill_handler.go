package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService *service.BillService
	loc         *time.Location
}

// NewBillHandler creates a new bill handler. Submitted timestamps are
// dated in loc.
func NewBillHandler(billService *service.BillService, loc *time.Location) *BillHandler {
	return &BillHandler{billService: billService, loc: loc}
}

// List handles listing the bills of a shop. Every row carries its
// payment summary.
func (h *BillHandler) List(c *gin.Context) {
	shopID, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}
	filter, ok := documentFilter(c, h.loc)
	if !ok {
		return
	}

	result, err := h.billService.ListBills(c.Request.Context(), shopID, pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Bills retrieved successfully", result)
}

// Create handles creating a bill for a shop
func (h *BillHandler) Create(c *gin.Context) {
	shopID, ok := paramID(c, "id", "shop")
	if !ok {
		return
	}

	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		ShopID:       shopID,
		Number:       req.Number,
		Date:         req.Date.In(h.loc),
		Items:        toLines(req.Items),
		Discount:     req.Discount,
		PaymentType:  req.PaymentType,
		CreditOption: req.CreditOption,
		CreditDays:   req.CreditDays,
		Notes:        req.Notes,
		CreatedBy:    GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill created successfully", bill)
}

// Get handles getting a single bill
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "bill")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill retrieved successfully", bill)
}

// Summary returns only the computed payment state of a bill
func (h *BillHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id", "bill")
	if !ok {
		return
	}

	summary, err := h.billService.GetSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill summary retrieved successfully", summary)
}

// Update handles a partial bill update
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "bill")
	if !ok {
		return
	}

	var req request.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), &service.UpdateBillInput{
		ID:           id,
		Number:       req.Number,
		Date:         req.Date.PtrIn(h.loc),
		Items:        toLines(req.Items),
		Discount:     req.Discount,
		PaymentType:  req.PaymentType,
		CreditOption: req.CreditOption,
		CreditDays:   req.CreditDays,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill updated successfully", bill)
}

// Delete handles removing a bill without payments
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "bill")
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill deleted successfully", nil)
}
