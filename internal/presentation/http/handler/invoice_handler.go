package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles supplier invoice HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	loc            *time.Location
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, loc *time.Location) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, loc: loc}
}

func (h *InvoiceHandler) List(c *gin.Context) {
	supplierID, ok := paramID(c, "id", "supplier")
	if !ok {
		return
	}
	filter, ok := documentFilter(c, h.loc)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), supplierID, pageParams(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "Invoices retrieved successfully", result)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	supplierID, ok := paramID(c, "id", "supplier")
	if !ok {
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		SupplierID: supplierID,
		Number:     req.Number,
		Date:       req.Date.In(h.loc),
		SalesRep:   req.SalesRep,
		CreditDays: req.CreditDays,
		Discount:   req.Discount,
		Items:      toLines(req.Items),
		Notes:      req.Notes,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created successfully", invoice)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) Summary(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	summary, err := h.invoiceService.GetSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice summary retrieved successfully", summary)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), &service.UpdateInvoiceInput{
		ID:         id,
		Number:     req.Number,
		Date:       req.Date.PtrIn(h.loc),
		SalesRep:   req.SalesRep,
		CreditDays: req.CreditDays,
		Discount:   req.Discount,
		Items:      toLines(req.Items),
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice updated successfully", invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id", "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice deleted successfully", nil)
}
