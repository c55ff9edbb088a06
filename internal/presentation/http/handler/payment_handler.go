package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/request"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
)

// PaymentHandler serves the payment sub-collection of one document type.
// Routes mount one instance for bills and one for invoices.
type PaymentHandler struct {
	paymentService *service.PaymentService
	docType        enum.DocumentType
	loc            *time.Location
}

// NewPaymentHandler creates a payment handler for bills or invoices
func NewPaymentHandler(paymentService *service.PaymentService, docType enum.DocumentType, loc *time.Location) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, docType: docType, loc: loc}
}

func (h *PaymentHandler) documentID(c *gin.Context) (uuid.UUID, bool) {
	return paramID(c, "id", string(h.docType))
}

// List handles listing the payments of a document
func (h *PaymentHandler) List(c *gin.Context) {
	docID, ok := h.documentID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), h.docType, docID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", payments)
}

// Create records a payment. The amount may not exceed the remaining balance.
func (h *PaymentHandler) Create(c *gin.Context) {
	docID, ok := h.documentID(c)
	if !ok {
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		DocumentType: h.docType,
		DocumentID:   docID,
		Amount:       req.Amount,
		Method:       req.Method,
		ChequeNumber: req.ChequeNumber,
		Date:         req.Date.In(h.loc),
		Note:         req.Note,
		RecordedBy:   GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", result)
}

// Update handles a partial payment update
func (h *PaymentHandler) Update(c *gin.Context) {
	docID, ok := h.documentID(c)
	if !ok {
		return
	}
	paymentID, ok := paramID(c, "paymentId", "payment")
	if !ok {
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.paymentService.UpdatePayment(c.Request.Context(), &service.UpdatePaymentInput{
		DocumentType: h.docType,
		DocumentID:   docID,
		PaymentID:    paymentID,
		Amount:       req.Amount,
		Method:       req.Method,
		ChequeNumber: req.ChequeNumber,
		Date:         req.Date.PtrIn(h.loc),
		Note:         req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated successfully", result)
}

// Delete removes a payment and returns the document's new summary
func (h *PaymentHandler) Delete(c *gin.Context) {
	docID, ok := h.documentID(c)
	if !ok {
		return
	}
	paymentID, ok := paramID(c, "paymentId", "payment")
	if !ok {
		return
	}

	summary, err := h.paymentService.DeletePayment(c.Request.Context(), h.docType, docID, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment deleted successfully", gin.H{"summary": summary})
}
