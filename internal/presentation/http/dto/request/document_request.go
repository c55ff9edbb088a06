package request

import (
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// LineRequest is one item row of a bill or invoice. Quantities and prices
// may be sent as JSON numbers or strings.
type LineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateBillRequest represents a new bill for a shop. Totals are computed
// by the server; any totals in the body are ignored.
type CreateBillRequest struct {
	Number       string            `json:"number" binding:"required,max=100"`
	Date         *Date             `json:"date"`
	Items        []LineRequest     `json:"items"`
	Discount     decimal.Decimal   `json:"discount"`
	PaymentType  enum.PaymentType  `json:"payment_type" binding:"required"`
	CreditOption enum.CreditOption `json:"credit_option"`
	CreditDays   *int              `json:"credit_days"`
	Notes        *string           `json:"notes"`
}

// UpdateBillRequest is a partial bill update. Items replace the stored
// rows when present.
type UpdateBillRequest struct {
	Number       *string            `json:"number" binding:"omitempty,max=100"`
	Date         *Date              `json:"date"`
	Items        []LineRequest      `json:"items"`
	Discount     *decimal.Decimal   `json:"discount"`
	PaymentType  *enum.PaymentType  `json:"payment_type"`
	CreditOption *enum.CreditOption `json:"credit_option"`
	CreditDays   *int               `json:"credit_days"`
	Notes        *string            `json:"notes"`
}

// CreateSupplierRequest represents a new supplier
type CreateSupplierRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Address *string `json:"address"`
	Mobile  string  `json:"mobile" binding:"required"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

// UpdateSupplierRequest is a partial supplier update
type UpdateSupplierRequest struct {
	Name    *string `json:"name" binding:"omitempty,max=255"`
	Address *string `json:"address"`
	Mobile  *string `json:"mobile"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

// CreateInvoiceRequest represents a supplier invoice
type CreateInvoiceRequest struct {
	Number     string          `json:"number" binding:"required,max=100"`
	Date       *Date           `json:"date"`
	SalesRep   *string         `json:"sales_rep"`
	CreditDays int             `json:"credit_days"`
	Discount   decimal.Decimal `json:"discount"`
	Items      []LineRequest   `json:"items"`
	Notes      *string         `json:"notes"`
}

// UpdateInvoiceRequest is a partial invoice update
type UpdateInvoiceRequest struct {
	Number     *string          `json:"number" binding:"omitempty,max=100"`
	Date       *Date            `json:"date"`
	SalesRep   *string          `json:"sales_rep"`
	CreditDays *int             `json:"credit_days"`
	Discount   *decimal.Decimal `json:"discount"`
	Items      []LineRequest    `json:"items"`
	Notes      *string          `json:"notes"`
}

// PaymentRequest records a payment against a bill or invoice
type PaymentRequest struct {
	Amount       decimal.Decimal    `json:"amount"`
	Method       enum.PaymentMethod `json:"method"`
	ChequeNumber *string            `json:"cheque_number"`
	Date         *Date              `json:"date"`
	Note         *string            `json:"note"`
}

// UpdatePaymentRequest is a partial payment update
type UpdatePaymentRequest struct {
	Amount       *decimal.Decimal    `json:"amount"`
	Method       *enum.PaymentMethod `json:"method"`
	ChequeNumber *string             `json:"cheque_number"`
	Date         *Date               `json:"date"`
	Note         *string             `json:"note"`
}
