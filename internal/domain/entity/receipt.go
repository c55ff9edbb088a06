package entity

import "github.com/shopspring/decimal"

// ReceiptItem is one printed line.
type ReceiptItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Receipt is composed from a bill at print time; it is not stored.
type Receipt struct {
	Header       string          `json:"header"`
	ShopName     string          `json:"shop_name"`
	ShopAddress  string          `json:"shop_address,omitempty"`
	ShopPhone    string          `json:"shop_phone,omitempty"`
	BillNumber   string          `json:"bill_number"`
	Date         string          `json:"date"`
	PaymentType  string          `json:"payment_type"`
	CreditDays   int             `json:"credit_days"`
	DueDate      string          `json:"due_date,omitempty"`
	Items        []ReceiptItem   `json:"items"`
	SubTotal     decimal.Decimal `json:"sub_total"`
	Discount     decimal.Decimal `json:"discount"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
	Paid         decimal.Decimal `json:"paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	Printed      bool            `json:"printed"`
	PrinterError string          `json:"printer_error,omitempty"`
}
