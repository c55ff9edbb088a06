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
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const receiptDateLayout = "2006-01-02"

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer     printer.Printer
	billRepo    repository.BillRepository
	paymentRepo repository.PaymentRepository
	log         *logrus.Logger
	header      string
	charWidth   int
	now         Clock
}

// NewPrinterService creates a new printer service. header is printed at
// the top of every receipt.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	paymentRepo repository.PaymentRepository,
	log *logrus.Logger,
	header string,
	charWidth int,
	now Clock,
) *PrinterService {
	if charWidth <= 0 {
		charWidth = printer.Width58mm
	}
	return &PrinterService{
		printer:     p,
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		log:         log,
		header:      header,
		charWidth:   charWidth,
		now:         clockOrNow(now),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Name       string `json:"name"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	name := s.printer.Name()
	return &PrinterStatus{
		Configured: name != "none",
		Connected:  s.printer.IsConnected(ctx),
		Name:       name,
	}
}

// BuildReceipt composes the receipt of a bill without printing it.
func (s *PrinterService) BuildReceipt(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	paid, err := s.paymentRepo.SumByDocument(ctx, enum.DocumentBill, bill.ID)
	if err != nil {
		return nil, err
	}
	sum := finance.Summarize(bill.FinanceDocument(), []decimal.Decimal{paid}, s.now())

	receipt := &entity.Receipt{
		Header:      s.header,
		BillNumber:  bill.Number,
		Date:        bill.Date.Format(receiptDateLayout),
		PaymentType: string(bill.PaymentType),
		CreditDays:  bill.CreditPeriodDays,
		SubTotal:    sum.SubTotal,
		Discount:    sum.Discount,
		GrandTotal:  sum.GrandTotal,
		Paid:        sum.TotalPaid,
		Remaining:   sum.Remaining,
	}
	if bill.CreditPeriodDays > 0 {
		receipt.DueDate = sum.DueDate.Format(receiptDateLayout)
	}
	if bill.Shop != nil {
		receipt.ShopName = bill.Shop.Name
		receipt.ShopAddress = bill.Shop.Address
		receipt.ShopPhone = bill.Shop.Phone
	}
	for _, it := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return receipt, nil
}

// PrintBill prints a bill's receipt. The receipt is returned even when
// printing fails; Printed and PrinterError report the outcome.
func (s *PrinterService) PrintBill(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		s.log.WithFields(logrus.Fields{
			"bill_id": billID,
			"printer": s.printer.Name(),
		}).WithError(err).Warn("receipt not printed")
		receipt.PrinterError = err.Error()
		return receipt, nil
	}
	receipt.Printed = true
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	one := decimal.NewFromInt(1)
	price := decimal.NewFromInt(100)
	receipt := &entity.Receipt{
		Header:      s.header,
		ShopName:    "PRINTER TEST",
		BillNumber:  "TEST-001",
		Date:        s.now().Format(receiptDateLayout),
		PaymentType: string(enum.PaymentTypeCash),
		Items: []entity.ReceiptItem{
			{Description: "Test item", Quantity: one, UnitPrice: price, Total: price},
		},
		SubTotal:   price,
		Discount:   decimal.Zero,
		GrandTotal: price,
		Paid:       price,
		Remaining:  decimal.Zero,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	receipt.Printed = true
	return receipt, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, charWidth int) []byte {
	doc := printer.NewDocument(charWidth)

	doc.SetAlign(printer.AlignCenter)
	if r.Header != "" {
		doc.SetBold(true).
			SetFontSize(printer.FontDouble).
			Text(r.Header).
			SetFontSize(printer.FontNormal).
			SetBold(false)
	}
	if r.ShopName != "" {
		doc.SetBold(true).Text(r.ShopName).SetBold(false)
	}
	if r.ShopAddress != "" {
		doc.Text(r.ShopAddress)
	}
	if r.ShopPhone != "" {
		doc.Text(r.ShopPhone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Bill:", r.BillNumber).
		KeyValue("Date:", r.Date).
		KeyValue("Payment:", strings.ToUpper(r.PaymentType))
	if r.CreditDays > 0 {
		doc.KeyValue("Credit:", fmt.Sprintf("%d days", r.CreditDays))
		if r.DueDate != "" {
			doc.KeyValue("Due:", r.DueDate)
		}
	}

	doc.Separator('-')
	for _, item := range r.Items {
		qtyPrice := fmt.Sprintf("%s x %s", item.Quantity.String(), money(item.UnitPrice))
		doc.ItemLine(item.Description, qtyPrice, money(item.Total))
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal:", money(r.SubTotal))
	if r.Discount.IsPositive() {
		doc.KeyValue("Discount:", "-"+money(r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", money(r.GrandTotal)).
		SetBold(false)
	if r.Paid.IsPositive() {
		doc.KeyValue("Paid:", money(r.Paid))
	}
	if r.Remaining.IsPositive() {
		doc.KeyValue("Balance:", money(r.Remaining))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		Text("Thank you for your business!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		Cut()

	return doc.Bytes()
}
