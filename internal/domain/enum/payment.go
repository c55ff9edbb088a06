package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentType is how a bill is settled.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCredit PaymentType = "credit"
	PaymentTypeCheque PaymentType = "cheque"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeCredit, PaymentTypeCheque:
		return true
	}
	return false
}

func (t PaymentType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *PaymentType) Scan(value interface{}) error {
	if value == nil {
		*t = PaymentTypeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = PaymentType(v)
	case []byte:
		*t = PaymentType(string(v))
	}
	return nil
}

// PaymentMethod is how a single payment was made.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCheque PaymentMethod = "cheque"
)

func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCheque
}

// DocumentType says which document a payment settles.
type DocumentType string

const (
	DocumentBill    DocumentType = "bill"
	DocumentInvoice DocumentType = "invoice"
)

// Label is the capitalised name used in messages.
func (d DocumentType) Label() string {
	if d == DocumentInvoice {
		return "Invoice"
	}
	return "Bill"
}

// CreditOption is the credit period picked for a bill.
type CreditOption string

const (
	CreditNone   CreditOption = "none"
	Credit7Days  CreditOption = "7_days"
	Credit14Days CreditOption = "14_days"
	Credit30Days CreditOption = "30_days"
	Credit45Days CreditOption = "45_days"
	Credit60Days CreditOption = "60_days"
	CreditCustom CreditOption = "custom"
)

var creditOptionDays = map[CreditOption]int{
	CreditNone:   0,
	Credit7Days:  7,
	Credit14Days: 14,
	Credit30Days: 30,
	Credit45Days: 45,
	Credit60Days: 60,
}

func (o CreditOption) IsValid() bool {
	if o == CreditCustom {
		return true
	}
	_, ok := creditOptionDays[o]
	return ok
}

// Days is the period of a fixed option; ok is false for custom and
// unknown options.
func (o CreditOption) Days() (days int, ok bool) {
	days, ok = creditOptionDays[o]
	return days, ok
}

// CreditOptionForDays maps a day count onto its fixed option, or custom.
func CreditOptionForDays(days int) CreditOption {
	for o, d := range creditOptionDays {
		if d == days {
			return o
		}
	}
	return CreditCustom
}

func (o *CreditOption) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	opt := CreditOption(str)
	if str != "" && !opt.IsValid() {
		return fmt.Errorf("unknown credit option %q", str)
	}
	*o = opt
	return nil
}
