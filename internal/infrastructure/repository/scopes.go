package repository

import (
	"strings"

	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/finance"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"gorm.io/gorm"
)

// Paginate applies offset and limit for a page.
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

// Search matches term case-insensitively against any of columns.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + term + "%"
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, c := range columns {
			conds[i] = c + " ILIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// paidTotals is a grouped subquery of payments per document.
func paidTotals(db *gorm.DB, docType enum.DocumentType) *gorm.DB {
	return db.Table("payments").
		Select("document_id, SUM(amount) AS paid").
		Where("document_type = ? AND deleted_at IS NULL", docType).
		Group("document_id")
}

// statusCondition is finance.StatusOf in SQL over a paid-amount
// expression and a grand total column. A zero total with nothing paid
// counts as paid.
func statusCondition(status finance.PaymentStatus, paid, grand string) string {
	switch status {
	case finance.StatusPaid:
		return paid + " >= " + grand
	case finance.StatusPartial:
		return paid + " > 0 AND " + paid + " < " + grand
	case finance.StatusUnpaid:
		return paid + " = 0 AND " + grand + " > 0"
	}
	return ""
}

// overdueCondition is finance.Summary.Overdue in SQL: a balance remains and
// the credit period ended before the date bound to its placeholder. On the
// due date itself the remaining credit days are 0 and the document is not
// yet overdue.
func overdueCondition(paid, grand, date, creditDays string) string {
	return paid + " < " + grand + " AND " + date + " + " + creditDays + " < ?::date"
}

// DocumentScope filters bills or invoices held in table. The payment
// subquery is only joined when the filter needs it.
func DocumentScope(table string, docType enum.DocumentType, creditColumn string, filter domainRepo.DocumentFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.From != nil {
			db = db.Where(table+".date >= ?", filter.From.Format("2006-01-02"))
		}
		if filter.To != nil {
			db = db.Where(table+".date <= ?", filter.To.Format("2006-01-02"))
		}
		if filter.Search != "" {
			db = db.Scopes(Search(filter.Search, table+".number"))
		}
		cond := statusCondition(filter.Status, "COALESCE(pt.paid, 0)", table+".grand_total")
		if cond == "" && !filter.Overdue {
			return db
		}

		db = db.Joins("LEFT JOIN (?) AS pt ON pt.document_id = "+table+".id", paidTotals(db.Session(&gorm.Session{NewDB: true}), docType))
		if cond != "" {
			db = db.Where(cond)
		}
		if filter.Overdue {
			db = db.Where(overdueCondition("COALESCE(pt.paid, 0)", table+".grand_total", table+".date", table+"."+creditColumn),
				filter.AsOf.Format("2006-01-02"))
		}
		return db
	}
}
