package repository

import (
	"context"
	"time"

	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	domainRepo "github.com/sangkips/shopdesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) domainRepo.DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) Counts(ctx context.Context) (*domainRepo.Counts, error) {
	var counts domainRepo.Counts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM shops WHERE deleted_at IS NULL) AS shops,
			(SELECT COUNT(*) FROM suppliers WHERE deleted_at IS NULL) AS suppliers,
			(SELECT COUNT(*) FROM tickets WHERE deleted_at IS NULL AND status IN (?, ?)) AS open_tickets,
			(SELECT COUNT(*) FROM warnings WHERE deleted_at IS NULL AND status <> ?) AS open_warnings,
			(SELECT COUNT(*) FROM critical_cases WHERE deleted_at IS NULL) AS critical_cases
	`, enum.TicketOpen, enum.TicketInProgress, enum.WarningResolved).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// outstanding computes the unpaid side of a document table. creditColumn
// differs between bills and invoices.
func (r *dashboardRepository) outstanding(ctx context.Context, table, creditColumn string, docType enum.DocumentType, asOf time.Time) (*domainRepo.Outstanding, error) {
	var out domainRepo.Outstanding
	overdue := overdueCondition("COALESCE(p.paid, 0)", "d.grand_total", "d.date", "d."+creditColumn)
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(d.grand_total - COALESCE(p.paid, 0)), 0) AS total,
			COUNT(*) AS documents,
			COUNT(*) FILTER (WHERE `+overdue+`) AS overdue
		FROM `+table+` d
		LEFT JOIN (
			SELECT document_id, SUM(amount) AS paid
			FROM payments
			WHERE document_type = ? AND deleted_at IS NULL
			GROUP BY document_id
		) p ON p.document_id = d.id
		WHERE d.deleted_at IS NULL
		  AND COALESCE(p.paid, 0) < d.grand_total
	`, asOf.Format("2006-01-02"), docType).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *dashboardRepository) Receivables(ctx context.Context, asOf time.Time) (*domainRepo.Outstanding, error) {
	return r.outstanding(ctx, "bills", "credit_period_days", enum.DocumentBill, asOf)
}

func (r *dashboardRepository) Payables(ctx context.Context, asOf time.Time) (*domainRepo.Outstanding, error) {
	return r.outstanding(ctx, "invoices", "credit_days", enum.DocumentInvoice, asOf)
}
