package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopdesk-api/internal/application/service"
	"github.com/sangkips/shopdesk-api/internal/presentation/http/dto/response"
	"github.com/sangkips/shopdesk-api/pkg/export"
	"github.com/xuri/excelize/v2"
)

// ReportHandler serves spreadsheet downloads
type ReportHandler struct {
	reportService *service.ReportService
	now           service.Clock
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, now service.Clock) *ReportHandler {
	if now == nil {
		now = time.Now
	}
	return &ReportHandler{reportService: reportService, now: now}
}

func (h *ReportHandler) download(c *gin.Context, name string, build func(context.Context) (*excelize.File, error)) {
	f, err := build(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", name, h.now().Format("20060102"))
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.Write(c.Writer, f); err != nil {
		_ = c.Error(err)
	}
}

// OutstandingBills downloads every bill that still has a balance
// @Summary Outstanding bills workbook
// @Tags reports
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /reports/bills/outstanding.xlsx [get]
func (h *ReportHandler) OutstandingBills(c *gin.Context) {
	h.download(c, "outstanding-bills", h.reportService.OutstandingBills)
}

// OutstandingInvoices downloads every supplier invoice that still has a balance
func (h *ReportHandler) OutstandingInvoices(c *gin.Context) {
	h.download(c, "outstanding-invoices", h.reportService.OutstandingInvoices)
}
