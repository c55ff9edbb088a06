// Package export renders report rows into xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Sheet1"

// Row is anything that can be written as one spreadsheet row.
type Row interface {
	CellValues() []interface{}
}

// OutstandingRow is one bill or invoice that still has a balance.
type OutstandingRow struct {
	Party               string
	Number              string
	Date                time.Time
	DueDate             time.Time
	GrandTotal          decimal.Decimal
	TotalPaid           decimal.Decimal
	Remaining           decimal.Decimal
	RemainingCreditDays int
	Overdue             bool
}

// OutstandingHeadings are the column titles of an outstanding report.
// partyLabel names the first column ("Shop" or "Supplier").
func OutstandingHeadings(partyLabel string) []string {
	return []string{partyLabel, "Number", "Date", "Due Date", "Grand Total", "Paid", "Remaining", "Credit Days Left", "Overdue"}
}

func (r OutstandingRow) CellValues() []interface{} {
	overdue := "No"
	if r.Overdue {
		overdue = "Yes"
	}
	return []interface{}{
		r.Party,
		r.Number,
		r.Date.Format("2006-01-02"),
		r.DueDate.Format("2006-01-02"),
		r.GrandTotal.InexactFloat64(),
		r.TotalPaid.InexactFloat64(),
		r.Remaining.InexactFloat64(),
		r.RemainingCreditDays,
		overdue,
	}
}

// Workbook builds a single-sheet workbook with a bold header row followed
// by one row per item.
func Workbook[T Row](headings []string, rows []T) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	if len(headings) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(headings), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		for c, v := range row.CellValues() {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}
	return f, nil
}

// Write streams a workbook to w and closes it.
func Write(w io.Writer, f *excelize.File) error {
	defer f.Close()
	return f.Write(w)
}
