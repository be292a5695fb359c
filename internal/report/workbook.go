// Package report renders obligation reports as XLSX workbooks.
package report

import (
	"fmt"
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/pkg/format"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ObligationsSheet = "Obligations"
	SummarySheet     = "Summary"
)

// brlNumFmt renders amount cells as reais while keeping them numeric
const brlNumFmt = `"R$" #,##0.00`

type column struct {
	Header string
	Amount bool
	Value  func(domain.ReportRow) interface{}
}

var columns = []column{
	{Header: "Reference", Value: func(r domain.ReportRow) interface{} { return r.Reference }},
	{Header: "Auction", Value: func(r domain.ReportRow) interface{} { return r.AuctionID }},
	{Header: "Lot", Value: func(r domain.ReportRow) interface{} { return r.LotID }},
	{Header: "Bidder", Value: func(r domain.ReportRow) interface{} { return r.BidderName }},
	{Header: "Payment type", Value: func(r domain.ReportRow) interface{} { return string(r.PaymentType) }},
	{Header: "Status", Value: func(r domain.ReportRow) interface{} { return string(r.Status) }},
	{Header: "Installments", Value: func(r domain.ReportRow) interface{} { return r.InstallmentCount }},
	{Header: "Paid", Value: func(r domain.ReportRow) interface{} { return r.PaidCount }},
	{Header: "Total", Amount: true, Value: func(r domain.ReportRow) interface{} { return r.TotalAmount.InexactFloat64() }},
	{Header: "Total with interest", Amount: true, Value: func(r domain.ReportRow) interface{} { return r.TotalWithInterest.InexactFloat64() }},
	{Header: "Remaining with interest", Amount: true, Value: func(r domain.ReportRow) interface{} { return r.RemainingWithInterest.InexactFloat64() }},
}

// FileName is the report name for a generation instant
func FileName(generatedAt time.Time) string {
	return fmt.Sprintf("obligations_%s.xlsx", generatedAt.Format("20060102_150405"))
}

// BuildWorkbook writes one row per obligation plus a summary sheet with totals per status
func BuildWorkbook(rows []domain.ReportRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ObligationsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	_ = f.SetDocProps(&excelize.DocProperties{
		Creator:  "auction-billing",
		Title:    "Obligations report",
		Created:  generatedAt.Format(time.RFC3339),
		Modified: generatedAt.Format(time.RFC3339),
	})

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	numFmt := brlNumFmt
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("amount style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ObligationsSheet, cell, col.Header); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(ObligationsSheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(ObligationsSheet, cell, col.Value(row)); err != nil {
				return nil, err
			}
			if col.Amount {
				_ = f.SetCellStyle(ObligationsSheet, cell, cell, amountStyle)
			}
		}
	}

	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(columns), len(rows)+1)
		_ = f.AutoFilter(ObligationsSheet, "A1:"+last, nil)
	}
	_ = f.SetPanes(ObligationsSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if err := writeSummary(f, rows, generatedAt, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type statusTotals struct {
	count     int
	remaining decimal.Decimal
}

func writeSummary(f *excelize.File, rows []domain.ReportRow, generatedAt time.Time, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	order := []domain.ObligationStatus{
		domain.ObligationStatusOverdue,
		domain.ObligationStatusPending,
		domain.ObligationStatusPaid,
	}
	totals := make(map[domain.ObligationStatus]*statusTotals, len(order))
	for _, status := range order {
		totals[status] = &statusTotals{remaining: decimal.Zero}
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.TotalWithInterest)
		t, ok := totals[row.Status]
		if !ok {
			continue
		}
		t.count++
		t.remaining = t.remaining.Add(row.RemainingWithInterest)
	}

	values := [][]interface{}{
		{"Generated at", generatedAt.Format("02/01/2006 15:04")},
		{"Obligations", len(rows)},
		{"Total with interest", format.BRL(grandTotal)},
		{},
		{"Status", "Obligations", "Remaining with interest"},
	}
	for _, status := range order {
		values = append(values, []interface{}{string(status), totals[status].count, format.BRL(totals[status].remaining)})
	}

	for i, line := range values {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &line); err != nil {
			return err
		}
	}
	_ = f.SetCellStyle(SummarySheet, "A1", "A3", headerStyle)
	_ = f.SetCellStyle(SummarySheet, "A5", "C5", headerStyle)
	return nil
}
