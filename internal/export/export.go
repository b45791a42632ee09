// Package export renders partner requests as spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/partnerdesk/internal/requests"
)

const SheetName = "Request"

var lineHeader = []string{"Article", "Product", "Quantity", "Cost per unit", "Total"}

// RequestWorkbook builds a one-sheet workbook with the partner header, the product
// lines and the request total. The caller closes the returned file.
func RequestWorkbook(r requests.Request, lines []requests.Line) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRequest(f, r, lines); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRequest(f *excelize.File, r requests.Request, lines []requests.Line) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := [][2]any{
		{"Request", r.ID},
		{"Partner", r.CompanyName},
		{"Partner type", r.PartnerType},
		{"Director", r.DirectorName},
		{"INN", r.INN},
		{"Phone", r.Phone},
		{"Status", r.Status},
		{"Created", r.CreatedAt},
	}
	row := 1
	for _, kv := range header {
		if err := setRow(f, row, kv[0], kv[1]); err != nil {
			return err
		}
		row++
	}

	row++
	tableHeader := make([]any, len(lineHeader))
	for i, h := range lineHeader {
		tableHeader[i] = h
	}
	if err := setRow(f, row, tableHeader...); err != nil {
		return err
	}
	if err := styleRow(f, row, len(lineHeader), bold); err != nil {
		return err
	}

	for _, l := range lines {
		row++
		if err := setRow(f, row, l.Article, l.ProductName, l.Quantity,
			l.CostPerUnit.InexactFloat64(), l.Total.InexactFloat64()); err != nil {
			return err
		}
	}

	row += 2
	if err := setRow(f, row, "Total", "", "", "", r.TotalCost.InexactFloat64()); err != nil {
		return err
	}
	if err := styleRow(f, row, len(lineHeader), bold); err != nil {
		return err
	}

	if err := f.SetColWidth(SheetName, "A", "A", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func styleRow(f *excelize.File, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellStyle(SheetName, first, last, style); err != nil {
		return fmt.Errorf("style row %d: %w", row, err)
	}
	return nil
}
