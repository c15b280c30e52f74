// Package export writes search results as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"nemostore-eda/internal/application/dashboard"

	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet in the workbook.
const SheetName = "매물"

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Header is the first row. Amounts are written in KRW as numbers.
var Header = []interface{}{
	"매물명", "대분류", "업종", "월세(원)", "보증금(원)", "권리금(원)", "관리비(원)",
	"면적(㎡)", "층", "주변역", "관심도", "생성일",
}

// WriteSearch writes one row per search result to w.
func WriteSearch(w io.Writer, res dashboard.Search) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i, r := range res.Rows {
		row := []interface{}{
			r.Title, r.LargeCategory, r.MiddleCategory,
			num(r.MonthlyRent.Value), num(r.Deposit.Value), num(r.Premium.Value), num(r.MaintenanceFee.Value),
			num(r.Size), intOrNil(r.Floor), r.Station, r.InterestScore, r.CreatedDate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	if err := f.SetColStyle(SheetName, "D:G", style); err != nil {
		return fmt.Errorf("export: column style: %w", err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 36); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

func num(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intOrNil(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
