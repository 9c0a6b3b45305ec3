package export

import (
	"bytes"
	"fmt"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/store"
	"github.com/xuri/excelize/v2"
)

// Worksheet names
const (
	SheetMaterials  = "Materiais"
	SheetMachines   = "Máquinas"
	SheetProduction = "Produção"
	SheetSummary    = "Resumo"
)

var xlsxSheets = []struct {
	name         string
	category     domain.Category
	columns      []string
	costPerPiece bool
}{
	{SheetMaterials, domain.CategoryMaterials, materialColumns, true},
	{SheetMachines, domain.CategoryMachines, machineColumns, false},
	{SheetProduction, domain.CategoryProduction, materialColumns, true},
}

// numFmtMoney is the built-in "#,##0.00" format
const numFmtMoney = 4

// XLSX renders the budget as a workbook with one sheet per category and a summary sheet.
// Numbers stay numeric so the workbook can be recalculated.
func XLSX(snap store.Snapshot) ([]byte, error) {
	summary, err := budget.Summarize(snap.Materials, snap.Machines, snap.Production, snap.Config)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, err
	}

	for i, sheet := range xlsxSheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}

		header := make([]interface{}, len(sheet.columns))
		for c, col := range sheet.columns {
			header[c] = col
		}
		if err := f.SetSheetRow(sheet.name, "A1", &header); err != nil {
			return nil, fmt.Errorf("%s header: %w", sheet.name, err)
		}
		if err := styleRow(f, sheet.name, 1, len(header), headerStyle); err != nil {
			return nil, err
		}

		for r, item := range snap.Items(sheet.category) {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			row := xlsxRow(item, sheet.costPerPiece)
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", sheet.name, r+2, err)
			}
		}
		// Subtotal, Impostos R$ and Custo Final columns
		if n := len(snap.Items(sheet.category)); n > 0 {
			for _, col := range []string{"G", "J", "K"} {
				if err := f.SetCellStyle(sheet.name, col+"2", fmt.Sprintf("%s%d", col, n+1), moneyStyle); err != nil {
					return nil, err
				}
			}
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	for r, line := range summaryLines(summary) {
		row := []interface{}{line.label, line.value}
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", r+1), &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", len(summaryLines(summary))), headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetSummary, "B1", fmt.Sprintf("B%d", len(summaryLines(summary))), moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func xlsxRow(item domain.LineItem, costPerPiece bool) []interface{} {
	cost := budget.CostOf(item)
	row := []interface{}{
		item.Item,
		item.Label,
		item.Description,
		item.Supplier,
		item.UnitPrice,
		item.Quantity,
		cost.Subtotal,
		item.Freight,
		item.TaxPercent,
		cost.TaxAmount,
		cost.FinalCost,
		item.Usage,
	}
	if costPerPiece {
		row = append(row, item.CostPerPiece)
	}
	return append(row, item.Notes)
}

func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
