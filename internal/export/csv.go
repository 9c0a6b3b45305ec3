// Package export renders a budget snapshot as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/odo-atelier/budget-api/internal/store"
)

const csvTitle = "PLANILHA DE ORÇAMENTO ODÒ - LOJA DE ROUPAS"

var (
	materialColumns = []string{"Item", "Categoria", "Descrição", "Fornecedor", "Preço Unit", "Qtd", "Subtotal", "Frete", "Impostos %", "Impostos R$", "Custo Final", "Aplicação", "Custo/Peça", "Obs"}
	machineColumns  = []string{"Item", "Categoria", "Descrição", "Fornecedor", "Preço Unit", "Qtd", "Subtotal", "Frete", "Impostos %", "Impostos R$", "Custo Final", "Aplicação", "Obs"}
)

type csvSection struct {
	title        string
	category     domain.Category
	columns      []string
	costPerPiece bool
}

var csvSections = []csvSection{
	{"MATERIAIS BASE", domain.CategoryMaterials, materialColumns, true},
	{"MÁQUINAS E EQUIPAMENTOS", domain.CategoryMachines, machineColumns, false},
	{"PRODUÇÃO", domain.CategoryProduction, materialColumns, true},
}

// CSV renders the budget spreadsheet: one section per category followed by the general summary.
// Raw inputs keep their shortest form, computed amounts get two decimals.
func CSV(snap store.Snapshot) ([]byte, error) {
	summary, err := budget.Summarize(snap.Materials, snap.Machines, snap.Production, snap.Config)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	buf.WriteString(csvTitle + "\n\n")
	for i, section := range csvSections {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString("=== " + section.title + " ===\n")
		if err := w.Write(section.columns); err != nil {
			return nil, err
		}
		for _, item := range snap.Items(section.category) {
			if err := w.Write(csvRow(item, section.costPerPiece)); err != nil {
				return nil, err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	buf.WriteString("\n=== ORÇAMENTO GERAL ===\n")
	for _, line := range summaryLines(summary) {
		if err := w.Write([]string{line.label, "R$ " + budget.FormatFixed2(line.value)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	return buf.Bytes(), nil
}

func csvRow(item domain.LineItem, costPerPiece bool) []string {
	cost := budget.CostOf(item)
	row := []string{
		item.Item,
		item.Label,
		item.Description,
		item.Supplier,
		budget.FormatPlain(item.UnitPrice),
		budget.FormatPlain(item.Quantity),
		budget.FormatFixed2(cost.Subtotal),
		budget.FormatPlain(item.Freight),
		budget.FormatPlain(item.TaxPercent) + "%",
		budget.FormatFixed2(cost.TaxAmount),
		budget.FormatFixed2(cost.FinalCost),
		item.Usage,
	}
	if costPerPiece {
		row = append(row, budget.FormatPlain(item.CostPerPiece))
	}
	return append(row, item.Notes)
}

type summaryLine struct {
	label string
	value float64
}

func summaryLines(s budget.Summary) []summaryLine {
	return []summaryLine{
		{"Total Materiais", s.Totals.Materials},
		{"Total Equipamentos", s.Totals.Machines},
		{"Total Produção", s.Totals.Production},
		{"Custo Fixo por Peça", s.FixedCostPerUnit},
		{"Custo Variável por Peça", s.VariableCostPerUnit},
		{"Custo Total por Peça", s.TotalCostPerUnit},
		{"Preço Atacado (x2)", s.Price(budget.TierWholesale).Price},
		{"Preço Varejo Mínimo (x3)", s.Price(budget.TierMinimumRetail).Price},
		{"Preço Varejo Ideal (x4)", s.Price(budget.TierIdealRetail).Price},
	}
}
