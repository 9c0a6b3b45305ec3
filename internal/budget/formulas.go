// Package budget holds the cost and pricing engine of a workshop budget.
// Every function is pure; rounding is left to presentation.
package budget

import "github.com/odo-atelier/budget-api/internal/domain"

// Subtotal is the pre-tax, pre-freight cost of a line.
func Subtotal(unitPrice, quantity float64) float64 {
	return unitPrice * quantity
}

// TaxAmount applies a percentage rate to a subtotal.
func TaxAmount(subtotal, taxPercent float64) float64 {
	return subtotal * (taxPercent / 100)
}

// FinalCost is the fully loaded cost of a line.
func FinalCost(subtotal, taxAmount, freight float64) float64 {
	return subtotal + taxAmount + freight
}

// LineCost is the computed breakdown of one item.
type LineCost struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"taxAmount"`
	FinalCost float64 `json:"finalCost"`
}

// CostOf computes the breakdown of an item.
func CostOf(item domain.LineItem) LineCost {
	subtotal := Subtotal(item.UnitPrice, item.Quantity)
	tax := TaxAmount(subtotal, item.TaxPercent)
	return LineCost{
		Subtotal:  subtotal,
		TaxAmount: tax,
		FinalCost: FinalCost(subtotal, tax, item.Freight),
	}
}

// ItemFinalCost is CostOf(item).FinalCost.
func ItemFinalCost(item domain.LineItem) float64 {
	return CostOf(item).FinalCost
}

// PricedItem is a line item together with its computed costs
type PricedItem struct {
	domain.LineItem
	LineCost
}

// WithCosts pairs every item with its computed costs, keeping order
func WithCosts(items []domain.LineItem) []PricedItem {
	out := make([]PricedItem, len(items))
	for i, item := range items {
		out[i] = PricedItem{LineItem: item, LineCost: CostOf(item)}
	}
	return out
}
