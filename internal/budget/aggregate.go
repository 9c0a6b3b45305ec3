package budget

import "github.com/odo-atelier/budget-api/internal/domain"

// EquipmentAmortizationMonths is the horizon over which machine purchases are spread.
const EquipmentAmortizationMonths = 24

// DefaultMaterialCostPerUnit is used when no material carries a per-piece cost hint.
const DefaultMaterialCostPerUnit = 67.85

// CategoryTotal sums the final cost of every item. An empty list totals 0.
func CategoryTotal(items []domain.LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += ItemFinalCost(item)
	}
	return total
}

// FixedCostPerUnit spreads amortized equipment, operating overhead and internal labor
// over the monthly production volume.
func FixedCostPerUnit(machineTotal, operationalCost, internalLabor, monthlyVolume float64) (float64, error) {
	if monthlyVolume <= 0 {
		return 0, domain.ErrInvalidVolume
	}
	return machineTotal/EquipmentAmortizationMonths/monthlyVolume +
		operationalCost/monthlyVolume +
		internalLabor/monthlyVolume, nil
}

// VariableCostPerUnit spreads outsourced production services over the monthly volume.
func VariableCostPerUnit(productionTotal, monthlyVolume float64) (float64, error) {
	if monthlyVolume <= 0 {
		return 0, domain.ErrInvalidVolume
	}
	return productionTotal / monthlyVolume, nil
}

// AverageMaterialCostPerUnit is the mean of the materials' stored per-piece cost hints.
// The hints are taken as entered, not derived from price and quantity.
func AverageMaterialCostPerUnit(materials []domain.LineItem) float64 {
	if len(materials) == 0 {
		return DefaultMaterialCostPerUnit
	}
	sum := 0.0
	for _, m := range materials {
		sum += m.CostPerPiece
	}
	return sum / float64(len(materials))
}

// Tier identifies a suggested sale price.
type Tier string

const (
	TierWholesale     Tier = "wholesale"
	TierMinimumRetail Tier = "minimumRetail"
	TierIdealRetail   Tier = "idealRetail"
)

// Markup is a fixed multiplier applied to the total cost per piece.
type Markup struct {
	Tier       Tier
	Label      string
	Multiplier float64
}

// Markups lists the price tiers in ascending order.
var Markups = []Markup{
	{Tier: TierWholesale, Label: "Atacado", Multiplier: 2},
	{Tier: TierMinimumRetail, Label: "Varejo Mínimo", Multiplier: 3},
	{Tier: TierIdealRetail, Label: "Varejo Ideal", Multiplier: 4},
}

// SuggestedPrice multiplies the total cost per piece by a markup.
func SuggestedPrice(totalCostPerUnit, multiplier float64) float64 {
	return totalCostPerUnit * multiplier
}

// PriceTier is a suggested price with the profit it leaves per piece.
type PriceTier struct {
	Tier       Tier    `json:"tier"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
}

// Totals are the final cost sums of each category.
type Totals struct {
	Materials  float64 `json:"materials"`
	Machines   float64 `json:"machines"`
	Production float64 `json:"production"`
}

// Summary is every derived aggregate of a budget.
type Summary struct {
	Totals                     Totals      `json:"totals"`
	FixedCostPerUnit           float64     `json:"fixedCostPerUnit"`
	VariableCostPerUnit        float64     `json:"variableCostPerUnit"`
	AverageMaterialCostPerUnit float64     `json:"averageMaterialCostPerUnit"`
	TotalCostPerUnit           float64     `json:"totalCostPerUnit"`
	Prices                     []PriceTier `json:"prices"`
}

// Price returns the tier with the given key.
func (s Summary) Price(tier Tier) PriceTier {
	for _, p := range s.Prices {
		if p.Tier == tier {
			return p
		}
	}
	return PriceTier{Tier: tier}
}

// Summarize derives all aggregates from the three categories and the configuration.
// It fails with domain.ErrInvalidVolume when the monthly volume is not positive.
func Summarize(materials, machines, production []domain.LineItem, cfg domain.BudgetConfig) (Summary, error) {
	totals := Totals{
		Materials:  CategoryTotal(materials),
		Machines:   CategoryTotal(machines),
		Production: CategoryTotal(production),
	}

	fixed, err := FixedCostPerUnit(totals.Machines, cfg.OperationalCost, cfg.InternalLabor, cfg.MonthlyVolume)
	if err != nil {
		return Summary{}, err
	}
	variable, err := VariableCostPerUnit(totals.Production, cfg.MonthlyVolume)
	if err != nil {
		return Summary{}, err
	}
	material := AverageMaterialCostPerUnit(materials)
	total := fixed + variable + material

	prices := make([]PriceTier, 0, len(Markups))
	for _, m := range Markups {
		price := SuggestedPrice(total, m.Multiplier)
		prices = append(prices, PriceTier{
			Tier:       m.Tier,
			Label:      m.Label,
			Multiplier: m.Multiplier,
			Price:      price,
			Profit:     price - total,
		})
	}

	return Summary{
		Totals:                     totals,
		FixedCostPerUnit:           fixed,
		VariableCostPerUnit:        variable,
		AverageMaterialCostPerUnit: material,
		TotalCostPerUnit:           total,
		Prices:                     prices,
	}, nil
}
