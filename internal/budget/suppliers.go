package budget

import (
	"sort"
	"strings"

	"github.com/odo-atelier/budget-api/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NoSupplier groups materials whose supplier is blank.
const NoSupplier = "Sem Fornecedor"

// SupplierGroup is the materials bought from one supplier, cheapest first.
type SupplierGroup struct {
	Supplier  string            `json:"supplier"`
	ItemCount int               `json:"itemCount"`
	CountText string            `json:"countText"`
	Items     []domain.LineItem `json:"items"`
	Total     float64           `json:"total"`
}

// SupplierView is the materials list regrouped by supplier.
type SupplierView struct {
	Groups     []SupplierGroup `json:"groups"`
	GrandTotal float64         `json:"grandTotal"`
}

// SupplierKey is the group an item belongs to.
func SupplierKey(item domain.LineItem) string {
	s := strings.TrimSpace(item.Supplier)
	if s == "" {
		return NoSupplier
	}
	return s
}

// GroupBySupplier regroups materials by trimmed supplier name. Groups are ordered
// with Brazilian Portuguese collation and the blank-supplier group always comes last.
// The input slice is left untouched.
func GroupBySupplier(materials []domain.LineItem) SupplierView {
	buckets := make(map[string][]domain.LineItem)
	var keys []string
	for _, m := range materials {
		key := SupplierKey(m)
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], m)
	}

	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a == NoSupplier {
			return false
		}
		if b == NoSupplier {
			return true
		}
		return col.CompareString(a, b) < 0
	})

	view := SupplierView{Groups: make([]SupplierGroup, 0, len(keys))}
	for _, key := range keys {
		items := buckets[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UnitPrice < items[j].UnitPrice
		})
		total := CategoryTotal(items)
		view.Groups = append(view.Groups, SupplierGroup{
			Supplier:  key,
			ItemCount: len(items),
			CountText: countText(len(items)),
			Items:     items,
			Total:     total,
		})
		view.GrandTotal += total
	}
	return view
}

func countText(n int) string {
	if n == 1 {
		return "1 item"
	}
	return FormatCount(n) + " itens"
}
