package budget_test

import (
	"testing"

	"github.com/odo-atelier/budget-api/internal/budget"
	"github.com/odo-atelier/budget-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func material(id, supplier string, price float64) domain.LineItem {
	return domain.LineItem{ID: id, Item: id, Supplier: supplier, UnitPrice: price, Quantity: 1}
}

func TestGroupBySupplier(t *testing.T) {
	materials := []domain.LineItem{
		material("linho", "Tecidos Brasil", 85),
		material("botao", "Armarinho Central", 0.35),
		material("solto", "   ", 4),
		material("misto", " Tecidos Brasil ", 45),
		material("linha", "Armarinho Central", 12.5),
		material("etiqueta", "Étiquetas Premium", 2.8),
		material("avulso", "", 1),
	}

	view := budget.GroupBySupplier(materials)

	var names []string
	for _, g := range view.Groups {
		names = append(names, g.Supplier)
	}
	assert.Equal(t, []string{"Armarinho Central", "Étiquetas Premium", "Tecidos Brasil", budget.NoSupplier}, names)

	t.Run("every item lands in exactly one group", func(t *testing.T) {
		seen := map[string]int{}
		for _, g := range view.Groups {
			assert.Equal(t, len(g.Items), g.ItemCount)
			for _, it := range g.Items {
				seen[it.ID]++
				assert.Equal(t, g.Supplier, budget.SupplierKey(it))
			}
		}
		assert.Len(t, seen, len(materials))
		for id, n := range seen {
			assert.Equal(t, 1, n, id)
		}
	})

	t.Run("items ordered by unit price", func(t *testing.T) {
		for _, g := range view.Groups {
			for i := 1; i < len(g.Items); i++ {
				assert.LessOrEqual(t, g.Items[i-1].UnitPrice, g.Items[i].UnitPrice)
			}
		}
		tecidos := view.Groups[2]
		require.Len(t, tecidos.Items, 2)
		assert.Equal(t, "misto", tecidos.Items[0].ID)
		assert.Equal(t, "linho", tecidos.Items[1].ID)
	})

	t.Run("totals use the item formulas", func(t *testing.T) {
		grand := 0.0
		for _, g := range view.Groups {
			assert.InDelta(t, budget.CategoryTotal(g.Items), g.Total, 1e-9)
			grand += g.Total
		}
		assert.InDelta(t, budget.CategoryTotal(materials), view.GrandTotal, 1e-9)
		assert.InDelta(t, grand, view.GrandTotal, 1e-9)
	})

	t.Run("input is not reordered", func(t *testing.T) {
		assert.Equal(t, "linho", materials[0].ID)
		assert.Equal(t, "botao", materials[1].ID)
		assert.Equal(t, "avulso", materials[6].ID)
	})
}

func TestGroupBySupplier_SentinelSortsLastEvenAlphabetically(t *testing.T) {
	view := budget.GroupBySupplier([]domain.LineItem{
		material("a", "", 1),
		material("b", "Zeta Aviamentos", 1),
		material("c", "Tecimport", 1),
	})

	require.Len(t, view.Groups, 3)
	assert.Equal(t, "Tecimport", view.Groups[0].Supplier)
	assert.Equal(t, "Zeta Aviamentos", view.Groups[1].Supplier)
	assert.Equal(t, budget.NoSupplier, view.Groups[2].Supplier)
}

func TestGroupBySupplier_Empty(t *testing.T) {
	view := budget.GroupBySupplier(nil)
	assert.Empty(t, view.Groups)
	assert.Equal(t, 0.0, view.GrandTotal)
}

func TestGroupBySupplier_CountText(t *testing.T) {
	view := budget.GroupBySupplier([]domain.LineItem{
		material("a", "Facção ABC", 5),
		material("b", "Facção ABC", 18),
		material("c", "Acabamentos Silva", 3.5),
	})

	assert.Equal(t, "1 item", view.Groups[0].CountText)
	assert.Equal(t, "2 itens", view.Groups[1].CountText)
}
