package store

import "github.com/odo-atelier/budget-api/internal/domain"

// SampleSeed is the atelier's reference catalogue used for scratch workspaces
func SampleSeed() Seed {
	return Seed{
		Materials: []domain.LineItem{
			{Item: "Linho puro", Label: "Tecido", Description: "Tecido linho 100%", Supplier: "Tecidos Brasil", UnitPrice: 85.00, Quantity: 10, Freight: 50.00, TaxPercent: 12, Usage: "Camisa", CostPerPiece: 45.00},
			{Item: "Linho misto", Label: "Tecido", Description: "Linho com poliéster", Supplier: "Tecidos Brasil", UnitPrice: 45.00, Quantity: 15, Freight: 50.00, TaxPercent: 12, Usage: "Calça", CostPerPiece: 30.00},
			{Item: "Viscose", Label: "Tecido", Description: "Viscose lisa", Supplier: "Tecimport", UnitPrice: 32.00, Quantity: 20, Freight: 40.00, TaxPercent: 12, Usage: "Bata", CostPerPiece: 18.00},
			{Item: "Tricoline", Label: "Tecido", Description: "Tricoline estampada", Supplier: "Tecimport", UnitPrice: 28.00, Quantity: 12, Freight: 40.00, TaxPercent: 12, Usage: "Saia", CostPerPiece: 15.00},
			{Item: "Linha poliéster", Label: "Insumo", Description: "Cone 5000m", Supplier: "Armarinho Central", UnitPrice: 12.50, Quantity: 50, Freight: 25.00, TaxPercent: 18, Usage: "Geral", CostPerPiece: 0.80},
			{Item: "Botões de resina", Label: "Acessório", Description: "Botão 15mm", Supplier: "Armarinho Central", UnitPrice: 0.35, Quantity: 1000, Freight: 15.00, TaxPercent: 18, Usage: "Camisas", CostPerPiece: 0.50},
			{Item: "Etiquetas bordadas", Label: "Acessório", Description: "Logo Odò bordado", Supplier: "Etiquetas Premium", UnitPrice: 2.80, Quantity: 500, Freight: 30.00, TaxPercent: 18, Usage: "Todas peças", CostPerPiece: 2.80},
		},
		Machines: []domain.LineItem{
			{Item: "Máquina reta industrial Direct Drive", Label: "Equipamento", Description: "Motor acoplado", Supplier: "Máquinas São Paulo", UnitPrice: 2800.00, Quantity: 1, Freight: 150.00, TaxPercent: 15, Usage: "Costura geral"},
			{Item: "Overlock 3 fios", Label: "Equipamento", Description: "Acabamento profissional", Supplier: "Máquinas São Paulo", UnitPrice: 3200.00, Quantity: 1, Freight: 150.00, TaxPercent: 15, Usage: "Acabamento"},
			{Item: "Bordadeira eletrônica 1 agulha", Label: "Equipamento", Description: "Automática", Supplier: "Brother Industrial", UnitPrice: 8500.00, Quantity: 1, Freight: 200.00, TaxPercent: 15, Usage: "Bordados"},
			{Item: "Mesa de corte", Label: "Equipamento", Description: "2m x 1,5m", Supplier: "Móveis Industriais", UnitPrice: 1200.00, Quantity: 1, Freight: 100.00, TaxPercent: 15, Usage: "Corte"},
		},
		Production: []domain.LineItem{
			{Item: "Serviço de corte", Label: "Terceirizado", Description: "Corte profissional", Supplier: "Facção ABC", UnitPrice: 5.00, Quantity: 100, TaxPercent: 8, Usage: "Por peça", CostPerPiece: 5.00},
			{Item: "Costura completa", Label: "Terceirizado", Description: "Montagem da peça", Supplier: "Facção ABC", UnitPrice: 18.00, Quantity: 100, TaxPercent: 8, Usage: "Por peça", CostPerPiece: 18.00},
			{Item: "Acabamento", Label: "Terceirizado", Description: "Limpeza e prensa", Supplier: "Acabamentos Silva", UnitPrice: 3.50, Quantity: 100, TaxPercent: 8, Usage: "Por peça", CostPerPiece: 3.50},
		},
		Config: domain.DefaultBudgetConfig(),
	}
}
