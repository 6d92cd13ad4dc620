package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var idealStockFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase genera la lista de reposición para una ubicación.
type ReplenishmentUseCase struct {
	catalog  *Catalog
	balances repository.BalanceRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(catalog *Catalog, balances repository.BalanceRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{catalog: catalog, balances: balances}
}

// GenerateReplenishmentList devuelve los productos cuyo disponible (en mano - asignado) está
// bajo el punto de reorden, con la cantidad sugerida para volver al stock ideal.
// Se lee siempre el saldo vigente; los saldos nunca pasan por caché.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	tenantID, locationID string,
) ([]dto.ReplenishmentSuggestionDTO, error) {
	if _, err := uc.catalog.Location(ctx, tenantID, locationID); err != nil {
		return nil, err
	}
	rawItems, err := uc.balances.ListBelowReorderPoint(ctx, tenantID, locationID)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		available := item.OnHand.Sub(item.Allocated)
		idealStock := item.ReorderPoint.Mul(idealStockFactor)
		suggestedQty := idealStock.Sub(available)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		var grossMarginPct decimal.Decimal
		if item.Price.GreaterThan(decimal.Zero) {
			grossMarginPct = item.Price.Sub(item.AverageCost).Div(item.Price).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          item.ProductID,
			SKU:                item.SKU,
			ProductName:        item.ProductName,
			OnHand:             item.OnHand,
			Allocated:          item.Allocated,
			Available:          available,
			ReorderPoint:       item.ReorderPoint,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.AverageCost,
			EstimatedOrderCost: suggestedQty.Mul(item.AverageCost).Round(4),
			GrossMarginPct:     grossMarginPct,
		})
	}

	// Mayor déficit primero; a igual déficit, mayor margen.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.ReorderPoint.Sub(a.Available)
		defB := b.ReorderPoint.Sub(b.Available)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
