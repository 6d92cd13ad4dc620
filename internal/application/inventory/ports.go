package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockPolicy resuelve las reglas de stock de un tenant. Se consulta una vez por transacción
// y el resultado se pasa al Ledger; no hay estado global.
type StockPolicy interface {
	Rules(ctx context.Context, tenantID string) (StockRules, error)
}

// CountSheetGenerator genera la hoja de conteo imprimible (ciega: sin cantidades del sistema).
type CountSheetGenerator interface {
	GenerateCountSheet(
		ctx context.Context,
		count *entity.StockCount,
		location *entity.Location,
		items []*entity.StockCountItem,
	) ([]byte, error)
}
