package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// InitiateCountInput entrada de InitiateStockCount. ProductIDs solo aplica a conteos CYCLE.
type InitiateCountInput struct {
	TenantID   string
	UserID     string
	LocationID string
	Type       entity.StockCountType
	ProductIDs []string
	Notes      string
}

// CountEntry cantidad contada para un ítem del conteo.
type CountEntry struct {
	ItemID          string
	CountedQuantity decimal.Decimal
	Notes           string
}

// EnterCountInput entrada de EnterCountData.
type EnterCountInput struct {
	TenantID     string
	UserID       string
	StockCountID string
	Entries      []CountEntry
}

// ReviewAction estado de revisión pedido para un ítem.
type ReviewAction struct {
	ItemID string
	Status entity.StockCountItemStatus
	Notes  string
}

// ReviewCountInput entrada de ReviewStockCount.
type ReviewCountInput struct {
	TenantID     string
	UserID       string
	StockCountID string
	Actions      []ReviewAction
}

// StockCountResult cabecera, ítems y, tras contabilizar, el ajuste generado.
type StockCountResult struct {
	Count      *entity.StockCount
	Items      []*entity.StockCountItem
	Adjustment *AdjustmentResult
}

// StockCountUseCase conteos físicos: iniciar, capturar, revisar, contabilizar y cancelar.
// Cada fase es una transacción corta; ninguna transacción abarca el proceso completo.
type StockCountUseCase struct {
	txRunner repository.TxRunner
	policy   StockPolicy
	catalog  *Catalog
	counts   repository.StockCountRepository
	sheets   CountSheetGenerator
	log      *logger.Logger
}

// NewStockCountUseCase construye el caso de uso.
func NewStockCountUseCase(
	txRunner repository.TxRunner,
	policy StockPolicy,
	catalog *Catalog,
	counts repository.StockCountRepository,
	sheets CountSheetGenerator,
	log *logger.Logger,
) *StockCountUseCase {
	return &StockCountUseCase{
		txRunner: txRunner,
		policy:   policy,
		catalog:  catalog,
		counts:   counts,
		sheets:   sheets,
		log:      log,
	}
}

// InitiateStockCount crea el conteo y toma el snapshot de saldo y costo de cada producto.
// La varianza se calcula siempre contra este snapshot, nunca contra el saldo vivo.
func (uc *StockCountUseCase) InitiateStockCount(ctx context.Context, in InitiateCountInput) (*StockCountResult, error) {
	if _, err := uc.catalog.Location(ctx, in.TenantID, in.LocationID); err != nil {
		return nil, err
	}
	var products []*entity.Product
	switch in.Type {
	case entity.StockCountFull:
		all, err := uc.catalog.ActiveTrackedProducts(ctx, in.TenantID)
		if err != nil {
			return nil, err
		}
		products = all
	case entity.StockCountCycle:
		if len(in.ProductIDs) == 0 {
			return nil, domain.Validation("PRODUCTS_REQUIRED", "un conteo cíclico requiere productos", nil)
		}
		byID, err := uc.catalog.TrackedProducts(ctx, in.TenantID, in.ProductIDs)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(in.ProductIDs))
		for _, id := range in.ProductIDs {
			p := byID[id]
			if seen[id] || !p.Active {
				continue
			}
			seen[id] = true
			products = append(products, p)
		}
	default:
		return nil, domain.Validation("INVALID_COUNT_TYPE", "tipo de conteo inválido",
			map[string]any{"type": string(in.Type)})
	}
	if len(products) == 0 {
		return nil, domain.Validation("NO_PRODUCTS", "no hay productos activos con control de stock para contar", nil)
	}

	now := time.Now()
	sc := &entity.StockCount{
		ID:          uuid.New().String(),
		TenantID:    in.TenantID,
		LocationID:  in.LocationID,
		Type:        in.Type,
		Status:      entity.StockCountPending,
		Notes:       in.Notes,
		InitiatedBy: in.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*entity.StockCountItem, 0, len(products))
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.StockCounts().Create(ctx, sc); err != nil {
			return err
		}
		for _, p := range products {
			bal, err := tx.Balances().Get(ctx, in.TenantID, p.ID, in.LocationID)
			if err != nil {
				return err
			}
			item := &entity.StockCountItem{
				ID:               uuid.New().String(),
				StockCountID:     sc.ID,
				ProductID:        p.ID,
				SKU:              p.SKU,
				ProductName:      p.Name,
				SnapshotQuantity: decimal.Zero,
				SnapshotCost:     p.Cost,
				Status:           entity.CountItemPending,
			}
			if bal != nil {
				item.SnapshotQuantity = bal.QuantityOnHand
				item.SnapshotCost = bal.AverageCost
			}
			if err := tx.StockCounts().CreateItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &StockCountResult{Count: sc, Items: items}, nil
}

// EnterCountData registra cantidades contadas. Se permite recontar en REVIEW.
// Los ítems que no pertenecen al conteo se ignoran sin abortar el lote.
func (uc *StockCountUseCase) EnterCountData(ctx context.Context, in EnterCountInput) (*StockCountResult, error) {
	for _, e := range in.Entries {
		if e.CountedQuantity.IsNegative() {
			return nil, domain.Validation("INVALID_QUANTITY", "la cantidad contada no puede ser negativa",
				map[string]any{"item_id": e.ItemID, "quantity": e.CountedQuantity.String()})
		}
	}
	var result *StockCountResult
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sc, err := loadCountForUpdate(ctx, tx, in.TenantID, in.StockCountID)
		if err != nil {
			return err
		}
		d := inventory.StockCountTransition(sc.Status, inventory.CountEnter)
		if !d.Allowed {
			return domain.InvalidTransition("conteo", sc.ID, string(sc.Status), string(inventory.CountEnter), d.Reason)
		}
		items, err := tx.StockCounts().ListItems(ctx, sc.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.StockCountItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		now := time.Now()
		for _, e := range in.Entries {
			it, ok := byID[e.ItemID]
			if !ok {
				continue
			}
			counted := inventory.Normalize(e.CountedQuantity)
			variance := counted.Sub(it.SnapshotQuantity)
			it.CountedQuantity = &counted
			it.VarianceQuantity = &variance
			it.Status = entity.CountItemCounted
			it.CountedBy = in.UserID
			it.CountedAt = &now
			if e.Notes != "" {
				it.Notes = e.Notes
			}
			if err := tx.StockCounts().UpdateItem(ctx, it); err != nil {
				return err
			}
		}
		if d.Next != sc.Status {
			sc.Status = d.Next
			sc.UpdatedAt = now
			if err := tx.StockCounts().Update(ctx, sc); err != nil {
				return err
			}
		}
		result = &StockCountResult{Count: sc, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReviewStockCount lleva la cabecera a REVIEW y aplica la decisión de cada ítem elegible.
// Un ítem no elegible (no contado) se deja como está.
func (uc *StockCountUseCase) ReviewStockCount(ctx context.Context, in ReviewCountInput) (*StockCountResult, error) {
	var result *StockCountResult
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sc, err := loadCountForUpdate(ctx, tx, in.TenantID, in.StockCountID)
		if err != nil {
			return err
		}
		d := inventory.StockCountTransition(sc.Status, inventory.CountReview)
		if !d.Allowed {
			return domain.InvalidTransition("conteo", sc.ID, string(sc.Status), string(inventory.CountReview), d.Reason)
		}
		items, err := tx.StockCounts().ListItems(ctx, sc.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.StockCountItem, len(items))
		for _, it := range items {
			byID[it.ID] = it
		}
		for _, a := range in.Actions {
			it, ok := byID[a.ItemID]
			if !ok {
				continue
			}
			if !inventory.ReviewItemTransition(it.Status, a.Status).Allowed {
				continue
			}
			it.Status = a.Status
			if a.Notes != "" {
				it.Notes = a.Notes
			}
			if err := tx.StockCounts().UpdateItem(ctx, it); err != nil {
				return err
			}
		}
		now := time.Now()
		sc.Status = d.Next
		sc.ReviewedBy = in.UserID
		sc.ReviewedAt = &now
		sc.UpdatedAt = now
		if err := tx.StockCounts().Update(ctx, sc); err != nil {
			return err
		}
		result = &StockCountResult{Count: sc, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PostStockCountAdjustments contabiliza las varianzas aprobadas en un único ajuste
// (motivo STOCK_COUNT_VARIANCE) y cierra el conteo. Sin varianzas se cierra sin ajuste.
func (uc *StockCountUseCase) PostStockCountAdjustments(ctx context.Context, tenantID, userID, stockCountID string) (*StockCountResult, error) {
	rules, err := uc.policy.Rules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *StockCountResult
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sc, err := loadCountForUpdate(ctx, tx, tenantID, stockCountID)
		if err != nil {
			return err
		}
		d := inventory.StockCountTransition(sc.Status, inventory.CountPost)
		if !d.Allowed {
			return domain.InvalidTransition("conteo", sc.ID, string(sc.Status), string(inventory.CountPost), d.Reason)
		}
		items, err := tx.StockCounts().ListItems(ctx, sc.ID)
		if err != nil {
			return err
		}
		var lines []AdjustmentLineInput
		for _, it := range items {
			if !inventory.Posts(it) {
				continue
			}
			line := AdjustmentLineInput{ProductID: it.ProductID, Quantity: *it.VarianceQuantity}
			if it.VarianceQuantity.IsPositive() {
				cost := it.SnapshotCost
				line.UnitCost = &cost
			}
			lines = append(lines, line)
		}

		now := time.Now()
		result = &StockCountResult{Count: sc, Items: items}
		if len(lines) > 0 {
			adj := &entity.Adjustment{
				ID:         uuid.New().String(),
				TenantID:   tenantID,
				LocationID: sc.LocationID,
				ReasonCode: entity.ReasonStockCountVariance,
				Notes:      "conteo " + sc.ID,
				CreatedBy:  userID,
				CreatedAt:  now,
			}
			if err := tx.Adjustments().Create(ctx, adj); err != nil {
				return err
			}
			posted, err := postAdjustmentLines(ctx, tx, NewLedger(tx, rules), adj, lines, true)
			if err != nil {
				return err
			}
			sc.AdjustmentID = adj.ID
			result.Adjustment = &AdjustmentResult{Adjustment: adj, Lines: posted}
		}
		sc.Status = d.Next
		sc.CompletedBy = userID
		sc.CompletedAt = &now
		sc.UpdatedAt = now
		return tx.StockCounts().Update(ctx, sc)
	})
	if err != nil {
		return nil, err
	}
	if result.Adjustment == nil {
		uc.log.Info().
			Str("tenant_id", tenantID).
			Str("stock_count_id", stockCountID).
			Msg("conteo completado sin varianzas aprobadas")
	}
	return result, nil
}

// CancelStockCount cierra el conteo sin efectos sobre el inventario.
func (uc *StockCountUseCase) CancelStockCount(ctx context.Context, tenantID, userID, stockCountID string) (*StockCountResult, error) {
	var result *StockCountResult
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sc, err := loadCountForUpdate(ctx, tx, tenantID, stockCountID)
		if err != nil {
			return err
		}
		d := inventory.StockCountTransition(sc.Status, inventory.CountCancel)
		if !d.Allowed {
			return domain.InvalidTransition("conteo", sc.ID, string(sc.Status), string(inventory.CountCancel), d.Reason)
		}
		now := time.Now()
		sc.Status = d.Next
		sc.CompletedBy = userID
		sc.CompletedAt = &now
		sc.UpdatedAt = now
		if err := tx.StockCounts().Update(ctx, sc); err != nil {
			return err
		}
		result = &StockCountResult{Count: sc}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetStockCount devuelve la cabecera con sus ítems.
func (uc *StockCountUseCase) GetStockCount(ctx context.Context, tenantID, id string) (*StockCountResult, error) {
	sc, err := uc.counts.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, domain.NotFound("conteo", id)
	}
	items, err := uc.counts.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StockCountResult{Count: sc, Items: items}, nil
}

// CountSheet genera la hoja de conteo en PDF para imprimir en bodega.
func (uc *StockCountUseCase) CountSheet(ctx context.Context, tenantID, id string) ([]byte, error) {
	res, err := uc.GetStockCount(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	loc, err := uc.catalog.Location(ctx, tenantID, res.Count.LocationID)
	if err != nil {
		return nil, err
	}
	return uc.sheets.GenerateCountSheet(ctx, res.Count, loc, res.Items)
}

func loadCountForUpdate(ctx context.Context, tx repository.Tx, tenantID, id string) (*entity.StockCount, error) {
	sc, err := tx.StockCounts().GetByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, domain.NotFound("conteo", id)
	}
	return sc, nil
}
