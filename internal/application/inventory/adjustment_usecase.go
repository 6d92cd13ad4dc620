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

// AdjustmentLineInput delta con signo para un producto.
type AdjustmentLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Lot       string
	Serial    string
}

// AdjustmentInput entrada de CreateAdjustment.
type AdjustmentInput struct {
	TenantID   string
	UserID     string
	LocationID string
	ReasonCode string
	Notes      string
	Lines      []AdjustmentLineInput
}

// AdjustmentResult cabecera y líneas efectivamente movidas.
type AdjustmentResult struct {
	Adjustment *entity.Adjustment
	Lines      []*entity.AdjustmentLine
}

// AdjustmentUseCase ajustes manuales de inventario (entradas y salidas por motivo).
type AdjustmentUseCase struct {
	txRunner    repository.TxRunner
	policy      StockPolicy
	catalog     *Catalog
	adjustments repository.AdjustmentRepository
	log         *logger.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	txRunner repository.TxRunner,
	policy StockPolicy,
	catalog *Catalog,
	adjustments repository.AdjustmentRepository,
	log *logger.Logger,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		policy:      policy,
		catalog:     catalog,
		adjustments: adjustments,
		log:         log,
	}
}

// CreateAdjustment valida fuera de la tx y luego, en una sola transacción, crea la cabecera
// y registra un movimiento por cada línea con delta distinto de cero. Todas o ninguna.
func (uc *AdjustmentUseCase) CreateAdjustment(ctx context.Context, in AdjustmentInput) (*AdjustmentResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Validation("LINES_REQUIRED", "el ajuste debe tener al menos una línea", nil)
	}
	if _, err := uc.catalog.Location(ctx, in.TenantID, in.LocationID); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.UnitCost != nil && l.UnitCost.IsNegative() {
			return nil, domain.Validation("INVALID_UNIT_COST", "el costo unitario no puede ser negativo",
				map[string]any{"product_id": l.ProductID, "unit_cost": l.UnitCost.String()})
		}
		ids = append(ids, l.ProductID)
	}
	if _, err := uc.catalog.TrackedProducts(ctx, in.TenantID, ids); err != nil {
		return nil, err
	}
	rules, err := uc.policy.Rules(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	adj := &entity.Adjustment{
		ID:         uuid.New().String(),
		TenantID:   in.TenantID,
		LocationID: in.LocationID,
		ReasonCode: in.ReasonCode,
		Notes:      in.Notes,
		CreatedBy:  in.UserID,
		CreatedAt:  time.Now(),
	}
	var lines []*entity.AdjustmentLine
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Adjustments().Create(ctx, adj); err != nil {
			return err
		}
		var err error
		lines, err = postAdjustmentLines(ctx, tx, NewLedger(tx, rules), adj, in.Lines, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		uc.log.Info().
			Str("tenant_id", in.TenantID).
			Str("adjustment_id", adj.ID).
			Msg("ajuste sin movimientos: todas las líneas en cero")
	}
	return &AdjustmentResult{Adjustment: adj, Lines: lines}, nil
}

// GetAdjustment devuelve la cabecera con sus líneas.
func (uc *AdjustmentUseCase) GetAdjustment(ctx context.Context, tenantID, id string) (*AdjustmentResult, error) {
	adj, err := uc.adjustments.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.NotFound("ajuste", id)
	}
	lines, err := uc.adjustments.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AdjustmentResult{Adjustment: adj, Lines: lines}, nil
}

// postAdjustmentLines registra cada línea no nula contra el ledger y persiste su AdjustmentLine.
// Con countVariance las líneas son varianzas de conteo (CYCLE_COUNT_ADJUSTMENT).
func postAdjustmentLines(
	ctx context.Context,
	tx repository.Tx,
	ledger *Ledger,
	adj *entity.Adjustment,
	in []AdjustmentLineInput,
	countVariance bool,
) ([]*entity.AdjustmentLine, error) {
	lines := make([]*entity.AdjustmentLine, 0, len(in))
	for _, l := range in {
		qty := inventory.Normalize(l.Quantity)
		if qty.IsZero() {
			continue
		}
		txType := entity.TxAdjustmentIn
		switch {
		case countVariance:
			txType = entity.TxCycleCountAdjustment
		case qty.IsNegative():
			txType = entity.TxAdjustmentOut
		}
		_, txn, err := ledger.Record(ctx, Movement{
			TenantID:   adj.TenantID,
			UserID:     adj.CreatedBy,
			ProductID:  l.ProductID,
			LocationID: adj.LocationID,
			Quantity:   qty,
			Type:       txType,
			UnitCost:   l.UnitCost,
			Link:       entity.Linkage{AdjustmentID: adj.ID},
			Note:       adj.ReasonCode,
			Lot:        l.Lot,
			Serial:     l.Serial,
		})
		if err != nil {
			return nil, err
		}
		line := &entity.AdjustmentLine{
			ID:            uuid.New().String(),
			AdjustmentID:  adj.ID,
			ProductID:     l.ProductID,
			Quantity:      qty,
			UnitCost:      txn.UnitCost,
			Lot:           l.Lot,
			Serial:        l.Serial,
			TransactionID: txn.ID,
		}
		if err := tx.Adjustments().CreateLine(ctx, line); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
