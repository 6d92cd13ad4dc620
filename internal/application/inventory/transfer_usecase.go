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

const noteTransferCancelled = "transfer cancelled"

// TransferLineInput cantidad solicitada de un producto.
type TransferLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
}

// TransferInput entrada de CreateTransfer.
type TransferInput struct {
	TenantID              string
	UserID                string
	SourceLocationID      string
	DestinationLocationID string
	Notes                 string
	Lines                 []TransferLineInput
}

// ReceiveLineInput cantidad recibida de un producto del traslado.
type ReceiveLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Lot       string
	Serial    string
}

// ReceiveInput entrada de ReceiveTransfer. Las líneas omitidas conservan lo ya recibido.
type ReceiveInput struct {
	TenantID   string
	UserID     string
	TransferID string
	Lines      []ReceiveLineInput
}

// TransferResult cabecera y líneas del traslado.
type TransferResult struct {
	Transfer *entity.Transfer
	Lines    []*entity.TransferLine
}

// TransferUseCase traslados entre ubicaciones: crear, despachar, recibir y cancelar.
type TransferUseCase struct {
	txRunner  repository.TxRunner
	policy    StockPolicy
	catalog   *Catalog
	transfers repository.TransferRepository
	log       *logger.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner repository.TxRunner,
	policy StockPolicy,
	catalog *Catalog,
	transfers repository.TransferRepository,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:  txRunner,
		policy:    policy,
		catalog:   catalog,
		transfers: transfers,
		log:       log,
	}
}

// CreateTransfer crea el traslado en PENDING; no mueve inventario.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.SourceLocationID == in.DestinationLocationID {
		return nil, domain.Validation("SAME_LOCATION", "origen y destino deben ser distintos",
			map[string]any{"location_id": in.SourceLocationID})
	}
	if len(in.Lines) == 0 {
		return nil, domain.Validation("LINES_REQUIRED", "el traslado debe tener al menos una línea", nil)
	}
	if _, err := uc.catalog.Location(ctx, in.TenantID, in.SourceLocationID); err != nil {
		return nil, err
	}
	if _, err := uc.catalog.Location(ctx, in.TenantID, in.DestinationLocationID); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(in.Lines))
	ids := make([]string, 0, len(in.Lines))
	for _, l := range in.Lines {
		if !inventory.Positive(inventory.Normalize(l.Quantity)) {
			return nil, domain.Validation("INVALID_QUANTITY", "la cantidad solicitada debe ser mayor que cero",
				map[string]any{"product_id": l.ProductID, "quantity": l.Quantity.String()})
		}
		if seen[l.ProductID] {
			return nil, domain.Validation("DUPLICATE_PRODUCT", "producto repetido en el traslado",
				map[string]any{"product_id": l.ProductID})
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}
	if _, err := uc.catalog.TrackedProducts(ctx, in.TenantID, ids); err != nil {
		return nil, err
	}

	now := time.Now()
	t := &entity.Transfer{
		ID:                    uuid.New().String(),
		TenantID:              in.TenantID,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		Status:                entity.TransferPending,
		Notes:                 in.Notes,
		CreatedBy:             in.UserID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	lines := make([]*entity.TransferLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.TransferLine{
			ID:                uuid.New().String(),
			TransferID:        t.ID,
			ProductID:         l.ProductID,
			QuantityRequested: inventory.Normalize(l.Quantity),
			QuantityShipped:   decimal.Zero,
			QuantityReceived:  decimal.Zero,
		})
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		if err := tx.Transfers().Create(ctx, t); err != nil {
			return err
		}
		for _, line := range lines {
			if err := tx.Transfers().CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TransferResult{Transfer: t, Lines: lines}, nil
}

// ShipTransfer despacha la cantidad solicitada completa de cada línea desde el origen.
// El bloqueo de la cabecera hace que un segundo despacho concurrente vea IN_TRANSIT y se rechace.
func (uc *TransferUseCase) ShipTransfer(ctx context.Context, tenantID, userID, transferID string) (*TransferResult, error) {
	rules, err := uc.policy.Rules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *TransferResult
	moved := 0
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		t, err := loadTransferForUpdate(ctx, tx, tenantID, transferID)
		if err != nil {
			return err
		}
		d := inventory.TransferTransition(t.Status, inventory.TransferShip)
		if !d.Allowed {
			return domain.InvalidTransition("traslado", t.ID, string(t.Status), string(inventory.TransferShip), d.Reason)
		}
		lines, err := tx.Transfers().ListLines(ctx, t.ID)
		if err != nil {
			return err
		}
		ledger := NewLedger(tx, rules)
		for _, line := range lines {
			if !inventory.Positive(line.QuantityRequested) {
				continue
			}
			if _, _, err := ledger.Record(ctx, Movement{
				TenantID:   tenantID,
				UserID:     userID,
				ProductID:  line.ProductID,
				LocationID: t.SourceLocationID,
				Quantity:   line.QuantityRequested.Neg(),
				Type:       entity.TxTransferOut,
				Link:       entity.Linkage{TransferID: t.ID, TransferLineID: line.ID},
			}); err != nil {
				return err
			}
			line.QuantityShipped = line.QuantityRequested
			if err := tx.Transfers().UpdateLine(ctx, line); err != nil {
				return err
			}
			moved++
		}
		t.Status = d.Next
		t.UpdatedAt = time.Now()
		if err := tx.Transfers().Update(ctx, t); err != nil {
			return err
		}
		result = &TransferResult{Transfer: t, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		uc.log.Warn().
			Str("tenant_id", tenantID).
			Str("transfer_id", transferID).
			Msg("traslado despachado sin movimientos de inventario")
	}
	return result, nil
}

// ReceiveTransfer ingresa en destino las cantidades recibidas y deriva el estado a partir de
// los totales de todas las líneas.
func (uc *TransferUseCase) ReceiveTransfer(ctx context.Context, in ReceiveInput) (*TransferResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.Validation("LINES_REQUIRED", "la recepción debe tener al menos una línea", nil)
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if !inventory.Positive(inventory.Normalize(l.Quantity)) {
			return nil, domain.Validation("INVALID_QUANTITY", "la cantidad recibida debe ser mayor que cero",
				map[string]any{"product_id": l.ProductID, "quantity": l.Quantity.String()})
		}
		if seen[l.ProductID] {
			return nil, domain.Validation("DUPLICATE_PRODUCT", "producto repetido en la recepción",
				map[string]any{"product_id": l.ProductID})
		}
		seen[l.ProductID] = true
	}
	rules, err := uc.policy.Rules(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	var result *TransferResult
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		t, err := loadTransferForUpdate(ctx, tx, in.TenantID, in.TransferID)
		if err != nil {
			return err
		}
		d := inventory.TransferTransition(t.Status, inventory.TransferReceive)
		if !d.Allowed {
			return domain.InvalidTransition("traslado", t.ID, string(t.Status), string(inventory.TransferReceive), d.Reason)
		}
		lines, err := tx.Transfers().ListLines(ctx, t.ID)
		if err != nil {
			return err
		}
		byProduct := make(map[string]*entity.TransferLine, len(lines))
		for _, line := range lines {
			byProduct[line.ProductID] = line
		}
		// Todo el lote se valida antes del primer movimiento.
		for _, l := range in.Lines {
			line, ok := byProduct[l.ProductID]
			if !ok {
				return domain.Validation("PRODUCT_NOT_IN_TRANSFER", "el producto no pertenece al traslado",
					map[string]any{"product_id": l.ProductID, "transfer_id": t.ID})
			}
			qty := inventory.Normalize(l.Quantity)
			maxReceivable := line.QuantityRequested.Sub(line.QuantityReceived)
			if qty.GreaterThan(maxReceivable) {
				return domain.OverReceipt(l.ProductID, qty.String(), maxReceivable.String())
			}
		}

		ledger := NewLedger(tx, rules)
		for _, l := range in.Lines {
			line := byProduct[l.ProductID]
			qty := inventory.Normalize(l.Quantity)
			if _, _, err := ledger.Record(ctx, Movement{
				TenantID:   in.TenantID,
				UserID:     in.UserID,
				ProductID:  l.ProductID,
				LocationID: t.DestinationLocationID,
				Quantity:   qty,
				Type:       entity.TxTransferIn,
				Link:       entity.Linkage{TransferID: t.ID, TransferLineID: line.ID},
				Lot:        l.Lot,
				Serial:     l.Serial,
			}); err != nil {
				return err
			}
			line.QuantityReceived = line.QuantityReceived.Add(qty)
			if err := tx.Transfers().UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		requested := make([]decimal.Decimal, 0, len(lines))
		received := make([]decimal.Decimal, 0, len(lines))
		for _, line := range lines {
			requested = append(requested, line.QuantityRequested)
			received = append(received, line.QuantityReceived)
		}
		next := inventory.DeriveTransferStatus(t.Status, inventory.SumQuantities(requested...), inventory.SumQuantities(received...))
		if next != t.Status {
			t.Status = next
			t.UpdatedAt = time.Now()
			if err := tx.Transfers().Update(ctx, t); err != nil {
				return err
			}
		}
		result = &TransferResult{Transfer: t, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelTransfer cancela un traslado PENDING, o uno IN_TRANSIT sin recepciones devolviendo al
// origen lo despachado (TRANSFER_IN en origen). Con recepciones parciales se rechaza.
func (uc *TransferUseCase) CancelTransfer(ctx context.Context, tenantID, userID, transferID string) (*TransferResult, error) {
	rules, err := uc.policy.Rules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *TransferResult
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		t, err := loadTransferForUpdate(ctx, tx, tenantID, transferID)
		if err != nil {
			return err
		}
		d := inventory.TransferTransition(t.Status, inventory.TransferCancel)
		if !d.Allowed {
			return domain.InvalidTransition("traslado", t.ID, string(t.Status), string(inventory.TransferCancel), d.Reason)
		}
		lines, err := tx.Transfers().ListLines(ctx, t.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.QuantityReceived.Sign() > 0 {
				return domain.InvalidTransition("traslado", t.ID, string(t.Status), string(inventory.TransferCancel),
					"el traslado ya tiene recepciones")
			}
		}
		ledger := NewLedger(tx, rules)
		for _, line := range lines {
			if !inventory.Positive(line.QuantityShipped) {
				continue
			}
			if _, _, err := ledger.Record(ctx, Movement{
				TenantID:   tenantID,
				UserID:     userID,
				ProductID:  line.ProductID,
				LocationID: t.SourceLocationID,
				Quantity:   line.QuantityShipped,
				Type:       entity.TxTransferIn,
				Link:       entity.Linkage{TransferID: t.ID, TransferLineID: line.ID},
				Note:       noteTransferCancelled,
			}); err != nil {
				return err
			}
		}
		t.Status = d.Next
		t.UpdatedAt = time.Now()
		if err := tx.Transfers().Update(ctx, t); err != nil {
			return err
		}
		result = &TransferResult{Transfer: t, Lines: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetTransfer devuelve la cabecera con sus líneas.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, tenantID, id string) (*TransferResult, error) {
	t, err := uc.transfers.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("traslado", id)
	}
	lines, err := uc.transfers.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TransferResult{Transfer: t, Lines: lines}, nil
}

func loadTransferForUpdate(ctx context.Context, tx repository.Tx, tenantID, id string) (*entity.Transfer, error) {
	t, err := tx.Transfers().GetByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("traslado", id)
	}
	return t, nil
}
