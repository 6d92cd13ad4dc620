// Package returns procesa devoluciones de pedidos: reingresa al inventario lo vendible y
// deja constancia de lo dañado, con el reembolso en la misma transacción.
package returns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// DefaultRefundMethod medio de reembolso cuando la solicitud no indica otro.
const DefaultRefundMethod = "ORIGINAL_PAYMENT"

// NumberGenerator genera el número visible de la devolución.
type NumberGenerator interface {
	Next(ctx context.Context, tenantID string) string
	Unique() string
}

// ItemInput línea devuelta contra una línea del pedido.
type ItemInput struct {
	OrderItemID  string
	Quantity     decimal.Decimal
	Condition    entity.ItemCondition
	RefundAmount decimal.Decimal
}

// Input entrada de CreateReturn. LocationID vacío reingresa en la ubicación del pedido.
type Input struct {
	TenantID     string
	UserID       string
	OrderID      string
	LocationID   string
	Reason       string
	RefundMethod string
	Items        []ItemInput
}

// Result devolución con líneas y reembolso (nil si el total es cero).
type Result struct {
	Return      *entity.Return
	Items       []*entity.ReturnItem
	Refund      *entity.Refund
	OrderStatus entity.OrderStatus
}

// UseCase devoluciones de pedidos.
type UseCase struct {
	txRunner repository.TxRunner
	policy   appinventory.StockPolicy
	catalog  *appinventory.Catalog
	orders   repository.OrderRepository
	returns  repository.ReturnRepository
	numbers  NumberGenerator
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	policy appinventory.StockPolicy,
	catalog *appinventory.Catalog,
	orders repository.OrderRepository,
	returns repository.ReturnRepository,
	numbers NumberGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		policy:   policy,
		catalog:  catalog,
		orders:   orders,
		returns:  returns,
		numbers:  numbers,
		log:      log,
	}
}

// CreateReturn valida todas las líneas contra lo pendiente por devolver antes de escribir.
// Dentro de la transacción vuelve a bloquear el pedido y a calcular lo ya devuelto, así dos
// devoluciones concurrentes no exceden lo vendido.
func (uc *UseCase) CreateReturn(ctx context.Context, in Input) (*Result, error) {
	if len(in.Items) == 0 {
		return nil, domain.Validation("ITEMS_REQUIRED", "la devolución debe tener al menos una línea", nil)
	}
	for _, it := range in.Items {
		if !inventory.Positive(inventory.Normalize(it.Quantity)) {
			return nil, domain.Validation("INVALID_QUANTITY", "la cantidad a devolver debe ser mayor que cero",
				map[string]any{"order_item_id": it.OrderItemID, "quantity": it.Quantity.String()})
		}
		if !it.Condition.Valid() {
			return nil, domain.Validation("INVALID_CONDITION", "condición desconocida",
				map[string]any{"order_item_id": it.OrderItemID, "condition": string(it.Condition)})
		}
		if it.RefundAmount.IsNegative() {
			return nil, domain.Validation("INVALID_REFUND", "el reembolso no puede ser negativo",
				map[string]any{"order_item_id": it.OrderItemID})
		}
	}

	o, err := uc.orders.GetByID(ctx, in.TenantID, in.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido", in.OrderID)
	}
	if d := inventory.OrderTransition(o.Status, inventory.OrderReturn); !d.Allowed {
		return nil, domain.InvalidTransition("pedido", o.ID, string(o.Status), string(inventory.OrderReturn), d.Reason)
	}
	locationID := in.LocationID
	if locationID == "" {
		locationID = o.LocationID
	}
	if _, err := uc.catalog.Location(ctx, in.TenantID, locationID); err != nil {
		return nil, err
	}

	orderItems, err := uc.orders.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	returned, err := uc.returns.ReturnedQuantities(ctx, in.TenantID, o.ID)
	if err != nil {
		return nil, err
	}
	byID, err := checkReturnable(orderItems, returned, in.Items)
	if err != nil {
		return nil, err
	}
	tracked := make(map[string]bool, len(byID))
	for _, oi := range byID {
		if _, seen := tracked[oi.ProductID]; seen {
			continue
		}
		p, err := uc.catalog.Product(ctx, in.TenantID, oi.ProductID)
		if err != nil {
			return nil, err
		}
		tracked[p.ID] = p.TrackStock
	}
	rules, err := uc.policy.Rules(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	method := in.RefundMethod
	if method == "" {
		method = DefaultRefundMethod
	}
	now := time.Now()
	ret := &entity.Return{
		ID:         uuid.New().String(),
		TenantID:   in.TenantID,
		Number:     uc.numbers.Next(ctx, in.TenantID),
		OrderID:    o.ID,
		LocationID: locationID,
		Status:     entity.ReturnCompleted,
		Reason:     in.Reason,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
	}

	var result *Result
	process := func(tx repository.Tx) error {
		locked, err := tx.Orders().GetByIDForUpdate(ctx, in.TenantID, o.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("pedido", o.ID)
		}
		d := inventory.OrderTransition(locked.Status, inventory.OrderReturn)
		if !d.Allowed {
			return domain.InvalidTransition("pedido", locked.ID, string(locked.Status), string(inventory.OrderReturn), d.Reason)
		}
		already, err := tx.Returns().ReturnedQuantities(ctx, in.TenantID, locked.ID)
		if err != nil {
			return err
		}
		if _, err := checkReturnable(orderItems, already, in.Items); err != nil {
			return err
		}

		ret.RefundTotal = decimal.Zero
		items := make([]*entity.ReturnItem, 0, len(in.Items))
		for _, it := range in.Items {
			ri := &entity.ReturnItem{
				ID:           uuid.New().String(),
				ReturnID:     ret.ID,
				OrderItemID:  it.OrderItemID,
				ProductID:    byID[it.OrderItemID].ProductID,
				Quantity:     inventory.Normalize(it.Quantity),
				Condition:    it.Condition,
				RefundAmount: inventory.Normalize(it.RefundAmount),
			}
			ri.Restocked = ri.Condition.Restocks() && tracked[ri.ProductID]
			ret.RefundTotal = ret.RefundTotal.Add(ri.RefundAmount)
			items = append(items, ri)
		}
		if err := tx.Returns().Create(ctx, ret); err != nil {
			return err
		}

		ledger := appinventory.NewLedger(tx, rules)
		for _, ri := range items {
			if err := tx.Returns().CreateItem(ctx, ri); err != nil {
				return err
			}
			if !ri.Restocked {
				continue
			}
			if _, _, err := ledger.Record(ctx, appinventory.Movement{
				TenantID:   in.TenantID,
				UserID:     in.UserID,
				ProductID:  ri.ProductID,
				LocationID: locationID,
				Quantity:   ri.Quantity,
				Type:       entity.TxReturnRestock,
				Link:       entity.Linkage{ReturnItemID: ri.ID},
				Note:       ret.Number,
				Lot:        byID[ri.OrderItemID].Lot,
				Serial:     byID[ri.OrderItemID].Serial,
			}); err != nil {
				return err
			}
		}

		var refund *entity.Refund
		if ret.RefundTotal.IsPositive() {
			refund = &entity.Refund{
				ID:        uuid.New().String(),
				ReturnID:  ret.ID,
				Amount:    ret.RefundTotal,
				Method:    method,
				CreatedAt: now,
			}
			if err := tx.Returns().CreateRefund(ctx, refund); err != nil {
				return err
			}
		}

		for _, ri := range items {
			already[ri.OrderItemID] = already[ri.OrderItemID].Add(ri.Quantity)
		}
		locked.Status = entity.OrderReturned
		for _, oi := range orderItems {
			if already[oi.ID].LessThan(oi.Quantity) {
				locked.Status = d.Next
				break
			}
		}
		locked.UpdatedAt = now
		if err := tx.Orders().Update(ctx, locked); err != nil {
			return err
		}
		result = &Result{Return: ret, Items: items, Refund: refund, OrderStatus: locked.Status}
		return nil
	}

	err = uc.txRunner.Run(ctx, process)
	if errors.Is(err, domain.ErrDuplicate) {
		uc.log.Warn().Str("tenant_id", in.TenantID).Str("number", ret.Number).Msg("número de devolución duplicado, se reintenta")
		ret.Number = uc.numbers.Unique()
		err = uc.txRunner.Run(ctx, process)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetReturn devuelve la devolución con sus líneas.
func (uc *UseCase) GetReturn(ctx context.Context, tenantID, id string) (*entity.Return, []*entity.ReturnItem, error) {
	ret, err := uc.returns.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	if ret == nil {
		return nil, nil, domain.NotFound("devolución", id)
	}
	items, err := uc.returns.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return ret, items, nil
}

// checkReturnable verifica que cada línea pertenezca al pedido y que la suma devuelta por
// línea (incluidas repeticiones en la misma solicitud) no exceda lo vendido menos lo ya devuelto.
func checkReturnable(
	orderItems []*entity.OrderItem,
	returned map[string]decimal.Decimal,
	lines []ItemInput,
) (map[string]*entity.OrderItem, error) {
	byID := make(map[string]*entity.OrderItem, len(orderItems))
	for _, oi := range orderItems {
		byID[oi.ID] = oi
	}
	requested := make(map[string]decimal.Decimal, len(lines))
	for _, it := range lines {
		oi, ok := byID[it.OrderItemID]
		if !ok {
			return nil, domain.Validation("ORDER_ITEM_NOT_IN_ORDER", "la línea no pertenece al pedido",
				map[string]any{"order_item_id": it.OrderItemID})
		}
		requested[oi.ID] = requested[oi.ID].Add(inventory.Normalize(it.Quantity))
		maxReturnable := oi.Quantity.Sub(returned[oi.ID])
		if requested[oi.ID].GreaterThan(maxReturnable) {
			return nil, domain.OverReturn(oi.ID, requested[oi.ID].String(), maxReturnable.String())
		}
	}
	return byID, nil
}
