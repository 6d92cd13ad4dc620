// Package order asigna inventario a pedidos: descuenta al entrar en proceso y revierte
// exactamente lo descontado al cancelar.
package order

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

// backorderEnabled pedidos sin stock disponible se rechazan completos.
const backorderEnabled = false

// NumberGenerator genera el número visible del pedido.
type NumberGenerator interface {
	Next(ctx context.Context, tenantID string) string
	Unique() string
}

// ItemInput línea solicitada. UnitPrice nil toma el precio del producto.
type ItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
	Lot       string
	Serial    string
}

// CreateInput entrada de CreateOrder. Status vacío equivale a PENDING_PAYMENT.
type CreateInput struct {
	TenantID   string
	UserID     string
	CustomerID string
	LocationID string
	Status     entity.OrderStatus
	Notes      string
	Items      []ItemInput
}

// Result pedido con sus líneas.
type Result struct {
	Order *entity.Order
	Items []*entity.OrderItem
}

// UseCase ciclo de vida del pedido en lo que toca al inventario.
type UseCase struct {
	txRunner repository.TxRunner
	policy   appinventory.StockPolicy
	catalog  *appinventory.Catalog
	balances repository.BalanceRepository
	orders   repository.OrderRepository
	numbers  NumberGenerator
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner repository.TxRunner,
	policy appinventory.StockPolicy,
	catalog *appinventory.Catalog,
	balances repository.BalanceRepository,
	orders repository.OrderRepository,
	numbers NumberGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner: txRunner,
		policy:   policy,
		catalog:  catalog,
		balances: balances,
		orders:   orders,
		numbers:  numbers,
		log:      log,
	}
}

// CreateOrder valida disponibilidad de todas las líneas antes de escribir nada y, si el
// estado inicial asigna stock (PROCESSING), registra una venta por línea con control de stock.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateInput) (*Result, error) {
	status := in.Status
	if status == "" {
		status = entity.OrderPendingPayment
	}
	if status != entity.OrderPendingPayment && status != entity.OrderProcessing {
		return nil, domain.Validation("INVALID_STATUS", "un pedido solo se crea pendiente de pago o en proceso",
			map[string]any{"status": string(status)})
	}
	if len(in.Items) == 0 {
		return nil, domain.Validation("ITEMS_REQUIRED", "el pedido debe tener al menos una línea", nil)
	}
	if _, err := uc.catalog.Location(ctx, in.TenantID, in.LocationID); err != nil {
		return nil, err
	}

	products := make(map[string]*entity.Product, len(in.Items))
	requested := make(map[string]decimal.Decimal, len(in.Items))
	for _, it := range in.Items {
		qty := inventory.Normalize(it.Quantity)
		if !inventory.Positive(qty) {
			return nil, domain.Validation("INVALID_QUANTITY", "la cantidad debe ser mayor que cero",
				map[string]any{"product_id": it.ProductID, "quantity": it.Quantity.String()})
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return nil, domain.Validation("INVALID_PRICE", "el precio no puede ser negativo",
				map[string]any{"product_id": it.ProductID})
		}
		p, ok := products[it.ProductID]
		if !ok {
			var err error
			if p, err = uc.catalog.Product(ctx, in.TenantID, it.ProductID); err != nil {
				return nil, err
			}
			if !p.Active {
				return nil, domain.Validation("PRODUCT_INACTIVE", "el producto "+p.SKU+" está inactivo",
					map[string]any{"product_id": p.ID, "sku": p.SKU})
			}
			products[p.ID] = p
		}
		requested[p.ID] = requested[p.ID].Add(qty)
	}
	for id, qty := range requested {
		p := products[id]
		if !p.TrackStock {
			continue
		}
		bal, err := uc.balances.Get(ctx, in.TenantID, id, in.LocationID)
		if err != nil {
			return nil, err
		}
		if err := checkAvailable(p, in.LocationID, bal, qty); err != nil {
			return nil, err
		}
	}
	rules, err := uc.policy.Rules(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	o := &entity.Order{
		ID:         uuid.New().String(),
		TenantID:   in.TenantID,
		Number:     uc.numbers.Next(ctx, in.TenantID),
		CustomerID: in.CustomerID,
		LocationID: in.LocationID,
		Status:     status,
		Notes:      in.Notes,
		CreatedBy:  in.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	items := make([]*entity.OrderItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		price := products[it.ProductID].Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		qty := inventory.Normalize(it.Quantity)
		line := &entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Quantity:  qty,
			UnitPrice: inventory.Normalize(price),
			Subtotal:  inventory.Normalize(qty.Mul(price)),
			Lot:       it.Lot,
			Serial:    it.Serial,
		}
		subtotal = subtotal.Add(line.Subtotal)
		items = append(items, line)
	}
	o.Subtotal = subtotal
	o.Total = subtotal

	create := func(tx repository.Tx) error {
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		for _, line := range items {
			if err := tx.Orders().CreateItem(ctx, line); err != nil {
				return err
			}
		}
		if !inventory.AllocatesStock(o.Status) {
			return nil
		}
		return allocate(ctx, appinventory.NewLedger(tx, rules), o, items, products, in.UserID)
	}
	err = uc.txRunner.Run(ctx, create)
	if errors.Is(err, domain.ErrDuplicate) {
		// Otro pedido tomó el mismo número entre la generación y el insert.
		uc.log.Warn().Str("tenant_id", in.TenantID).Str("number", o.Number).Msg("número de pedido duplicado, se reintenta")
		o.Number = uc.numbers.Unique()
		err = uc.txRunner.Run(ctx, create)
	}
	if err != nil {
		return nil, err
	}
	return &Result{Order: o, Items: items}, nil
}

// ConfirmOrder PENDING_PAYMENT → PROCESSING; vuelve a validar disponibilidad y asigna stock.
func (uc *UseCase) ConfirmOrder(ctx context.Context, tenantID, userID, orderID string) (*Result, error) {
	rules, err := uc.policy.Rules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *Result
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := loadForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		d := inventory.OrderTransition(o.Status, inventory.OrderConfirm)
		if !d.Allowed {
			return domain.InvalidTransition("pedido", o.ID, string(o.Status), string(inventory.OrderConfirm), d.Reason)
		}
		items, err := tx.Orders().ListItems(ctx, o.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.Internal("pedido %s sin líneas", o.ID)
		}
		products := make(map[string]*entity.Product, len(items))
		requested := make(map[string]decimal.Decimal, len(items))
		for _, it := range items {
			p, ok := products[it.ProductID]
			if !ok {
				if p, err = tx.Products().GetByID(ctx, tenantID, it.ProductID); err != nil {
					return err
				}
				if p == nil {
					return domain.Internal("pedido %s: producto %s de la línea %s no existe", o.ID, it.ProductID, it.ID)
				}
				products[p.ID] = p
			}
			requested[p.ID] = requested[p.ID].Add(it.Quantity)
		}
		for id, qty := range requested {
			if !products[id].TrackStock {
				continue
			}
			bal, err := tx.Balances().Get(ctx, tenantID, id, o.LocationID)
			if err != nil {
				return err
			}
			if err := checkAvailable(products[id], o.LocationID, bal, qty); err != nil {
				return err
			}
		}
		if err := allocate(ctx, appinventory.NewLedger(tx, rules), o, items, products, userID); err != nil {
			return err
		}
		o.Status = d.Next
		o.UpdatedAt = time.Now()
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		result = &Result{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ShipOrder PROCESSING → SHIPPED. El stock ya salió al entrar en proceso.
func (uc *UseCase) ShipOrder(ctx context.Context, tenantID, orderID string) (*Result, error) {
	return uc.advance(ctx, tenantID, orderID, inventory.OrderShip)
}

// CompleteOrder SHIPPED → COMPLETED.
func (uc *UseCase) CompleteOrder(ctx context.Context, tenantID, orderID string) (*Result, error) {
	return uc.advance(ctx, tenantID, orderID, inventory.OrderComplete)
}

func (uc *UseCase) advance(ctx context.Context, tenantID, orderID string, action inventory.OrderAction) (*Result, error) {
	var result *Result
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := loadForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		d := inventory.OrderTransition(o.Status, action)
		if !d.Allowed {
			return domain.InvalidTransition("pedido", o.ID, string(o.Status), string(action), d.Reason)
		}
		o.Status = d.Next
		o.UpdatedAt = time.Now()
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		items, err := tx.Orders().ListItems(ctx, o.ID)
		if err != nil {
			return err
		}
		result = &Result{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelOrder cancela el pedido y, si ya había asignado stock, registra por cada venta del
// pedido un RETURN_RESTOCK con la negación exacta de su delta (mismo producto, ubicación,
// lote y serial). No recalcula cantidades desde las líneas.
func (uc *UseCase) CancelOrder(ctx context.Context, tenantID, userID, orderID string) (*Result, error) {
	rules, err := uc.policy.Rules(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var result *Result
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		o, err := loadForUpdate(ctx, tx, tenantID, orderID)
		if err != nil {
			return err
		}
		d := inventory.OrderTransition(o.Status, inventory.OrderCancel)
		if !d.Allowed {
			return domain.InvalidTransition("pedido", o.ID, string(o.Status), string(inventory.OrderCancel), d.Reason)
		}
		items, err := tx.Orders().ListItems(ctx, o.ID)
		if err != nil {
			return err
		}
		if inventory.AllocatesStock(o.Status) {
			lineIDs := make(map[string]bool, len(items))
			for _, it := range items {
				lineIDs[it.ID] = true
			}
			sales, err := tx.Transactions().ListByOrder(ctx, tenantID, o.ID, entity.TxSale)
			if err != nil {
				return err
			}
			ledger := appinventory.NewLedger(tx, rules)
			for _, sale := range sales {
				if !lineIDs[sale.Link.OrderItemID] {
					return domain.Internal("pedido %s: la venta %s apunta a una línea inexistente %s",
						o.ID, sale.ID, sale.Link.OrderItemID)
				}
				if _, _, err := ledger.Record(ctx, appinventory.Movement{
					TenantID:   tenantID,
					UserID:     userID,
					ProductID:  sale.ProductID,
					LocationID: sale.LocationID,
					Quantity:   sale.Quantity.Neg(),
					Type:       entity.TxReturnRestock,
					UnitCost:   sale.UnitCost,
					Link:       entity.Linkage{OrderID: o.ID, OrderItemID: sale.Link.OrderItemID},
					Note:       "order cancelled",
					Lot:        sale.Lot,
					Serial:     sale.Serial,
				}); err != nil {
					return err
				}
			}
		}
		now := time.Now()
		o.Status = d.Next
		o.CancelledAt = &now
		o.UpdatedAt = now
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		result = &Result{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *UseCase) GetOrder(ctx context.Context, tenantID, id string) (*Result, error) {
	o, err := uc.orders.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido", id)
	}
	items, err := uc.orders.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Result{Order: o, Items: items}, nil
}

// allocate registra una venta (delta negativo) por cada línea con control de stock.
func allocate(
	ctx context.Context,
	ledger *appinventory.Ledger,
	o *entity.Order,
	items []*entity.OrderItem,
	products map[string]*entity.Product,
	userID string,
) error {
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return domain.Internal("pedido %s: línea %s sin producto resuelto", o.ID, it.ID)
		}
		if !p.TrackStock {
			continue
		}
		if _, _, err := ledger.Record(ctx, appinventory.Movement{
			TenantID:   o.TenantID,
			UserID:     userID,
			ProductID:  it.ProductID,
			LocationID: o.LocationID,
			Quantity:   it.Quantity.Neg(),
			Type:       entity.TxSale,
			Link:       entity.Linkage{OrderID: o.ID, OrderItemID: it.ID},
			Note:       o.Number,
			Lot:        it.Lot,
			Serial:     it.Serial,
		}); err != nil {
			return err
		}
	}
	return nil
}

func checkAvailable(p *entity.Product, locationID string, bal *entity.InventoryBalance, requested decimal.Decimal) error {
	available := bal.Available()
	if backorderEnabled || !available.LessThan(requested) {
		return nil
	}
	err := domain.InsufficientStock(p.ID, locationID, available.String(), requested.String())
	err.Details["sku"] = p.SKU
	return err
}

func loadForUpdate(ctx context.Context, tx repository.Tx, tenantID, id string) (*entity.Order, error) {
	o, err := tx.Orders().GetByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("pedido", id)
	}
	return o, nil
}
