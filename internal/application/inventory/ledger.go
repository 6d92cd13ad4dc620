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
)

// StockRules reglas de stock vigentes para una transacción.
type StockRules struct {
	AllowNegative bool
}

// Movement un cambio de saldo para una terna (tenant, producto, ubicación).
// Quantity es el delta con signo. Producto y ubicación deben venir validados por el caller.
type Movement struct {
	TenantID   string
	UserID     string
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	Type       entity.TransactionType
	UnitCost   *decimal.Decimal
	Link       entity.Linkage
	Note       string
	Lot        string
	Serial     string
}

// Ledger es el único punto que modifica quantity_on_hand. Está atado a una unidad de trabajo
// abierta por el caller y nunca abre ni cierra transacciones propias; si Record devuelve error
// el caller debe abortar su transacción para deshacer el incremento ya aplicado.
// Record no es idempotente: dos llamadas iguales producen dos movimientos.
type Ledger struct {
	tx    repository.Tx
	rules StockRules
	now   func() time.Time
}

// NewLedger ata el ledger a la transacción y a las reglas resueltas para el tenant.
func NewLedger(tx repository.Tx, rules StockRules) *Ledger {
	return &Ledger{tx: tx, rules: rules, now: time.Now}
}

// Record aplica el movimiento: incremento atómico del saldo, verificación de negativo
// y alta de la fila inmutable en inventory_transactions.
func (l *Ledger) Record(ctx context.Context, m Movement) (*entity.InventoryBalance, *entity.InventoryTransaction, error) {
	qty := inventory.Normalize(m.Quantity)
	if qty.IsZero() {
		return nil, nil, domain.Usage("movimiento %s con cantidad cero para el producto %s", m.Type, m.ProductID)
	}
	if !m.Type.Valid() {
		return nil, nil, domain.Usage("tipo de movimiento desconocido: %q", m.Type)
	}
	if m.TenantID == "" || m.ProductID == "" || m.LocationID == "" {
		return nil, nil, domain.Usage("movimiento sin tenant, producto o ubicación")
	}
	if m.Link.Documents() > 1 {
		return nil, nil, domain.Usage("el movimiento solo puede vincularse a un documento")
	}

	var cost *decimal.Decimal
	if m.UnitCost != nil {
		c := inventory.Normalize(*m.UnitCost)
		cost = &c
	}
	var costForAverage *decimal.Decimal
	if qty.IsPositive() {
		costForAverage = cost
	}

	balance, err := l.tx.Balances().Increment(ctx, m.TenantID, m.ProductID, m.LocationID, qty, costForAverage)
	if err != nil {
		return nil, nil, err
	}

	// La verificación va después del incremento: el saldo devuelto ya incluye cualquier
	// movimiento concurrente confirmado antes sobre la misma fila.
	if qty.IsNegative() && !l.rules.AllowNegative && balance.QuantityOnHand.IsNegative() {
		before := balance.QuantityOnHand.Sub(qty)
		return nil, nil, domain.InsufficientStock(m.ProductID, m.LocationID, before.String(), qty.Neg().String())
	}

	txn := &entity.InventoryTransaction{
		ID:         uuid.New().String(),
		TenantID:   m.TenantID,
		ProductID:  m.ProductID,
		LocationID: m.LocationID,
		Type:       m.Type,
		Quantity:   qty,
		UnitCost:   cost,
		Link:       m.Link,
		Lot:        m.Lot,
		Serial:     m.Serial,
		Note:       m.Note,
		CreatedBy:  m.UserID,
		CreatedAt:  l.now(),
	}
	if err := l.tx.Transactions().Create(ctx, txn); err != nil {
		return nil, nil, err
	}
	return balance, txn, nil
}
