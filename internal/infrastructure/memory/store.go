// Package memory implementa los puertos de persistencia en proceso. Cada Run trabaja sobre
// una copia del estado y la publica solo si fn termina sin error, de modo que un fallo a mitad
// de un flujo no deja escrituras parciales (mismo contrato que una transacción PostgreSQL).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type balanceKey struct {
	tenantID   string
	productID  string
	locationID string
}

type state struct {
	products        map[string]*entity.Product
	locations       map[string]*entity.Location
	balances        map[balanceKey]*entity.InventoryBalance
	transactions    []*entity.InventoryTransaction
	adjustments     map[string]*entity.Adjustment
	adjustmentLines map[string][]*entity.AdjustmentLine
	transfers       map[string]*entity.Transfer
	transferLines   map[string][]*entity.TransferLine
	counts          map[string]*entity.StockCount
	countItems      map[string][]*entity.StockCountItem
	orders          map[string]*entity.Order
	orderItems      map[string][]*entity.OrderItem
	returns         map[string]*entity.Return
	returnItems     map[string][]*entity.ReturnItem
	refunds         map[string][]*entity.Refund
}

func newState() *state {
	return &state{
		products:        map[string]*entity.Product{},
		locations:       map[string]*entity.Location{},
		balances:        map[balanceKey]*entity.InventoryBalance{},
		adjustments:     map[string]*entity.Adjustment{},
		adjustmentLines: map[string][]*entity.AdjustmentLine{},
		transfers:       map[string]*entity.Transfer{},
		transferLines:   map[string][]*entity.TransferLine{},
		counts:          map[string]*entity.StockCount{},
		countItems:      map[string][]*entity.StockCountItem{},
		orders:          map[string]*entity.Order{},
		orderItems:      map[string][]*entity.OrderItem{},
		returns:         map[string]*entity.Return{},
		returnItems:     map[string][]*entity.ReturnItem{},
		refunds:         map[string][]*entity.Refund{},
	}
}

// clone copia cada entidad; los valores decimal.Decimal son inmutables y se comparten.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = ptr(*v)
	}
	for k, v := range s.locations {
		c.locations[k] = ptr(*v)
	}
	for k, v := range s.balances {
		c.balances[k] = ptr(*v)
	}
	c.transactions = cloneSlice(s.transactions)
	for k, v := range s.adjustments {
		c.adjustments[k] = ptr(*v)
	}
	for k, v := range s.adjustmentLines {
		c.adjustmentLines[k] = cloneSlice(v)
	}
	for k, v := range s.transfers {
		c.transfers[k] = ptr(*v)
	}
	for k, v := range s.transferLines {
		c.transferLines[k] = cloneSlice(v)
	}
	for k, v := range s.counts {
		c.counts[k] = ptr(*v)
	}
	for k, v := range s.countItems {
		c.countItems[k] = cloneSlice(v)
	}
	for k, v := range s.orders {
		c.orders[k] = ptr(*v)
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = cloneSlice(v)
	}
	for k, v := range s.returns {
		c.returns[k] = ptr(*v)
	}
	for k, v := range s.returnItems {
		c.returnItems[k] = cloneSlice(v)
	}
	for k, v := range s.refunds {
		c.refunds[k] = cloneSlice(v)
	}
	return c
}

func ptr[T any](v T) *T { return &v }

func cloneSlice[T any](in []*T) []*T {
	out := make([]*T, len(in))
	for i, v := range in {
		out[i] = ptr(*v)
	}
	return out
}

// Store guarda el estado confirmado. Las transacciones se serializan con txMu; las lecturas
// fuera de transacción toman mu en modo lectura.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	cur  *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{cur: newState()}
}

// Run ejecuta fn sobre una copia privada del estado y la publica si fn devuelve nil.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.cur.clone()
	s.mu.RUnlock()

	if err := fn(&view{tx: work}); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = work
	s.mu.Unlock()
	return nil
}

// Repositories devuelve los repositorios fuera de transacción (lecturas y altas de catálogo).
func (s *Store) Repositories() repository.Tx {
	return &view{store: s}
}

// view implementa repository.Tx. Con tx != nil opera sobre la copia de una transacción abierta;
// si no, sobre el estado confirmado del store.
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.cur)
}

func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.txMu.Lock()
	defer v.store.txMu.Unlock()
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.cur)
}

func (v *view) Balances() repository.BalanceRepository         { return balanceRepo{v} }
func (v *view) Transactions() repository.TransactionRepository { return transactionRepo{v} }
func (v *view) Adjustments() repository.AdjustmentRepository   { return adjustmentRepo{v} }
func (v *view) Transfers() repository.TransferRepository       { return transferRepo{v} }
func (v *view) StockCounts() repository.StockCountRepository   { return stockCountRepo{v} }
func (v *view) Orders() repository.OrderRepository             { return orderRepo{v} }
func (v *view) Returns() repository.ReturnRepository           { return returnRepo{v} }
func (v *view) Products() repository.ProductRepository         { return productRepo{v} }
func (v *view) Locations() repository.LocationRepository       { return locationRepo{v} }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
