package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. El incremento de saldos es atómico por sentencia, no necesita un
// aislamiento mayor.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories agrupa todos los repositorios sobre el mismo Querier (pool o tx).
func Repositories(q Querier) repository.Tx {
	return registry{q: q}
}

type registry struct{ q Querier }

func (r registry) Balances() repository.BalanceRepository         { return NewBalanceRepository(r.q) }
func (r registry) Transactions() repository.TransactionRepository { return NewTransactionRepository(r.q) }
func (r registry) Adjustments() repository.AdjustmentRepository   { return NewAdjustmentRepository(r.q) }
func (r registry) Transfers() repository.TransferRepository       { return NewTransferRepository(r.q) }
func (r registry) StockCounts() repository.StockCountRepository   { return NewStockCountRepository(r.q) }
func (r registry) Orders() repository.OrderRepository             { return NewOrderRepository(r.q) }
func (r registry) Returns() repository.ReturnRepository           { return NewReturnRepository(r.q) }
func (r registry) Products() repository.ProductRepository         { return NewProductRepository(r.q) }
func (r registry) Locations() repository.LocationRepository       { return NewLocationRepository(r.q) }
