package repository

import "context"

// Tx es la unidad de trabajo: todos los repositorios atados a la misma transacción.
// Lo que se escribe a través de Tx es visible solo cuando el runner hace Commit.
type Tx interface {
	Balances() BalanceRepository
	Transactions() TransactionRepository
	Adjustments() AdjustmentRepository
	Transfers() TransferRepository
	StockCounts() StockCountRepository
	Orders() OrderRepository
	Returns() ReturnRepository
	Products() ProductRepository
	Locations() LocationRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}
