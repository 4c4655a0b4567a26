package repositories

import "context"

// TxFn is a function executed within a database transaction.
// The context passed to it carries the transaction; repositories created
// from the same pool automatically participate via GetTx.
type TxFn func(ctx context.Context) error

// TransactionManager runs functions inside a single database transaction.
type TransactionManager interface {
	// ExecTx executes fn within a transaction, committing on nil error
	// and rolling back otherwise.
	ExecTx(ctx context.Context, fn TxFn) error
}
