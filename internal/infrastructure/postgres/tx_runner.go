package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/domain/repository"
)

// Ensure TxRunner implements invoicing.TxRunner.
var _ invoicing.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner on the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling opens a transaction, runs fn with tx-bound work-entry and
// invoice repositories, and commits or rolls back as one unit.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	entryRepo repository.WorkEntryRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	entryRepo := NewWorkEntryRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)

	if err := fn(entryRepo, invoiceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
