package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements InvoiceRepository (usable with pool or tx).
// The invoices table carries a unique index on (client_id, month, year);
// that index, not the application pre-check, is what ultimately guarantees
// one invoice per client per period.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the adapter. Pass a pool or a tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persists the invoice. A (client_id, month, year) unique violation
// surfaces as domain.ErrDuplicate so the batch can take the skip path.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, client_id, month, year, total_amount, status, pdf_link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.ClientID, inv.Month, inv.Year, inv.TotalAmount,
		inv.Status, nullIfEmpty(inv.PDFLink), inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice for client %s period %02d/%d: %v",
				domain.ErrDuplicate, inv.ClientID, inv.Month, inv.Year, err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID returns the invoice, or (nil, nil) when it does not exist.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, client_id, month, year, total_amount, status, pdf_link, created_at, updated_at
		FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ExistsForPeriod reports whether an invoice already covers (client, period).
func (r *InvoiceRepo) ExistsForPeriod(clientID string, month, year int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1 AND month = $2 AND year = $3)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, clientID, month, year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice existence: %w", err)
	}
	return exists, nil
}

// ListByPeriod returns all invoices of a billing period.
func (r *InvoiceRepo) ListByPeriod(month, year int) ([]*entity.Invoice, error) {
	query := `
		SELECT id, client_id, month, year, total_amount, status, pdf_link, created_at, updated_at
		FROM invoices WHERE month = $1 AND year = $2 ORDER BY client_id`
	rows, err := r.q.Query(context.Background(), query, month, year)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// SetPDFLink attaches the rendered document link and moves the invoice to
// the rendered status.
func (r *InvoiceRepo) SetPDFLink(id, link string) error {
	query := `
		UPDATE invoices
		SET pdf_link = $2, status = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, link, entity.InvoiceStatusRendered)
	if err != nil {
		return fmt.Errorf("set pdf link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv  entity.Invoice
		link *string
	)
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.Month, &inv.Year, &inv.TotalAmount,
		&inv.Status, &link, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PDFLink = derefStr(link)
	return &inv, nil
}
