package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
)

var _ repository.WorkEntryRepository = (*WorkEntryRepo)(nil)

const workEntryColumns = `
	id, collaborator_id, client_id, project_id, date,
	start_time, end_time, computed_hours, address, status,
	tariff_snapshot, admin_comment, invoiced, created_at, updated_at`

// WorkEntryRepo implements WorkEntryRepository (usable with pool or tx).
type WorkEntryRepo struct {
	q Querier
}

// NewWorkEntryRepository builds the adapter. Pass a pool or a tx (Querier).
func NewWorkEntryRepository(q Querier) *WorkEntryRepo {
	return &WorkEntryRepo{q: q}
}

// Create persists a new pending work entry.
func (r *WorkEntryRepo) Create(e *entity.WorkEntry) error {
	query := `
		INSERT INTO work_entries (id, collaborator_id, client_id, project_id, date,
			start_time, end_time, computed_hours, address, status,
			admin_comment, invoiced, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.CollaboratorID, e.ClientID, e.ProjectID, e.Date,
		e.StartTime, e.EndTime, e.ComputedHours, nullIfEmpty(e.Address), e.Status.String(),
		nullIfEmpty(e.AdminComment), e.Invoiced, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert work entry: %w", err)
	}
	return nil
}

// GetByID returns the entry, or (nil, nil) when it does not exist.
func (r *WorkEntryRepo) GetByID(id string) (*entity.WorkEntry, error) {
	query := `SELECT` + workEntryColumns + ` FROM work_entries WHERE id = $1`
	e, err := scanWorkEntry(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work entry: %w", err)
	}
	return e, nil
}

// Update persists amendable fields. The status guard makes a concurrent
// validation surface as ErrConflict instead of silently overwriting a
// validated entry.
func (r *WorkEntryRepo) Update(e *entity.WorkEntry) error {
	query := `
		UPDATE work_entries
		SET client_id      = $2,
		    project_id     = $3,
		    date           = $4,
		    start_time     = $5,
		    end_time       = $6,
		    computed_hours = $7,
		    address        = $8,
		    admin_comment  = $9,
		    updated_at     = $10
		WHERE id = $1 AND status = $11`
	tag, err := r.q.Exec(context.Background(), query,
		e.ID, e.ClientID, e.ProjectID, e.Date, e.StartTime, e.EndTime,
		e.ComputedHours, nullIfEmpty(e.Address), nullIfEmpty(e.AdminComment),
		e.UpdatedAt, entity.StatusPending.String(),
	)
	if err != nil {
		return fmt.Errorf("update work entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: work entry is not pending", domain.ErrConflict)
	}
	return nil
}

// ValidateIfPending is the validation compare-and-set: one UPDATE guarded by
// the current status, so concurrent validations cannot both succeed.
func (r *WorkEntryRepo) ValidateIfPending(id string, tariff decimal.Decimal) (bool, error) {
	query := `
		UPDATE work_entries
		SET status = $2, tariff_snapshot = $3, updated_at = now()
		WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(context.Background(), query,
		id, entity.StatusValidated.String(), tariff, entity.StatusPending.String(),
	)
	if err != nil {
		return false, fmt.Errorf("validate work entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending returns all pending entries ordered by work date.
func (r *WorkEntryRepo) ListPending() ([]*entity.WorkEntry, error) {
	query := `SELECT` + workEntryColumns + `
		FROM work_entries WHERE status = $1 ORDER BY date, created_at`
	return r.list(query, entity.StatusPending.String())
}

// ListByCollaborator returns one collaborator's entries, newest first.
func (r *WorkEntryRepo) ListByCollaborator(collaboratorID string) ([]*entity.WorkEntry, error) {
	query := `SELECT` + workEntryColumns + `
		FROM work_entries WHERE collaborator_id = $1 ORDER BY date DESC, created_at DESC`
	return r.list(query, collaboratorID)
}

// ListBillable returns validated, uninvoiced entries dated in the period.
func (r *WorkEntryRepo) ListBillable(month, year int) ([]*entity.WorkEntry, error) {
	query := `SELECT` + workEntryColumns + `
		FROM work_entries
		WHERE status = $1
		  AND invoiced = false
		  AND date >= make_date($2, $3, 1)
		  AND date < make_date($2, $3, 1) + interval '1 month'
		ORDER BY client_id, date`
	return r.list(query, entity.StatusValidated.String(), year, month)
}

// ListByInvoice returns the entries billed by an invoice.
func (r *WorkEntryRepo) ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error) {
	query := `SELECT` + workEntryColumns + `
		FROM work_entries WHERE invoice_id = $1 ORDER BY date`
	return r.list(query, invoiceID)
}

// MarkInvoiced flags validated, uninvoiced entries as billed by invoiceID.
func (r *WorkEntryRepo) MarkInvoiced(ids []string, invoiceID string) (int64, error) {
	query := `
		UPDATE work_entries
		SET invoiced = true, invoice_id = $2, updated_at = now()
		WHERE id = ANY($1) AND status = $3 AND invoiced = false`
	tag, err := r.q.Exec(context.Background(), query, ids, invoiceID, entity.StatusValidated.String())
	if err != nil {
		return 0, fmt.Errorf("mark entries invoiced: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *WorkEntryRepo) list(query string, args ...any) ([]*entity.WorkEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work entries: %w", err)
	}
	defer rows.Close()
	var out []*entity.WorkEntry
	for rows.Next() {
		e, err := scanWorkEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanWorkEntry maps one row, translating status at the storage boundary:
// unrecognized persisted values become StatusUnknown instead of leaking.
func scanWorkEntry(row pgx.Row) (*entity.WorkEntry, error) {
	var (
		e       entity.WorkEntry
		status  string
		address *string
		comment *string
	)
	err := row.Scan(
		&e.ID, &e.CollaboratorID, &e.ClientID, &e.ProjectID, &e.Date,
		&e.StartTime, &e.EndTime, &e.ComputedHours, &address, &status,
		&e.TariffSnapshot, &comment, &e.Invoiced, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Status = entity.ParseWorkEntryStatus(status)
	e.Address = derefStr(address)
	e.AdminComment = derefStr(comment)
	return &e, nil
}
