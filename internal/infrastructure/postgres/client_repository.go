package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implements ClientRepository (usable with pool or tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository builds the adapter. Pass a pool or a tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persists a client.
func (r *ClientRepo) Create(c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, address, billing_email, phone, vat_number, hourly_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.Address), nullIfEmpty(c.BillingEmail),
		nullIfEmpty(c.Phone), nullIfEmpty(c.VATNumber), c.HourlyRate,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID returns the client, or (nil, nil) when it does not exist.
func (r *ClientRepo) GetByID(id string) (*entity.Client, error) {
	query := `
		SELECT id, name, address, billing_email, phone, vat_number, hourly_rate, created_at, updated_at
		FROM clients WHERE id = $1`
	c, err := scanClient(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List returns all clients ordered by name.
func (r *ClientRepo) List() ([]*entity.Client, error) {
	query := `
		SELECT id, name, address, billing_email, phone, vat_number, hourly_rate, created_at, updated_at
		FROM clients ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update persists the full client record, the mutable hourly rate included.
// tariff_snapshot values already written to work entries are untouched.
func (r *ClientRepo) Update(c *entity.Client) error {
	query := `
		UPDATE clients
		SET name = $2, address = $3, billing_email = $4, phone = $5,
		    vat_number = $6, hourly_rate = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.Name, nullIfEmpty(c.Address), nullIfEmpty(c.BillingEmail),
		nullIfEmpty(c.Phone), nullIfEmpty(c.VATNumber), c.HourlyRate, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c                              entity.Client
		address, email, phone, vatNum *string
	)
	err := row.Scan(
		&c.ID, &c.Name, &address, &email, &phone, &vatNum,
		&c.HourlyRate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Address = derefStr(address)
	c.BillingEmail = derefStr(email)
	c.Phone = derefStr(phone)
	c.VATNumber = derefStr(vatNum)
	return &c, nil
}
