package repository

import (
	"github.com/shopspring/decimal"

	"github.com/laurent7850/The-event/internal/domain/entity"
)

// WorkEntryRepository is the persistence port for work entries.
// GetByID returns (nil, nil) when the entry does not exist.
type WorkEntryRepository interface {
	Create(e *entity.WorkEntry) error
	GetByID(id string) (*entity.WorkEntry, error)
	// Update persists amendable fields (date, times, client, project,
	// address, admin comment) plus the recomputed hours. It must not touch
	// status, tariff_snapshot or invoiced.
	Update(e *entity.WorkEntry) error
	// ValidateIfPending is the compare-and-set of the validation step:
	// UPDATE ... SET status='validated', tariff_snapshot=$rate
	// WHERE id=$id AND status='pending', reporting whether a row matched.
	// Two concurrent validations of the same entry see exactly one true.
	ValidateIfPending(id string, tariff decimal.Decimal) (bool, error)
	ListPending() ([]*entity.WorkEntry, error)
	ListByCollaborator(collaboratorID string) ([]*entity.WorkEntry, error)
	// ListBillable returns validated, not-yet-invoiced entries whose date
	// falls inside the (month, year) period.
	ListBillable(month, year int) ([]*entity.WorkEntry, error)
	// MarkInvoiced flags the entries as billed by the given invoice and
	// returns how many rows actually matched (validated, uninvoiced).
	MarkInvoiced(ids []string, invoiceID string) (int64, error)
	// ListByInvoice returns the entries billed by an invoice, for document
	// rendering.
	ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error)
}
