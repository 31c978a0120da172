package repository

import "github.com/laurent7850/The-event/internal/domain/entity"

// InvoiceRepository is the persistence port for invoices.
// The backing store enforces uniqueness on (client_id, month, year);
// Create must surface a violation as domain.ErrDuplicate so a concurrent
// batch run can take the skip path instead of failing.
type InvoiceRepository interface {
	Create(inv *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	ExistsForPeriod(clientID string, month, year int) (bool, error)
	ListByPeriod(month, year int) ([]*entity.Invoice, error)
	// SetPDFLink attaches the rendered artifact link after the billing
	// transaction has committed.
	SetPDFLink(id, link string) error
}
