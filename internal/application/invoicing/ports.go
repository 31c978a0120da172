package invoicing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
)

// TxRunner executes fn inside one storage transaction. Invoice creation and
// the invoiced-flagging of its entries commit or roll back together.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		entryRepo repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoiceDocument is everything the renderer needs for one invoice.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Client  *entity.Client
	Lines   []InvoiceLine
}

// InvoiceLine is one billed work entry on the document.
type InvoiceLine struct {
	Date        time.Time
	ProjectName string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// PDFRenderer produces the invoice document bytes.
type PDFRenderer interface {
	Render(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}

// ArtifactStore uploads a rendered document and returns its public link.
type ArtifactStore interface {
	Upload(ctx context.Context, path string, content []byte) (string, error)
}

// Notifier delivers fire-and-forget notifications; failures never roll back
// or block invoice generation.
type Notifier interface {
	InvoiceGenerated(ctx context.Context, inv *entity.Invoice, client *entity.Client) error
}
