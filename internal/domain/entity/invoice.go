package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses.
const (
	InvoiceStatusGenerated = "generated" // amounts committed, PDF may still be missing
	InvoiceStatusRendered  = "rendered"  // PDF produced and uploaded
)

// Invoice is one billing document for one client and one (month, year)
// period. At most one invoice per (client, period) may ever exist; the
// work_entries it aggregates carry invoiced=true in the same transaction
// that created it.
type Invoice struct {
	ID          string
	ClientID    string
	Month       int // 1..12
	Year        int
	TotalAmount decimal.Decimal
	Status      string
	PDFLink     string // empty until render+upload succeeds
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PeriodLabel formats the billing period as MM/YYYY.
func (i *Invoice) PeriodLabel() string {
	return fmt.Sprintf("%02d/%d", i.Month, i.Year)
}
