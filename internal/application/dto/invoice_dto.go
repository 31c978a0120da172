package dto

import "github.com/shopspring/decimal"

// GenerateInvoicesRequest selects the billing period.
type GenerateInvoicesRequest struct {
	Month int `json:"month"` // 1..12
	Year  int `json:"year"`
}

// GeneratedInvoiceInfo is the per-client outcome of a batch run. PDFLink is
// null when rendering or upload failed; the amounts are committed regardless.
type GeneratedInvoiceInfo struct {
	ClientID    string          `json:"client_id"`
	ClientName  string          `json:"client_name"`
	InvoiceID   string          `json:"invoice_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PDFLink     *string         `json:"pdf_link"`
	PDFError    string          `json:"pdf_error,omitempty"`
}

// GenerateInvoicesResponse aggregates the outcomes of one batch run.
type GenerateInvoicesResponse struct {
	Message  string                 `json:"message"`
	Invoices []GeneratedInvoiceInfo `json:"generated_invoices"`
}

// InvoiceResponse is the API representation of a stored invoice.
type InvoiceResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	PDFLink     *string         `json:"pdf_link"`
}
