package invoicing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/pkg/logger"
)

func newRenderFixture(t *testing.T) (*invoicing.RenderUseCase, *batchFixture) {
	t.Helper()
	f := newBatchFixture(t)
	uc := invoicing.NewRenderUseCase(
		entryRepo{s: f.store}, clientRepo{s: f.store}, projectRepo{s: f.store},
		invoiceRepo{s: f.store}, f.renderer, f.files, logger.Nop(),
	)
	return uc, f
}

func TestRender_RetriesMissingDocument(t *testing.T) {
	uc, f := newRenderFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.store.entries["e1"].Invoiced = true
	f.store.billedBy["e1"] = "inv-1"
	f.store.invoices["inv-1"] = &entity.Invoice{
		ID: "inv-1", ClientID: "client-1", Month: 3, Year: 2025,
		TotalAmount: decimal.NewFromInt(120), Status: entity.InvoiceStatusGenerated,
	}

	resp, err := uc.Render(context.Background(), batchAdmin, "inv-1")
	require.NoError(t, err)
	require.NotNil(t, resp.PDFLink)
	assert.Contains(t, *resp.PDFLink, "invoice_2025_03_client-1_inv-1.pdf")

	stored := f.store.invoices["inv-1"]
	assert.Equal(t, entity.InvoiceStatusRendered, stored.Status)
	assert.NotEmpty(t, stored.PDFLink)
}

func TestRender_ExistingDocumentConflicts(t *testing.T) {
	uc, f := newRenderFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.store.invoices["inv-1"] = &entity.Invoice{
		ID: "inv-1", ClientID: "client-1", Month: 3, Year: 2025,
		Status: entity.InvoiceStatusRendered, PDFLink: "https://files.example.com/x.pdf",
	}

	_, err := uc.Render(context.Background(), batchAdmin, "inv-1")
	assert.ErrorIs(t, err, domain.ErrConflict, "the attached artifact is immutable")
}

func TestRender_UnknownInvoice(t *testing.T) {
	uc, _ := newRenderFixture(t)
	_, err := uc.Render(context.Background(), batchAdmin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
