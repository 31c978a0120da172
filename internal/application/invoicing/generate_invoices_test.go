package invoicing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laurent7850/The-event/internal/application/invoicing"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/pkg/identity"
	"github.com/laurent7850/The-event/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu       sync.Mutex
	entries  map[string]*entity.WorkEntry
	clients  map[string]*entity.Client
	projects map[string]*entity.Project
	invoices map[string]*entity.Invoice
	// billedBy mirrors the invoice_id column: entry id -> invoice id.
	billedBy map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		entries:  make(map[string]*entity.WorkEntry),
		clients:  make(map[string]*entity.Client),
		projects: make(map[string]*entity.Project),
		invoices: make(map[string]*entity.Invoice),
		billedBy: make(map[string]string),
	}
}

// snapshot and restore give the fake tx runner rollback semantics.
func (s *memStore) snapshot() (map[string]*entity.WorkEntry, map[string]*entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make(map[string]*entity.WorkEntry, len(s.entries))
	for k, v := range s.entries {
		cp := *v
		entries[k] = &cp
	}
	invoices := make(map[string]*entity.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		cp := *v
		invoices[k] = &cp
	}
	return entries, invoices
}

func (s *memStore) restore(entries map[string]*entity.WorkEntry, invoices map[string]*entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	s.invoices = invoices
}

type entryRepo struct{ s *memStore }

func (r entryRepo) Create(e *entity.WorkEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.entries[e.ID] = &cp
	return nil
}

func (r entryRepo) GetByID(id string) (*entity.WorkEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r entryRepo) Update(e *entity.WorkEntry) error { return nil }

func (r entryRepo) ValidateIfPending(id string, tariff decimal.Decimal) (bool, error) {
	return false, nil
}

func (r entryRepo) ListPending() ([]*entity.WorkEntry, error) { return nil, nil }

func (r entryRepo) ListByCollaborator(string) ([]*entity.WorkEntry, error) { return nil, nil }

func (r entryRepo) ListBillable(month, year int) ([]*entity.WorkEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WorkEntry
	for _, e := range r.s.entries {
		if e.Status == entity.StatusValidated && !e.Invoiced &&
			int(e.Date.Month()) == month && e.Date.Year() == year {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r entryRepo) MarkInvoiced(ids []string, invoiceID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		e, ok := r.s.entries[id]
		if ok && e.Status == entity.StatusValidated && !e.Invoiced {
			e.Invoiced = true
			r.s.billedBy[id] = invoiceID
			n++
		}
	}
	return n, nil
}

func (r entryRepo) ListByInvoice(invoiceID string) ([]*entity.WorkEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.WorkEntry
	for id, e := range r.s.entries {
		if r.s.billedBy[id] == invoiceID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type clientRepo struct{ s *memStore }

func (r clientRepo) Create(c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r clientRepo) GetByID(id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r clientRepo) List() ([]*entity.Client, error) { return nil, nil }
func (r clientRepo) Update(c *entity.Client) error   { return nil }

type projectRepo struct{ s *memStore }

func (r projectRepo) Create(p *entity.Project) error { return nil }
func (r projectRepo) GetByID(id string) (*entity.Project, error) {
	return nil, nil
}
func (r projectRepo) List() ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.s.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.ClientID == inv.ClientID && existing.Month == inv.Month && existing.Year == inv.Year {
			return fmt.Errorf("%w: invoice for client and period", domain.ErrDuplicate)
		}
	}
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r invoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r invoiceRepo) ExistsForPeriod(clientID string, month, year int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invoices {
		if inv.ClientID == clientID && inv.Month == month && inv.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r invoiceRepo) ListByPeriod(month, year int) ([]*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.Month == month && inv.Year == year {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r invoiceRepo) SetPDFLink(id, link string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.PDFLink = link
	inv.Status = entity.InvoiceStatusRendered
	return nil
}

// memTxRunner snapshots the store before fn and restores it when fn fails.
type memTxRunner struct{ s *memStore }

func (tx memTxRunner) RunBilling(_ context.Context, fn func(
	entryRepo repository.WorkEntryRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	entries, invoices := tx.s.snapshot()
	if err := fn(entryRepo{s: tx.s}, invoiceRepo{s: tx.s}); err != nil {
		tx.s.restore(entries, invoices)
		return err
	}
	return nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (r *fakeRenderer) Render(_ context.Context, doc *invoicing.InvoiceDocument) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + doc.Invoice.ID), nil
}

type fakeStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (f *fakeStore) Upload(_ context.Context, path string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[path] = content
	return "https://files.example.com/" + path, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var batchAdmin = identity.Actor{UserID: "admin-1", Role: identity.RoleAdmin}

type batchFixture struct {
	uc       *invoicing.BatchUseCase
	store    *memStore
	renderer *fakeRenderer
	files    *fakeStore
}

func newBatchFixture(t *testing.T) *batchFixture {
	t.Helper()
	s := newMemStore()
	renderer := &fakeRenderer{}
	files := &fakeStore{}
	uc := invoicing.NewBatchUseCase(
		memTxRunner{s: s},
		entryRepo{s: s}, clientRepo{s: s}, projectRepo{s: s}, invoiceRepo{s: s},
		renderer, files, nil, logger.Nop(),
	)
	return &batchFixture{uc: uc, store: s, renderer: renderer, files: files}
}

func (f *batchFixture) addClient(id, name string) {
	f.store.clients[id] = &entity.Client{ID: id, Name: name}
}

func (f *batchFixture) addValidatedEntry(id, clientID string, day time.Time, hours, tariff string) {
	h := decimal.RequireFromString(hours)
	tr := decimal.RequireFromString(tariff)
	f.store.entries[id] = &entity.WorkEntry{
		ID:             id,
		CollaboratorID: "collab-1",
		ClientID:       clientID,
		ProjectID:      "project-1",
		Date:           day,
		StartTime:      "09:00",
		EndTime:        "17:00",
		ComputedHours:  h,
		Status:         entity.StatusValidated,
		TariffSnapshot: &tr,
	}
}

var march = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// GenerateForPeriod
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_OneInvoicePerClientWithCorrectTotal(t *testing.T) {
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.addValidatedEntry("e2", "client-1", march.AddDate(0, 0, 1), "2", "40")

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)

	info := resp.Invoices[0]
	assert.Equal(t, "client-1", info.ClientID)
	assert.True(t, info.TotalAmount.Equal(decimal.NewFromInt(200)),
		"3h + 2h at 40/h must total 200, got %s", info.TotalAmount)
	require.NotNil(t, info.PDFLink)
	assert.Contains(t, *info.PDFLink, "https://files.example.com/2025/03/")

	// Entries are flagged in the same transaction.
	for _, id := range []string{"e1", "e2"} {
		e := f.store.entries[id]
		assert.True(t, e.Invoiced, "entry %s must be flagged invoiced", id)
	}

	inv := f.store.invoices[info.InvoiceID]
	require.NotNil(t, inv)
	assert.Equal(t, entity.InvoiceStatusRendered, inv.Status)
	assert.NotEmpty(t, inv.PDFLink)
}

func TestGenerate_GroupsByClient(t *testing.T) {
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addClient("client-2", "Brasserie")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.addValidatedEntry("e2", "client-2", march, "4", "30")

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 2)

	// Results are sorted by client id.
	assert.Equal(t, "client-1", resp.Invoices[0].ClientID)
	assert.Equal(t, "client-2", resp.Invoices[1].ClientID)
	assert.True(t, resp.Invoices[0].TotalAmount.Equal(decimal.NewFromInt(120)))
	assert.True(t, resp.Invoices[1].TotalAmount.Equal(decimal.NewFromInt(120)))
}

func TestGenerate_EmptyPeriodNoSideEffects(t *testing.T) {
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
	assert.Empty(t, f.store.invoices)
	assert.Zero(t, f.renderer.calls)
}

func TestGenerate_SecondRunIsIdempotent(t *testing.T) {
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")

	first, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, first.Invoices, 1)

	second, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	assert.Empty(t, second.Invoices, "already-invoiced entries must not be billed twice")
	assert.Len(t, f.store.invoices, 1)
}

func TestGenerate_ExistingInvoiceSkipsClientUntouched(t *testing.T) {
	// An invoice for the period already exists but its entries were never
	// flagged (interrupted earlier run): the client is skipped, nothing is
	// written.
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.store.invoices["inv-old"] = &entity.Invoice{
		ID: "inv-old", ClientID: "client-1", Month: 3, Year: 2025,
		TotalAmount: decimal.NewFromInt(120), Status: entity.InvoiceStatusGenerated,
	}

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
	assert.Len(t, f.store.invoices, 1, "no second invoice for the period")
	assert.False(t, f.store.entries["e1"].Invoiced, "skip path writes nothing")
}

func TestGenerate_PDFFailureLeavesAmountsCommitted(t *testing.T) {
	f := newBatchFixture(t)
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.renderer.err = errors.New("font cache corrupted")

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err, "a rendering failure must not fail the batch")
	require.Len(t, resp.Invoices, 1)

	info := resp.Invoices[0]
	assert.Nil(t, info.PDFLink, "link stays null on rendering failure")
	assert.NotEmpty(t, info.PDFError)
	assert.True(t, info.TotalAmount.Equal(decimal.NewFromInt(120)))

	inv := f.store.invoices[info.InvoiceID]
	require.NotNil(t, inv, "the invoice is committed before rendering")
	assert.Empty(t, inv.PDFLink)
	assert.Equal(t, entity.InvoiceStatusGenerated, inv.Status)
	assert.True(t, f.store.entries["e1"].Invoiced)
}

func TestGenerate_OneClientFailureDoesNotAbortOthers(t *testing.T) {
	f := newBatchFixture(t)
	// client-2 is referenced by entries but missing from the registry.
	f.addClient("client-1", "Grand Hôtel")
	f.addValidatedEntry("e1", "client-1", march, "3", "40")
	f.addValidatedEntry("e2", "client-ghost", march, "2", "25")

	resp, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, "client-1", resp.Invoices[0].ClientID)
}

func TestGenerate_NonAdminForbidden(t *testing.T) {
	f := newBatchFixture(t)
	actor := identity.Actor{UserID: "collab-1", Role: identity.RoleCollaborator}
	_, err := f.uc.GenerateForPeriod(context.Background(), actor, 3, 2025)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGenerate_InvalidPeriod(t *testing.T) {
	f := newBatchFixture(t)
	_, err := f.uc.GenerateForPeriod(context.Background(), batchAdmin, 13, 2025)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.GenerateForPeriod(context.Background(), batchAdmin, 3, 1890)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invoice retrieval
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInvoice(t *testing.T) {
	f := newBatchFixture(t)
	f.store.invoices["inv-1"] = &entity.Invoice{
		ID: "inv-1", ClientID: "client-1", Month: 3, Year: 2025,
		TotalAmount: decimal.NewFromInt(200), Status: entity.InvoiceStatusGenerated,
	}

	inv, err := f.uc.GetInvoice(context.Background(), batchAdmin, "inv-1")
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Nil(t, inv.PDFLink)

	_, err = f.uc.GetInvoice(context.Background(), batchAdmin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListForPeriod(t *testing.T) {
	f := newBatchFixture(t)
	f.store.invoices["inv-1"] = &entity.Invoice{ID: "inv-1", ClientID: "c1", Month: 3, Year: 2025}
	f.store.invoices["inv-2"] = &entity.Invoice{ID: "inv-2", ClientID: "c2", Month: 4, Year: 2025}

	list, err := f.uc.ListForPeriod(context.Background(), batchAdmin, 3, 2025)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "inv-1", list[0].ID)
}
