// Package invoicing implements the monthly invoice batch: aggregation of
// validated, uninvoiced work entries into one invoice per client per period,
// with document rendering delegated to external collaborators.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/pkg/identity"
	"github.com/laurent7850/The-event/pkg/logger"
)

// errAlreadyInvoiced marks the skip path inside a client transaction: an
// invoice for this (client, period) already exists, nothing is written.
var errAlreadyInvoiced = errors.New("already invoiced for period")

// maxParallelClients bounds the per-client generation fan-out.
const maxParallelClients = 4

// BatchUseCase generates the monthly invoices.
type BatchUseCase struct {
	txRunner    TxRunner
	entryRepo   repository.WorkEntryRepository
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	invoiceRepo repository.InvoiceRepository
	renderer    PDFRenderer
	store       ArtifactStore
	notifier    Notifier
	log         *logger.Logger
}

// NewBatchUseCase builds the use case.
func NewBatchUseCase(
	txRunner TxRunner,
	entryRepo repository.WorkEntryRepository,
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	invoiceRepo repository.InvoiceRepository,
	renderer PDFRenderer,
	store ArtifactStore,
	notifier Notifier,
	log *logger.Logger,
) *BatchUseCase {
	return &BatchUseCase{
		txRunner:    txRunner,
		entryRepo:   entryRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		store:       store,
		notifier:    notifier,
		log:         log,
	}
}

// GenerateForPeriod selects validated, uninvoiced entries dated in (month,
// year), groups them by client and emits one invoice per client. Per client,
// invoice creation and entry flagging are one transaction guarded by the
// (client_id, month, year) unique constraint; clients already invoiced for
// the period are skipped untouched. PDF rendering runs after commit — a
// rendering failure leaves the committed amounts authoritative and the link
// null. Different clients are processed in parallel.
func (uc *BatchUseCase) GenerateForPeriod(ctx context.Context, actor identity.Actor, month, year int) (*dto.GenerateInvoicesResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", domain.ErrInvalidInput)
	}
	if year < 2000 || year > time.Now().Year()+5 {
		return nil, fmt.Errorf("%w: implausible year %d", domain.ErrInvalidInput, year)
	}

	entries, err := uc.entryRepo.ListBillable(month, year)
	if err != nil {
		return nil, fmt.Errorf("select billable entries: %w", err)
	}
	if len(entries) == 0 {
		return &dto.GenerateInvoicesResponse{
			Message:  fmt.Sprintf("no validated, uninvoiced work entries for %02d/%d", month, year),
			Invoices: []dto.GeneratedInvoiceInfo{},
		}, nil
	}

	byClient := make(map[string][]*entity.WorkEntry)
	for _, e := range entries {
		byClient[e.ClientID] = append(byClient[e.ClientID], e)
	}

	projectNames, err := uc.projectNameIndex()
	if err != nil {
		return nil, err
	}

	var (
		results []dto.GeneratedInvoiceInfo
		mu      sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelClients)
	for clientID, group := range byClient {
		clientID, group := clientID, group
		g.Go(func() error {
			info, err := uc.generateForClient(gctx, clientID, month, year, group, projectNames)
			if err != nil {
				if errors.Is(err, errAlreadyInvoiced) {
					uc.log.Info().
						Str("client_id", clientID).
						Int("month", month).Int("year", year).
						Msg("invoice already exists for period, skipping client")
					return nil
				}
				// One client's failure must not abort the others.
				uc.log.Error().Err(err).
					Str("client_id", clientID).
					Msg("invoice generation failed for client")
				return nil
			}
			mu.Lock()
			results = append(results, *info)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ClientID < results[j].ClientID })

	msg := fmt.Sprintf("invoice generation completed for %02d/%d: %d new invoice(s)", month, year, len(results))
	uc.log.Info().Int("invoices", len(results)).Int("month", month).Int("year", year).Msg("invoice batch finished")
	return &dto.GenerateInvoicesResponse{Message: msg, Invoices: results}, nil
}

// generateForClient runs the per-client billing transaction, then the
// post-commit render/upload step.
func (uc *BatchUseCase) generateForClient(
	ctx context.Context,
	clientID string,
	month, year int,
	group []*entity.WorkEntry,
	projectNames map[string]string,
) (*dto.GeneratedInvoiceInfo, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", domain.ErrNotFound, clientID)
	}

	total := decimal.Zero
	ids := make([]string, 0, len(group))
	for _, e := range group {
		total = total.Add(e.Amount())
		ids = append(ids, e.ID)
	}
	total = total.Round(2)

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		ClientID:    clientID,
		Month:       month,
		Year:        year,
		TotalAmount: total,
		Status:      entity.InvoiceStatusGenerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.RunBilling(ctx, func(
		entryRepo repository.WorkEntryRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		exists, err := invoiceRepo.ExistsForPeriod(clientID, month, year)
		if err != nil {
			return fmt.Errorf("check existing invoice: %w", err)
		}
		if exists {
			return errAlreadyInvoiced
		}
		if err := invoiceRepo.Create(inv); err != nil {
			// A concurrent run inserted between the check and here; the
			// unique constraint turns the race into the skip path.
			if errors.Is(err, domain.ErrDuplicate) {
				return errAlreadyInvoiced
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		n, err := entryRepo.MarkInvoiced(ids, inv.ID)
		if err != nil {
			return fmt.Errorf("mark entries invoiced: %w", err)
		}
		if n != int64(len(ids)) {
			// Some entry was grabbed by another run: roll everything back
			// rather than bill a partial group.
			return fmt.Errorf("%w: expected %d entries, flagged %d", domain.ErrConflict, len(ids), n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := &dto.GeneratedInvoiceInfo{
		ClientID:    clientID,
		ClientName:  client.Name,
		InvoiceID:   inv.ID,
		TotalAmount: total,
	}

	// Amounts are committed; rendering is best-effort from here on.
	doc := buildDocument(inv, client, group, projectNames)
	link, err := uc.renderAndUpload(ctx, doc)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("pdf rendering failed, link stays null")
		info.PDFError = err.Error()
	} else {
		info.PDFLink = &link
		inv.PDFLink = link
	}

	uc.dispatchGenerated(inv, client)
	return info, nil
}

// renderAndUpload produces the PDF, uploads it and persists the link.
// Any failure maps to ErrExternalService.
func (uc *BatchUseCase) renderAndUpload(ctx context.Context, doc *InvoiceDocument) (string, error) {
	pdfBytes, err := uc.renderer.Render(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: render: %v", domain.ErrExternalService, err)
	}
	path := documentPath(doc.Invoice)
	link, err := uc.store.Upload(ctx, path, pdfBytes)
	if err != nil {
		return "", fmt.Errorf("%w: upload: %v", domain.ErrExternalService, err)
	}
	if err := uc.invoiceRepo.SetPDFLink(doc.Invoice.ID, link); err != nil {
		return "", fmt.Errorf("%w: persist pdf link: %v", domain.ErrExternalService, err)
	}
	return link, nil
}

// GetInvoice returns one stored invoice.
func (uc *BatchUseCase) GetInvoice(ctx context.Context, actor identity.Actor, id string) (*dto.InvoiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInvoiceResponse(inv), nil
}

// ListForPeriod returns the invoices already generated for (month, year).
func (uc *BatchUseCase) ListForPeriod(ctx context.Context, actor identity.Actor, month, year int) ([]dto.InvoiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", domain.ErrInvalidInput)
	}
	list, err := uc.invoiceRepo.ListByPeriod(month, year)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out, nil
}

// dispatchGenerated notifies asynchronously; failures are only logged.
func (uc *BatchUseCase) dispatchGenerated(inv *entity.Invoice, client *entity.Client) {
	if uc.notifier == nil {
		return
	}
	invoice := *inv
	cl := *client
	go func() {
		if err := uc.notifier.InvoiceGenerated(context.Background(), &invoice, &cl); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", invoice.ID).Msg("invoice notification failed")
		}
	}()
}

func (uc *BatchUseCase) projectNameIndex() (map[string]string, error) {
	projects, err := uc.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := make(map[string]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

// buildDocument assembles the renderer input from billed entries.
func buildDocument(inv *entity.Invoice, client *entity.Client, entries []*entity.WorkEntry, projectNames map[string]string) *InvoiceDocument {
	lines := make([]InvoiceLine, 0, len(entries))
	for _, e := range entries {
		rate := decimal.Zero
		if e.TariffSnapshot != nil {
			rate = *e.TariffSnapshot
		}
		lines = append(lines, InvoiceLine{
			Date:        e.Date,
			ProjectName: projectNames[e.ProjectID],
			Hours:       e.ComputedHours,
			Rate:        rate,
			Amount:      e.Amount().Round(2),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })
	return &InvoiceDocument{Invoice: inv, Client: client, Lines: lines}
}

// documentPath is the artifact location: YYYY/MM/invoice_<year>_<month>_<client>_<id>.pdf.
func documentPath(inv *entity.Invoice) string {
	return fmt.Sprintf("%d/%02d/invoice_%d_%02d_%s_%s.pdf", inv.Year, inv.Month, inv.Year, inv.Month, inv.ClientID, inv.ID)
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	var link *string
	if inv.PDFLink != "" {
		l := inv.PDFLink
		link = &l
	}
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		ClientID:    inv.ClientID,
		Month:       inv.Month,
		Year:        inv.Year,
		TotalAmount: inv.TotalAmount,
		Status:      inv.Status,
		PDFLink:     link,
	}
}
