package invoicing

import (
	"context"
	"fmt"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/pkg/identity"
	"github.com/laurent7850/The-event/pkg/logger"
)

// RenderUseCase re-runs the document step for an invoice whose PDF link is
// still null. The billing amounts were committed by the batch run; only
// rendering and upload are retried, never the invoice itself.
type RenderUseCase struct {
	entryRepo   repository.WorkEntryRepository
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	invoiceRepo repository.InvoiceRepository
	renderer    PDFRenderer
	store       ArtifactStore
	log         *logger.Logger
}

// NewRenderUseCase builds the use case.
func NewRenderUseCase(
	entryRepo repository.WorkEntryRepository,
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	invoiceRepo repository.InvoiceRepository,
	renderer PDFRenderer,
	store ArtifactStore,
	log *logger.Logger,
) *RenderUseCase {
	return &RenderUseCase{
		entryRepo:   entryRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		renderer:    renderer,
		store:       store,
		log:         log,
	}
}

// Render loads the invoice with its billed entries, produces the PDF,
// uploads it and persists the link. Re-rendering an invoice that already
// has a link returns ErrConflict; the artifact is immutable once attached.
func (uc *RenderUseCase) Render(ctx context.Context, actor identity.Actor, invoiceID string) (*dto.InvoiceResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.PDFLink != "" {
		return nil, fmt.Errorf("%w: invoice %s already has a document", domain.ErrConflict, invoiceID)
	}

	client, err := uc.clientRepo.GetByID(inv.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", domain.ErrNotFound, inv.ClientID)
	}

	entries, err := uc.entryRepo.ListByInvoice(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("load billed entries: %w", err)
	}

	projects, err := uc.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}

	doc := buildDocument(inv, client, entries, projectNames)
	pdfBytes, err := uc.renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: render: %v", domain.ErrExternalService, err)
	}
	link, err := uc.store.Upload(ctx, documentPath(inv), pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: upload: %v", domain.ErrExternalService, err)
	}
	if err := uc.invoiceRepo.SetPDFLink(inv.ID, link); err != nil {
		return nil, fmt.Errorf("persist pdf link: %w", err)
	}
	inv.PDFLink = link

	uc.log.Info().Str("invoice_id", inv.ID).Str("link", link).Msg("invoice document rendered")
	return toInvoiceResponse(inv), nil
}
