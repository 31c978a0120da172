// Package tracking implements the work-entry lifecycle: collaborator
// submission, admin amendment while pending, and the validating transition
// that snapshots the client's current hourly rate.
package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/internal/domain/worktime"
	"github.com/laurent7850/The-event/pkg/identity"
	"github.com/laurent7850/The-event/pkg/logger"
)

const dateLayout = "2006-01-02"

// WorkEntryUseCase drives a work entry through pending -> validated.
type WorkEntryUseCase struct {
	entryRepo   repository.WorkEntryRepository
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	notifier    Notifier
	log         *logger.Logger
}

// NewWorkEntryUseCase builds the use case.
func NewWorkEntryUseCase(
	entryRepo repository.WorkEntryRepository,
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	notifier Notifier,
	log *logger.Logger,
) *WorkEntryUseCase {
	return &WorkEntryUseCase{
		entryRepo:   entryRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		notifier:    notifier,
		log:         log,
	}
}

// Create registers a new pending work entry for the acting collaborator.
// Hours are always recomputed server-side from date and times.
func (uc *WorkEntryUseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreateWorkEntryRequest) (*dto.WorkEntryResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ClientID == "" || in.ProjectID == "" || in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, fmt.Errorf("%w: date, times, client_id and project_id are required", domain.ErrInvalidInput)
	}

	day, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	if err := uc.checkReferences(in.ClientID, in.ProjectID); err != nil {
		return nil, err
	}

	start, end, hours, err := computeSpan(day, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	e := &entity.WorkEntry{
		ID:             uuid.New().String(),
		CollaboratorID: actor.UserID,
		ClientID:       in.ClientID,
		ProjectID:      in.ProjectID,
		Date:           day,
		StartTime:      start,
		EndTime:        end,
		ComputedHours:  hours,
		Address:        in.Address,
		Status:         entity.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.entryRepo.Create(e); err != nil {
		return nil, fmt.Errorf("create work entry: %w", err)
	}

	uc.log.Info().
		Str("entry_id", e.ID).
		Str("collaborator_id", e.CollaboratorID).
		Str("client_id", e.ClientID).
		Str("hours", e.ComputedHours.String()).
		Msg("work entry created")

	return uc.toResponse(e), nil
}

// Amend updates a pending entry. Validated entries are immutable apart from
// the invoiced flag; amending one returns ErrConflict.
func (uc *WorkEntryUseCase) Amend(ctx context.Context, actor identity.Actor, entryID string, in dto.AmendWorkEntryRequest) (*dto.WorkEntryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	e, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, fmt.Errorf("load work entry: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: work entry already validated", domain.ErrConflict)
	}

	timesChanged := false
	if in.Date != nil {
		day, err := time.Parse(dateLayout, *in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		e.Date = day
		timesChanged = true
	}
	if in.StartTime != nil {
		e.StartTime = *in.StartTime
		timesChanged = true
	}
	if in.EndTime != nil {
		e.EndTime = *in.EndTime
		timesChanged = true
	}
	if in.ClientID != nil {
		e.ClientID = *in.ClientID
	}
	if in.ProjectID != nil {
		e.ProjectID = *in.ProjectID
	}
	if in.Address != nil {
		e.Address = *in.Address
	}
	if in.AdminComment != nil {
		e.AdminComment = *in.AdminComment
	}

	if in.ClientID != nil || in.ProjectID != nil {
		if err := uc.checkReferences(e.ClientID, e.ProjectID); err != nil {
			return nil, err
		}
	}

	if timesChanged {
		start, end, hours, err := computeSpan(e.Date, e.StartTime, e.EndTime)
		if err != nil {
			return nil, err
		}
		e.StartTime, e.EndTime, e.ComputedHours = start, end, hours
	}

	e.UpdatedAt = time.Now()
	if err := uc.entryRepo.Update(e); err != nil {
		return nil, fmt.Errorf("amend work entry: %w", err)
	}

	uc.log.Info().Str("entry_id", e.ID).Str("admin_id", actor.UserID).Msg("work entry amended")
	return uc.toResponse(e), nil
}

// Validate transitions a pending entry to validated, snapshotting the
// client's current hourly rate. The status check and the write are one
// compare-and-set: of two concurrent validations exactly one succeeds, the
// other gets ErrConflict, and the snapshot is taken once.
func (uc *WorkEntryUseCase) Validate(ctx context.Context, actor identity.Actor, entryID string) (*dto.WorkEntryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	e, err := uc.entryRepo.GetByID(entryID)
	if err != nil {
		return nil, fmt.Errorf("load work entry: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: work entry already validated", domain.ErrConflict)
	}

	client, err := uc.clientRepo.GetByID(e.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", domain.ErrNotFound, e.ClientID)
	}
	if client.HourlyRate == nil {
		return nil, fmt.Errorf("%w: client %s has no hourly rate configured", domain.ErrPrecondition, e.ClientID)
	}

	ok, err := uc.entryRepo.ValidateIfPending(e.ID, *client.HourlyRate)
	if err != nil {
		return nil, fmt.Errorf("validate work entry: %w", err)
	}
	if !ok {
		// Lost the race to a concurrent validation.
		return nil, fmt.Errorf("%w: work entry already validated", domain.ErrConflict)
	}

	e, err = uc.entryRepo.GetByID(entryID)
	if err != nil || e == nil {
		return nil, fmt.Errorf("reload work entry: %w", err)
	}

	uc.log.Info().
		Str("entry_id", e.ID).
		Str("admin_id", actor.UserID).
		Str("tariff_snapshot", client.HourlyRate.String()).
		Msg("work entry validated")

	uc.dispatchValidated(e, client)
	return uc.toResponse(e), nil
}

// AmendAndValidate applies an amendment and then validates. The amendment is
// durable even when validation fails (for example when a concurrent
// validation wins the race): it is not rolled back.
func (uc *WorkEntryUseCase) AmendAndValidate(ctx context.Context, actor identity.Actor, entryID string, in dto.AmendWorkEntryRequest) (*dto.WorkEntryResponse, error) {
	if _, err := uc.Amend(ctx, actor, entryID, in); err != nil {
		return nil, err
	}
	return uc.Validate(ctx, actor, entryID)
}

// ListPending returns pending entries enriched with client and project names
// for the admin validation screen.
func (uc *WorkEntryUseCase) ListPending(ctx context.Context, actor identity.Actor) ([]dto.WorkEntryResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.entryRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("list pending entries: %w", err)
	}

	clientNames, projectNames, err := uc.nameIndexes()
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkEntryResponse, 0, len(entries))
	for _, e := range entries {
		r := uc.toResponse(e)
		r.ClientName = clientNames[e.ClientID]
		r.ProjectName = projectNames[e.ProjectID]
		out = append(out, *r)
	}
	return out, nil
}

// ListMine returns the acting collaborator's own entries.
func (uc *WorkEntryUseCase) ListMine(ctx context.Context, actor identity.Actor) ([]dto.WorkEntryResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	entries, err := uc.entryRepo.ListByCollaborator(actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list own entries: %w", err)
	}
	out := make([]dto.WorkEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, *uc.toResponse(e))
	}
	return out, nil
}

// checkReferences verifies that client and project exist and belong together.
func (uc *WorkEntryUseCase) checkReferences(clientID, projectID string) error {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return fmt.Errorf("%w: client %s", domain.ErrNotFound, clientID)
	}
	project, err := uc.projectRepo.GetByID(projectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return fmt.Errorf("%w: project %s", domain.ErrNotFound, projectID)
	}
	if project.ClientID != clientID {
		return fmt.Errorf("%w: project %s does not belong to client %s", domain.ErrInvalidInput, projectID, clientID)
	}
	return nil
}

// dispatchValidated notifies asynchronously; a failure is logged, never
// surfaced to the caller.
func (uc *WorkEntryUseCase) dispatchValidated(e *entity.WorkEntry, client *entity.Client) {
	if uc.notifier == nil {
		return
	}
	entry := *e
	cl := *client
	go func() {
		if err := uc.notifier.WorkEntryValidated(context.Background(), &entry, &cl); err != nil {
			uc.log.Warn().Err(err).Str("entry_id", entry.ID).Msg("validation notification failed")
		}
	}()
}

func (uc *WorkEntryUseCase) nameIndexes() (map[string]string, map[string]string, error) {
	clients, err := uc.clientRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("list clients: %w", err)
	}
	projects, err := uc.projectRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("list projects: %w", err)
	}
	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}
	projectNames := make(map[string]string, len(projects))
	for _, p := range projects {
		projectNames[p.ID] = p.Name
	}
	return clientNames, projectNames, nil
}

// computeSpan normalizes the clock times and recomputes billable hours.
// Duration failures surface as ErrInvalidInput.
func computeSpan(day time.Time, startRaw, endRaw string) (start, end string, hours decimal.Decimal, err error) {
	start, err = worktime.NormalizeClock(startRaw)
	if err != nil {
		return "", "", decimal.Zero, fmt.Errorf("%w: start_time: %v", domain.ErrInvalidInput, err)
	}
	end, err = worktime.NormalizeClock(endRaw)
	if err != nil {
		return "", "", decimal.Zero, fmt.Errorf("%w: end_time: %v", domain.ErrInvalidInput, err)
	}
	hours, err = worktime.ComputeHours(day, start, end)
	if err != nil {
		return "", "", decimal.Zero, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return start, end, hours, nil
}

func (uc *WorkEntryUseCase) toResponse(e *entity.WorkEntry) *dto.WorkEntryResponse {
	return &dto.WorkEntryResponse{
		ID:             e.ID,
		CollaboratorID: e.CollaboratorID,
		ClientID:       e.ClientID,
		ProjectID:      e.ProjectID,
		Date:           e.Date.Format(dateLayout),
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		ComputedHours:  e.ComputedHours,
		Address:        e.Address,
		Status:         e.Status.String(),
		TariffSnapshot: e.TariffSnapshot,
		AdminComment:   e.AdminComment,
		Invoiced:       e.Invoiced,
	}
}
