package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/laurent7850/The-event/internal/application/dto"
	"github.com/laurent7850/The-event/internal/domain"
	"github.com/laurent7850/The-event/internal/domain/entity"
	"github.com/laurent7850/The-event/internal/domain/repository"
	"github.com/laurent7850/The-event/pkg/identity"
)

// ProjectUseCase manages project records.
type ProjectUseCase struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
}

// NewProjectUseCase builds the use case.
func NewProjectUseCase(projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository) *ProjectUseCase {
	return &ProjectUseCase{projectRepo: projectRepo, clientRepo: clientRepo}
}

// Create registers a project under an existing client.
func (uc *ProjectUseCase) Create(ctx context.Context, actor identity.Actor, in dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" || in.ClientID == "" {
		return nil, fmt.Errorf("%w: name and client_id are required", domain.ErrInvalidInput)
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("%w: client %s", domain.ErrNotFound, in.ClientID)
	}
	p := &entity.Project{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	if err := uc.projectRepo.Create(p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &dto.ProjectResponse{ID: p.ID, Name: p.Name, ClientID: p.ClientID}, nil
}

// List returns all projects.
func (uc *ProjectUseCase) List(ctx context.Context, actor identity.Actor) ([]dto.ProjectResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	projects, err := uc.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.ProjectResponse{ID: p.ID, Name: p.Name, ClientID: p.ClientID})
	}
	return out, nil
}
