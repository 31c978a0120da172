package repository

import "github.com/laurent7850/The-event/internal/domain/entity"

// ProjectRepository is the read/write port for the project registry.
// GetByID returns (nil, nil) when the project does not exist.
type ProjectRepository interface {
	Create(p *entity.Project) error
	GetByID(id string) (*entity.Project, error)
	List() ([]*entity.Project, error)
}
